package runner

import (
	"briefline/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RunnerMetrics provides Prometheus metrics for the scheduled-run component.
// It embeds the standard ConfigMetrics for configuration monitoring and adds
// run-specific metrics for cron job execution tracking.
//
// Embedded metrics (from ConfigMetrics):
//   - briefctl_config_load_timestamp: Unix timestamp of last configuration load
//   - briefctl_config_validation_errors_total: Total validation errors by field
//   - briefctl_config_fallbacks_total: Total fallback operations by field
//   - briefctl_config_fallback_active: 1 if any fallback active, 0 otherwise
//
// Run-specific metrics:
//   - briefctl_run_runs_total: Total cron job runs by status (success/failure)
//   - briefctl_run_duration_seconds: Duration histogram of cron job execution
//   - briefctl_run_events_selected_total: Total events selected per job run
//   - briefctl_run_last_success_timestamp: Unix timestamp of last successful run
//
// Example usage:
//
//	metrics := NewRunnerMetrics()
//	metrics.MustRegister()
//
//	// Record configuration load
//	metrics.RecordLoadTimestamp()
//
//	// Record cron job execution
//	start := time.Now()
//	defer func() {
//	    duration := time.Since(start).Seconds()
//	    metrics.RecordJobRun("success")
//	    metrics.RecordJobDuration(duration)
//	    metrics.RecordEventsSelected(42)
//	    metrics.RecordLastSuccess()
//	}()
type RunnerMetrics struct {
	// Embedded configuration metrics
	*config.ConfigMetrics

	// RunsTotal counts the total number of cron job runs.
	// Type: Counter
	// Labels: status (success, failure)
	// Usage: Increment after each job run based on success/failure
	RunsTotal *prometheus.CounterVec

	// DurationSeconds measures the duration of cron job execution.
	// Type: Histogram
	// Labels: none
	// Buckets: 1s, 5s, 30s, 1m, 5m, 15m, 30m (optimized for typical crawl durations)
	// Usage: Observe duration at the end of each job run
	DurationSeconds prometheus.Histogram

	// EventsSelectedTotal counts the total number of events selected per job.
	// Type: Counter
	// Labels: none
	// Usage: Add the number of events selected after each successful job
	EventsSelectedTotal prometheus.Counter

	// LastSuccessTimestamp records the Unix timestamp of the last successful run.
	// Type: Gauge
	// Labels: none
	// Usage: Set to current time when a job completes successfully
	LastSuccessTimestamp prometheus.Gauge
}

// NewRunnerMetrics creates a new RunnerMetrics instance with all metrics initialized.
// Metrics are registered with the default Prometheus registry as they are created
// (promauto); MustRegister() is a no-op kept for the usual initialization pattern.
//
// Returns:
//   - *RunnerMetrics: Initialized metrics ready for registration
//
// Example:
//
//	metrics := NewRunnerMetrics()
//	metrics.MustRegister()  // Register with Prometheus
func NewRunnerMetrics() *RunnerMetrics {
	return &RunnerMetrics{
		ConfigMetrics: config.NewConfigMetrics("briefctl"),

		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "briefctl_run_runs_total",
			Help: "Total number of cron job runs by status (success/failure)",
		}, []string{"status"}),

		DurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "briefctl_run_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800}, // 1s, 5s, 30s, 1m, 5m, 15m, 30m
		}),

		EventsSelectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "briefctl_run_events_selected_total",
			Help: "Total number of events selected across all cron job runs",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "briefctl_run_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}),
	}
}

// MustRegister is a no-op method for API compatibility.
// Metrics are automatically registered via promauto when created in NewRunnerMetrics.
//
// This method exists to maintain consistency with the expected metrics initialization pattern:
//
//	metrics := NewRunnerMetrics()
//	metrics.MustRegister()
//
// Even though registration happens automatically, this explicit call makes the
// initialization intent clear and maintains compatibility with future changes.
func (m *RunnerMetrics) MustRegister() {
	// No-op: metrics are auto-registered via promauto
}

// RecordJobRun increments the job run counter for the given status.
// Status should be either "success" or "failure".
//
// Parameters:
//   - status: Job execution status ("success" or "failure")
//
// Example:
//
//	if err := runJob(); err != nil {
//	    metrics.RecordJobRun("failure")
//	} else {
//	    metrics.RecordJobRun("success")
//	}
func (m *RunnerMetrics) RecordJobRun(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes the duration of a cron job execution.
// Duration should be in seconds.
//
// Parameters:
//   - seconds: Job execution duration in seconds
//
// Example:
//
//	start := time.Now()
//	// ... execute job ...
//	duration := time.Since(start).Seconds()
//	metrics.RecordJobDuration(duration)
func (m *RunnerMetrics) RecordJobDuration(seconds float64) {
	m.DurationSeconds.Observe(seconds)
}

// RecordEventsSelected adds the number of events selected to the total counter.
//
// Parameters:
//   - count: Number of events selected in this job run
//
// Example:
//
//	metrics.RecordEventsSelected(len(selectedEvents))
func (m *RunnerMetrics) RecordEventsSelected(count int) {
	m.EventsSelectedTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful job completion.
//
// Example:
//
//	if err := runJob(); err == nil {
//	    metrics.RecordLastSuccess()
//	}
func (m *RunnerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
