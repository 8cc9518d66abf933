package hostbudget

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics receives one call per Allow decision.
type Metrics interface {
	RecordAllowed(host string)
	RecordDenied(host string)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordAllowed(string) {}
func (NopMetrics) RecordDenied(string)  {}

// PrometheusMetrics exports budget decisions as counters labeled by outcome.
// Hosts are not used as a label to keep cardinality bounded; per-host
// debugging goes through logs, not metrics.
type PrometheusMetrics struct {
	decisions *prometheus.CounterVec
}

// NewPrometheusMetrics registers the counters with the default registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "host_budget_decisions_total",
				Help: "Per-host fetch budget decisions by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (m *PrometheusMetrics) RecordAllowed(string) {
	m.decisions.WithLabelValues("allowed").Inc()
}

func (m *PrometheusMetrics) RecordDenied(string) {
	m.decisions.WithLabelValues("denied").Inc()
}
