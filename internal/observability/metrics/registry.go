// Package metrics provides centralized Prometheus metrics for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection metrics track the Z0 feed-fetch stage.
var (
	// FeedFetchDuration measures time to fetch and parse one feed source
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"platform"},
	)

	// FeedFetchErrors counts errors during feed fetching
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed fetch errors",
		},
		[]string{"platform"},
	)

	// ItemsCollectedTotal counts items collected per platform
	ItemsCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_collected_total",
			Help: "Total number of items collected from sources",
		},
		[]string{"platform"},
	)

	// PoolSize tracks the most recent run's post-collection pool size
	PoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_size",
			Help: "Number of items in the most recent collection pool",
		},
	)
)

// Hydration metrics track the fulltext fetch stage.
var (
	// ContentFetchAttemptsTotal counts content fetch attempts by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	// ContentFetchDuration measures time to fetch article content
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// ContentFetchSize measures fetched content size in bytes
	ContentFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "content_fetch_size_bytes",
			Help: "Fetched article content size in bytes",
			Buckets: []float64{
				100, 200, 400, 800, 1600, 3200, 6400, 12800,
				25600, 51200, 102400, 204800, 409600, 819200,
				1638400, 3276800, 6553600, 10485760, // up to 10MB
			},
		},
	)
)

// Verdict metrics track gate evaluations and selection output.
var (
	// GateResultsTotal counts gate evaluations by gate name and verdict
	GateResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_results_total",
			Help: "Total gate evaluations by gate and verdict",
		},
		[]string{"gate", "result"},
	)

	// EventsSelected tracks the most recent run's selected event count
	EventsSelected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "events_selected",
			Help: "Number of events selected in the most recent run",
		},
	)

	// EventsSelectedByBucket tracks the bucket breakdown of the most
	// recent selection
	EventsSelectedByBucket = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "events_selected_by_bucket",
			Help: "Selected events by channel bucket in the most recent run",
		},
		[]string{"bucket"},
	)

	// RewriteAppliedTotal counts faithful-rewrite outcomes
	RewriteAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewrite_applied_total",
			Help: "Faithful rewrite attempts by outcome",
		},
		[]string{"outcome"}, // outcome: applied, skeletonized, failed
	)
)
