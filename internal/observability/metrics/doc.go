// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all pipeline metrics including:
//   - Collection metrics (feed fetch durations, per-platform item counts, pool size)
//   - Hydration metrics (content fetch attempts, durations, sizes)
//   - Verdict metrics (gate results, selection totals, rewrite outcomes)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "briefline/internal/observability/metrics"
//
//	func fetchSource(platform string) {
//	    start := time.Now()
//	    // ... fetch and parse ...
//	    metrics.RecordFeedFetch(platform, time.Since(start), itemCount)
//	}
package metrics
