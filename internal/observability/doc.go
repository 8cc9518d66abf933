// Package observability provides the pipeline's observability infrastructure:
// structured logging and Prometheus metrics.
//
// Centralizing these concerns enables:
//   - Structured logging with run_id propagation through context
//   - Prometheus metrics for monitoring every pipeline stage
//   - One place to evolve log/metric conventions without touching stages
//
// Subpackages:
//   - logging: structured logging utilities built on slog
//   - metrics: Prometheus metrics registry and recorders
//
// Example usage:
//
//	import (
//	    "briefline/internal/observability/logging"
//	    "briefline/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("pipeline started")
//
//	    metrics.UpdatePoolSize(1500)
//	}
package observability
