package metrics

import (
	"time"
)

// RecordFeedFetch records one feed fetch: its duration and how many items
// the parser yielded.
func RecordFeedFetch(platform string, duration time.Duration, items int) {
	FeedFetchDuration.WithLabelValues(platform).Observe(duration.Seconds())
	if items > 0 {
		ItemsCollectedTotal.WithLabelValues(platform).Add(float64(items))
	}
}

// RecordFeedFetchError records a failed feed fetch.
func RecordFeedFetchError(platform string) {
	FeedFetchErrors.WithLabelValues(platform).Inc()
}

// UpdatePoolSize publishes the post-collection pool size of the current run.
func UpdatePoolSize(total int) {
	PoolSize.Set(float64(total))
}

// RecordContentFetchSuccess records a successful content fetch: its duration
// and the size of the extracted text.
func RecordContentFetchSuccess(duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailed records a failed content fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a fetch skipped by policy (body already
// sufficient, host budget exhausted, blocklisted domain).
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordGateResult records one gate evaluation.
func RecordGateResult(gateName, result string) {
	GateResultsTotal.WithLabelValues(gateName, result).Inc()
}

// UpdateSelection publishes the most recent run's selection totals, overall
// and per bucket.
func UpdateSelection(total int, byBucket map[string]int) {
	EventsSelected.Set(float64(total))
	for bucket, n := range byBucket {
		EventsSelectedByBucket.WithLabelValues(bucket).Set(float64(n))
	}
}

// RecordRewriteOutcome records one faithful-rewrite attempt. Outcome is
// "applied", "skeletonized", or "failed".
func RecordRewriteOutcome(outcome string) {
	RewriteAppliedTotal.WithLabelValues(outcome).Inc()
}
