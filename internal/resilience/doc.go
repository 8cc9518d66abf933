// Package resilience provides reliability and fault tolerance patterns for
// the pipeline's outbound traffic. It includes circuit breakers and retry
// logic so one failing feed host, article server, or LLM endpoint degrades
// a run gracefully instead of stalling it.
//
// The package supports:
//   - Circuit breakers for outbound calls (feed fetch, content fetch, scrapers, LLM assist)
//   - Retry logic with exponential backoff and jitter
//   - An http.RoundTripper wrapper so whole clients share one breaker
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchFeed()
//	})
//
//	retryConfig := retry.FeedFetchConfig()
//	err = retry.WithBackoff(ctx, retryConfig, func() error {
//	    return performFetch()
//	})
package resilience
