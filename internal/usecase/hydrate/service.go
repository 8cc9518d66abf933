// Package hydrate implements the Fulltext Hydrator: for every RawItem
// flagged needs_fulltext it fetches the article URL, extracts the main text,
// and reports exactly one HydrationResult per item. It never drops the
// originating item on failure; gates decide the run's fate later.
package hydrate

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"briefline/internal/domain/entity"
	"briefline/internal/observability/metrics"
	"briefline/internal/resilience/retry"
	"briefline/pkg/hostbudget"

	"golang.org/x/sync/errgroup"
)

// Policy configures the Hydrator's concurrency, politeness, retry, and
// quality-gate behavior.
type Policy struct {
	// WorkerPoolSize bounds total concurrent fetches across all hosts.
	WorkerPoolSize int
	// PolitenessDelay is the minimum gap between the end of one request to a
	// host and the start of the next request to that same host.
	PolitenessDelay time.Duration
	// MaxRetries is the number of retries (not counting the first attempt)
	// allowed for a transient failure.
	MaxRetries int
	// NetworkTimeout bounds a single fetch attempt.
	NetworkTimeout time.Duration
	// MaxJunkRatio is the upper bound on extracted-text junk ratio to pass
	// the quality gate.
	MaxJunkRatio float64
	// HostBudget caps total fetches per host within one run, on top of the
	// per-request politeness delay.
	HostBudget hostbudget.Config
}

// DefaultPolicy is the production tuning: 3 workers, 500ms per-domain
// politeness delay, up to 2 retries, 15s network timeout.
func DefaultPolicy() Policy {
	return Policy{
		WorkerPoolSize:  3,
		PolitenessDelay: 500 * time.Millisecond,
		MaxRetries:      2,
		NetworkTimeout:  15 * time.Second,
		MaxJunkRatio:    DefaultMaxJunkRatio,
		HostBudget:      hostbudget.DefaultConfig(),
	}
}

// Hydrator fetches full article text for RawItems that need it.
type Hydrator struct {
	Fetcher ContentFetcher
	Policy  Policy

	gate   *politenessGate
	budget *hostbudget.Limiter
}

// New constructs a Hydrator with the given content fetcher and policy.
func New(fetcher ContentFetcher, policy Policy) *Hydrator {
	return &Hydrator{
		Fetcher: fetcher,
		Policy:  policy,
		gate:    newPolitenessGate(policy.PolitenessDelay),
		budget:  hostbudget.New(policy.HostBudget),
	}
}

// Hydrate fetches full text for every item with NeedsFulltext set, bounded by
// Policy.WorkerPoolSize, and returns exactly one HydrationResult per input
// item (including items that did not need hydration, reported as skipped).
// Cancelling ctx aborts outstanding fetches within one network timeout;
// results already computed are still returned.
func (h *Hydrator) Hydrate(ctx context.Context, items []entity.RawItem) []entity.HydrationResult {
	results := make([]entity.HydrationResult, len(items))
	sem := make(chan struct{}, h.Policy.WorkerPoolSize)
	eg, egCtx := errgroup.WithContext(ctx)

	for i, item := range items {
		i, item := i, item

		if !item.NeedsFulltext {
			results[i] = entity.HydrationResult{
				ItemID: item.ID,
				Status: entity.HydrationSkippedPolicy,
			}
			continue
		}

		eg.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-egCtx.Done():
				results[i] = entity.HydrationResult{ItemID: item.ID, Status: entity.HydrationTimeout}
				return nil
			}
			defer func() { <-sem }()

			results[i] = h.hydrateOne(egCtx, item)
			return nil
		})
	}

	// errgroup's ctxErr only aborts new sem acquisitions; Wait itself never
	// returns an error because hydrateOne never returns one (per-item errors
	// are recorded, not raised).
	_ = eg.Wait()
	return results
}

func (h *Hydrator) hydrateOne(ctx context.Context, item entity.RawItem) entity.HydrationResult {
	host := hostOf(item.URL)

	if d := h.budget.Allow(host); !d.Allowed {
		metrics.RecordContentFetchSkipped()
		slog.Warn("host fetch budget exhausted",
			slog.String("item_id", item.ID),
			slog.String("host", host))
		return entity.HydrationResult{ItemID: item.ID, Status: entity.HydrationSkippedPolicy}
	}

	var result entity.HydrationResult
	h.gate.Do(host, func() {
		result = h.fetchWithRetry(ctx, item)
	})
	return result
}

func (h *Hydrator) fetchWithRetry(ctx context.Context, item entity.RawItem) entity.HydrationResult {
	delay := 200 * time.Millisecond
	var lastStatus entity.HydrationStatus
	var lastFulltext, lastFinalURL string
	var lastJunk float64

	for attempt := 0; attempt <= h.Policy.MaxRetries; attempt++ {
		fetchCtx, cancel := context.WithTimeout(ctx, h.Policy.NetworkTimeout)
		start := time.Now()
		fetchResult, err := h.Fetcher.FetchContent(fetchCtx, item.URL)
		cancel()

		if err != nil {
			metrics.RecordContentFetchFailed(time.Since(start))
		}

		if err == nil {
			text := fetchResult.Text
			metrics.RecordContentFetchSuccess(time.Since(start), len(text))
			ratio := junkRatio(text)
			status := entity.HydrationExtractLowQuality
			if len(text) >= entity.MinFulltextLen && len(text) > len(item.Body) {
				if ratio <= h.Policy.MaxJunkRatio {
					status = entity.HydrationOK
				}
			} else if len(text) == 0 {
				status = entity.HydrationExtractEmpty
			}
			return entity.HydrationResult{
				ItemID:      item.ID,
				Status:      status,
				Fulltext:    text,
				FulltextLen: len(text),
				FinalURL:    fetchResult.FinalURL,
				Retries:     attempt,
				JunkRatio:   ratio,
				FetchedAt:   time.Now().UTC(),
			}
		}

		status, retryable := classify(err)
		lastStatus, lastFulltext, lastFinalURL, lastJunk = status, "", "", 0

		if !retryable || attempt == h.Policy.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			lastStatus = entity.HydrationTimeout
			break
		}

		slog.Warn("hydration attempt failed, retrying",
			slog.String("item_id", item.ID),
			slog.String("url", item.URL),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))

		select {
		case <-time.After(addJitter(delay)):
		case <-ctx.Done():
			lastStatus = entity.HydrationTimeout
		}
		delay *= 2
		if delay > 8*time.Second {
			delay = 8 * time.Second
		}
	}

	return entity.HydrationResult{
		ItemID:      item.ID,
		Status:      lastStatus,
		Fulltext:    lastFulltext,
		FulltextLen: len(lastFulltext),
		FinalURL:    lastFinalURL,
		Retries:     h.Policy.MaxRetries,
		JunkRatio:   lastJunk,
		FetchedAt:   time.Now().UTC(),
	}
}

// classify maps a fetch error to a HydrationStatus and whether it is worth
// retrying. HTTP 403/429 are classified blocked and never retried,
// even though the generic retry package treats 429 as a transient failure
// worth retrying for other callers (e.g. feed fetching).
func classify(err error) (entity.HydrationStatus, bool) {
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusForbidden || httpErr.StatusCode == http.StatusTooManyRequests {
			return entity.HydrationBlocked, false
		}
		if httpErr.StatusCode >= 500 {
			return entity.HydrationHTTPError, true
		}
		return entity.HydrationHTTPError, false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return entity.HydrationTimeout, true
	}
	if errors.Is(err, context.Canceled) {
		return entity.HydrationTimeout, false
	}
	if errors.Is(err, ErrReadabilityFailed) {
		return entity.HydrationExtractEmpty, false
	}
	if errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrPrivateIP) || errors.Is(err, ErrTooManyRedirects) || errors.Is(err, ErrBodyTooLarge) {
		return entity.HydrationSkippedPolicy, false
	}
	return entity.HydrationConnectionError, true
}

// addJitter randomizes a backoff delay by up to 20% to avoid synchronized
// retries across items sharing a host.
func addJitter(d time.Duration) time.Duration {
	// #nosec G404 -- jitter does not need cryptographic randomness.
	return d + time.Duration(rand.Float64()*0.2*float64(d))
}
