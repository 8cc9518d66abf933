package collect

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"briefline/internal/domain/entity"
	"briefline/internal/observability/metrics"

	"golang.org/x/time/rate"
	"lukechampine.com/blake3"
)

// recentWindow is the horizon used for the "72h" frontier-quality variants
// reported in CollectionMeta.
const recentWindow = 72 * time.Hour

// Collector fetches every configured Source through its platform's
// FeedFetcher, canonicalizes and scores each item, and reports the pool
// statistics the hard gates consume.
type Collector struct {
	// Fetchers maps a Source.SourceType to the parser that handles it.
	Fetchers map[string]FeedFetcher

	// pacer spaces consecutive feed fetches out so a long source catalog is
	// walked at a steady rate rather than in one burst.
	pacer *rate.Limiter
}

// feedFetchInterval is the minimum spacing between consecutive source
// fetches.
const feedFetchInterval = 200 * time.Millisecond

// New constructs a Collector backed by the given platform-keyed fetchers.
func New(fetchers map[string]FeedFetcher) *Collector {
	return &Collector{
		Fetchers: fetchers,
		pacer:    rate.NewLimiter(rate.Every(feedFetchInterval), 1),
	}
}

// Collect fetches every active source, producing a deduplicated pool of
// RawItems (by canonical URL) and the CollectionMeta the Orchestrator uses to
// decide whether Supply Fallback is needed.
func (c *Collector) Collect(ctx context.Context, sources []entity.Source) ([]entity.RawItem, entity.CollectionMeta) {
	now := time.Now().UTC()
	seen := make(map[string]bool)
	var items []entity.RawItem

	byPlatform := make(map[string]int)
	histogram := make(map[string]int)
	pubSrcCounts := make(map[string]int)

	for _, source := range sources {
		if !source.Active {
			continue
		}
		fetcher, ok := c.Fetchers[source.SourceType]
		if !ok {
			slog.Warn("no fetcher registered for source type",
				slog.String("source", source.Name),
				slog.String("source_type", source.SourceType))
			continue
		}

		if err := c.pacer.Wait(ctx); err != nil {
			break
		}

		fetchCtx := ctx
		if source.ScraperConfig != nil {
			fetchCtx = context.WithValue(ctx, ScraperConfigKey, source.ScraperConfig)
		}

		fetchStart := time.Now()
		feedItems, err := fetcher.Fetch(fetchCtx, source.FeedURL)
		if err != nil {
			metrics.RecordFeedFetchError(source.SourceType)
			slog.Warn("feed fetch failed",
				slog.String("source", source.Name),
				slog.String("url", source.FeedURL),
				slog.Any("error", err))
			continue
		}
		metrics.RecordFeedFetch(source.SourceType, time.Since(fetchStart), len(feedItems))

		for _, fi := range feedItems {
			canonicalURL := canonicalizeURL(fi.URL)
			if canonicalURL == "" || seen[canonicalURL] {
				continue
			}
			seen[canonicalURL] = true

			id := itemID(canonicalURL)
			body := cleanContent(fi.Content)
			score := frontierScore(fi.Title, body, fi.PublishedAt, now, source.Reputation)

			items = append(items, entity.RawItem{
				ID:            id,
				SourceName:    source.Name,
				Platform:      source.SourceType,
				URL:           fi.URL,
				CanonicalURL:  canonicalURL,
				Title:         fi.Title,
				Body:          body,
				PublishedAt:   fi.PublishedAt.UTC(),
				PublishedSrc:  fi.PublishedSrc,
				FrontierScore: score,
				NeedsFulltext: len(body) < entity.MinFulltextLen,
			})

			byPlatform[source.SourceType]++
			histogram[frontierHistogramBucket(score)]++
			pubSrcCounts[fi.PublishedSrc]++
		}
	}

	metrics.UpdatePoolSize(len(items))

	meta := entity.CollectionMeta{
		TotalItems:           len(items),
		ByPlatform:           byPlatform,
		FrontierHistogram:    histogram,
		PublishedAtSrcCounts: pubSrcCounts,
		CollectedAt:          now,
	}
	for _, item := range items {
		if item.FrontierScore >= 70 {
			meta.FrontierGE70++
			if now.Sub(item.PublishedAt) <= recentWindow {
				meta.FrontierGE70_72h++
			}
		}
		if item.FrontierScore >= 85 {
			meta.FrontierGE85++
			if now.Sub(item.PublishedAt) <= recentWindow {
				meta.FrontierGE85_72h++
			}
		}
	}

	return items, meta
}

// itemID derives a stable RawItem id from the canonical URL, so the same
// article collected twice (same run or a later one) always resolves to the
// same id.
func itemID(canonicalURL string) string {
	sum := blake3.Sum256([]byte(canonicalURL))
	return hex.EncodeToString(sum[:16])
}
