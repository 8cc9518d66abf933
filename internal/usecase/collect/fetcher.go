// Package collect implements the Collector (Z0): it fetches configured feed
// sources through pluggable per-platform parsers, resolves each item's
// canonical URL and id, and computes a frontier score per item.
package collect

import (
	"context"
	"time"

	"briefline/internal/domain/entity"
)

// ContextKey is the type for context keys the Collector shares with its
// platform parsers.
type ContextKey string

// ScraperConfigKey carries the per-source *entity.ScraperConfig the
// Collector injects before dispatching a scraper-backed source; plain RSS
// sources fetch without one.
const ScraperConfigKey ContextKey = "scraper_config"

// ScraperConfigFromContext extracts the per-source scraper configuration, or
// nil when the source has none.
func ScraperConfigFromContext(ctx context.Context) *entity.ScraperConfig {
	cfg, ok := ctx.Value(ScraperConfigKey).(*entity.ScraperConfig)
	if !ok {
		return nil
	}
	return cfg
}

// FeedFetcher is implemented by each platform-specific parser (RSS/Atom,
// Webflow, NextJS, Remix). The Collector dispatches a Source to the fetcher
// registered for its SourceType.
type FeedFetcher interface {
	// Fetch retrieves and parses all items currently published at feedURL.
	Fetch(ctx context.Context, feedURL string) ([]FeedItem, error)
}

// FeedItem is the raw record a platform parser yields, before the Collector
// assigns it a stable id, canonical URL, and frontier score.
type FeedItem struct {
	Title   string
	URL     string
	Content string

	PublishedAt time.Time
	// PublishedSrc records which field resolved PublishedAt, per the
	// documented priority order: "item" (feed-entry pubdate) > "feed"
	// (feed-level pubdate) > "html_meta" (page metadata) > "now_fallback".
	PublishedSrc string
}
