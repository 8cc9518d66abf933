package scraper

import (
	"context"

	"briefline/internal/domain/entity"
	"briefline/internal/usecase/collect"
)

// ScraperConfigKey is the context key scrapers read their per-source
// configuration from. It aliases the Collector's key: the Collector owns
// injection, the scrapers only consume.
const ScraperConfigKey = collect.ScraperConfigKey

// GetScraperConfig extracts the per-source ScraperConfig from ctx, nil when
// absent.
func GetScraperConfig(ctx context.Context) *entity.ScraperConfig {
	return collect.ScraperConfigFromContext(ctx)
}
