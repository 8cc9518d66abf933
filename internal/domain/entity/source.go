package entity

import (
	"errors"
	"fmt"
	"time"
)

// Source represents a news feed source in the system.
// It contains the feed URL, metadata, and crawling status information.
// For web scraping sources, it also includes the source type and configuration.
type Source struct {
	ID            int64
	Name          string
	FeedURL       string
	LastCrawledAt *time.Time
	Active        bool
	SourceType    string          `json:"source_type"`    // RSS, Webflow, NextJS, Remix
	ScraperConfig *ScraperConfig  `json:"scraper_config"` // Configuration for web scrapers

	// Reputation is the source-reputation factor folded into the frontier
	// score; a higher value grants a larger bonus to items from this
	// source. Range [0,1], default 0.5 when unset.
	Reputation float64 `json:"reputation"`
}

// ScraperConfig holds configuration for web scraping sources.
// Different fields are used depending on the source type:
// - Webflow: ItemSelector, TitleSelector, DateSelector, URLSelector, DateFormat
// - NextJS: DataKey, URLPrefix
// - Remix: ContextKey, URLPrefix
type ScraperConfig struct {
	// Webflow HTML selectors
	ItemSelector  string `json:"item_selector,omitempty"`
	TitleSelector string `json:"title_selector,omitempty"`
	DateSelector  string `json:"date_selector,omitempty"`
	URLSelector   string `json:"url_selector,omitempty"`
	DateFormat    string `json:"date_format,omitempty"`

	// Next.js JSON extraction
	DataKey string `json:"data_key,omitempty"`

	// Remix JSON extraction
	ContextKey string `json:"context_key,omitempty"`

	// Common
	URLPrefix string `json:"url_prefix,omitempty"` // Prepend to relative URLs
}

// Validate validates the Source entity fields.
// It checks that the source type is valid and that required configuration is present.
func (s *Source) Validate() error {
	// An empty SourceType means a plain RSS feed.
	if s.SourceType == "" {
		s.SourceType = "RSS"
	}

	validTypes := map[string]bool{
		"RSS":     true,
		"Webflow": true,
		"NextJS":  true,
		"Remix":   true,
	}
	if !validTypes[s.SourceType] {
		return fmt.Errorf("invalid source_type: %s (must be RSS, Webflow, NextJS, or Remix)", s.SourceType)
	}

	// Scraper-backed sources cannot work without their selector config.
	if s.SourceType != "RSS" && s.ScraperConfig == nil {
		return errors.New("scraper_config is required for non-RSS sources")
	}

	return nil
}
