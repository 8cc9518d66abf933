package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ContentFetchConfig configures the article fulltext fetcher the Hydrator
// drives: its security limits (SSRF denial, body-size and redirect caps,
// per-request timeout), its concurrency, and the feed-body length below
// which an item is worth hydrating at all.
type ContentFetchConfig struct {
	// Enabled toggles fulltext fetching without a redeploy. When false the
	// pipeline runs on feed-provided bodies only.
	// Default: true
	Enabled bool

	// Threshold is the feed-body length (characters) at which an item is
	// considered content-complete; shorter bodies get hydrated.
	// Default: 1500
	Threshold int

	// Timeout bounds a single HTTP request; it must stay below the run
	// timeout so one stuck article server cannot eat the whole window.
	// Default: 10s
	Timeout time.Duration

	// Parallelism caps concurrent article fetches inside the fetcher; the
	// Hydrator's own worker pool is the effective bound in practice.
	// Default: 10
	Parallelism int

	// MaxBodySize caps the HTTP response body in bytes, enforced while
	// reading rather than trusting Content-Length.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects bounds the redirect chain; every hop is re-validated
	// against the private-IP denylist.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to private, loopback, or
	// link-local addresses. Always true in production.
	// Default: true
	DenyPrivateIPs bool
}

// DefaultConfig returns production defaults: SSRF denial on, 10MB body
// cap, five redirects, 10s per request.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        true,
		Threshold:      1500,
		Timeout:        10 * time.Second,
		Parallelism:    10,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate rejects configurations that would be unsafe to run with:
// Threshold >= 0, Timeout > 0, Parallelism in [1,50], MaxBodySize in
// [1KB,100MB], MaxRedirects in [0,10].
func (c *ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.Parallelism < 1 || c.Parallelism > 50 {
		return fmt.Errorf("parallelism must be between 1 and 50, got %d", c.Parallelism)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv loads the CONTENT_FETCH_* environment variables on top
// of the defaults, then validates the result. Unlike the pipeline's
// fail-open knobs, a malformed value here is an error: a silently-defaulted
// security limit is worse than a refused start.
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("CONTENT_FETCH_ENABLED"); val != "" {
		cfg.Enabled = val == "true"
	}

	if val := os.Getenv("CONTENT_FETCH_THRESHOLD"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.Threshold = parsed
		} else {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_THRESHOLD: %v", err)
		}
	}

	if val := os.Getenv("CONTENT_FETCH_TIMEOUT"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			cfg.Timeout = parsed
		} else {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
	}

	if val := os.Getenv("CONTENT_FETCH_PARALLELISM"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.Parallelism = parsed
		} else {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_PARALLELISM: %v", err)
		}
	}

	if val := os.Getenv("CONTENT_FETCH_MAX_BODY_SIZE"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.MaxBodySize = parsed
		} else {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_BODY_SIZE: %v", err)
		}
	}

	if val := os.Getenv("CONTENT_FETCH_MAX_REDIRECTS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.MaxRedirects = parsed
		} else {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_REDIRECTS: %v", err)
		}
	}

	if val := os.Getenv("CONTENT_FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
