// Package llmassist implements the optional rewrite-assist seam
// (LLM_PROVIDER): it may suggest the narrative subject ("actor") a rewritten
// event is framed around, but never authors the quote-bearing Q1/Q2/Proof
// text itself, so the Faithful ZH Rewriter stays correct with it absent.
package llmassist

import (
	"fmt"
	"time"
)

// Config configures the optional OpenAI-compatible assist backend. A zero
// Provider (or anything other than "openai_compatible") means no assist is
// wired at all.
type Config struct {
	Provider string // "none" | "openai_compatible"
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Validate checks that an openai_compatible provider carries the fields it
// needs to make a request at all.
func (c Config) Validate() error {
	if c.Provider != "none" && c.Provider != "openai_compatible" {
		return fmt.Errorf("llmassist: unknown provider %q", c.Provider)
	}
	if c.Provider == "openai_compatible" {
		if c.BaseURL == "" {
			return fmt.Errorf("llmassist: LLM_BASE_URL required for openai_compatible provider")
		}
		if c.Model == "" {
			return fmt.Errorf("llmassist: LLM_MODEL required for openai_compatible provider")
		}
	}
	return nil
}

// LoadConfigFromEnv reads LLM_PROVIDER/LLM_BASE_URL/LLM_API_KEY/LLM_MODEL,
// defaulting to the no-op provider on any unset or invalid value (fail-open,
// same discipline as internal/config's env loaders).
func LoadConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		Provider: getenv("LLM_PROVIDER"),
		BaseURL:  getenv("LLM_BASE_URL"),
		APIKey:   getenv("LLM_API_KEY"),
		Model:    getenv("LLM_MODEL"),
		Timeout:  30 * time.Second,
	}
	if cfg.Provider == "" {
		cfg.Provider = "none"
	}
	if err := cfg.Validate(); err != nil {
		cfg = Config{Provider: "none", Timeout: 30 * time.Second}
	}
	return cfg
}
