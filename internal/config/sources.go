package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"briefline/internal/domain/entity"
)

// sourceYAML is the on-disk shape of one entry in sources.yaml; it mirrors
// entity.Source but with yaml tags and a flattened scraper config, so the
// domain entity itself stays free of serialization concerns.
type sourceYAML struct {
	Name       string  `yaml:"name"`
	FeedURL    string  `yaml:"feed_url"`
	Active     bool    `yaml:"active"`
	SourceType string  `yaml:"source_type"`
	Reputation float64 `yaml:"reputation"`

	ItemSelector  string `yaml:"item_selector,omitempty"`
	TitleSelector string `yaml:"title_selector,omitempty"`
	DateSelector  string `yaml:"date_selector,omitempty"`
	URLSelector   string `yaml:"url_selector,omitempty"`
	DateFormat    string `yaml:"date_format,omitempty"`
	DataKey       string `yaml:"data_key,omitempty"`
	ContextKey    string `yaml:"context_key,omitempty"`
	URLPrefix     string `yaml:"url_prefix,omitempty"`
}

type sourcesFile struct {
	Sources []sourceYAML `yaml:"sources"`
}

// LoadSources parses the source/platform catalog at path (SOURCES_FILE) into
// validated entity.Source values. Entries failing Validate are skipped with
// a returned warning rather than aborting the whole load, consistent with
// the fail-open config philosophy applied elsewhere.
func LoadSources(path string) ([]entity.Source, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: read sources file %s: %w", path, err)
	}

	var parsed sourcesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, nil, fmt.Errorf("config: parse sources file %s: %w", path, err)
	}

	var sources []entity.Source
	var warnings []string
	for i, s := range parsed.Sources {
		reputation := s.Reputation
		if reputation == 0 {
			reputation = 0.5
		}
		src := entity.Source{
			ID:         int64(i + 1),
			Name:       s.Name,
			FeedURL:    s.FeedURL,
			Active:     s.Active,
			SourceType: s.SourceType,
			Reputation: reputation,
		}
		if s.ItemSelector != "" || s.DataKey != "" || s.ContextKey != "" {
			src.ScraperConfig = &entity.ScraperConfig{
				ItemSelector:  s.ItemSelector,
				TitleSelector: s.TitleSelector,
				DateSelector:  s.DateSelector,
				URLSelector:   s.URLSelector,
				DateFormat:    s.DateFormat,
				DataKey:       s.DataKey,
				ContextKey:    s.ContextKey,
				URLPrefix:     s.URLPrefix,
			}
		}
		if err := src.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("source %q skipped: %v", s.Name, err))
			continue
		}
		sources = append(sources, src)
	}

	return sources, warnings, nil
}
