package entity

import "strings"

// EntityMention is a single ranked entity candidate extracted from an item's
// title and body.
type EntityMention struct {
	Name      string
	Score     float64
	TypeHint  string // optional: "org", "person", "product"; empty if unknown
}

// Entities holds the ranked, deduplicated entity list derived from a single
// RawItem (and its HydrationResult, if any). At most 8 entries, descending by
// Score, names unique case-insensitively.
type Entities struct {
	ItemID   string
	Entities []EntityMention
}

// MaxEntities is the cap enforced on the ranked entity list.
const MaxEntities = 8

// Validate checks the ranking, cap, and case-insensitive uniqueness
// invariants on the entity list.
func (e *Entities) Validate() error {
	if len(e.Entities) > MaxEntities {
		return &ValidationError{Field: "entities", Message: "at most 8 entities allowed"}
	}
	seen := make(map[string]bool, len(e.Entities))
	prevScore := float64(1 << 30)
	for _, m := range e.Entities {
		key := strings.ToLower(m.Name)
		if seen[key] {
			return &ValidationError{Field: "entities", Message: "entity names must be case-insensitively unique: " + m.Name}
		}
		seen[key] = true
		if m.Score > prevScore {
			return &ValidationError{Field: "entities", Message: "entities must be sorted by descending score"}
		}
		prevScore = m.Score
	}
	return nil
}

// Category is one of the 11 closed classification labels.
type Category string

const (
	CategoryTechnology        Category = "technology"
	CategoryStartupsFunding   Category = "startups/funding"
	CategoryAI                Category = "ai"
	CategoryFinance           Category = "finance"
	CategoryPolicyRegulation  Category = "policy/regulation"
	CategorySecurity          Category = "security"
	CategoryHealthBiomed      Category = "health/biomed"
	CategoryClimateEnergy     Category = "climate/energy"
	CategoryConsumerElectron  Category = "consumer_electronics"
	CategoryGamingEntertain   Category = "gaming/entertainment"
	CategoryGeneral           Category = "general"
)

// categories is the closed set used to validate a Classification's Category.
var categories = map[Category]bool{
	CategoryTechnology:       true,
	CategoryStartupsFunding:  true,
	CategoryAI:               true,
	CategoryFinance:          true,
	CategoryPolicyRegulation: true,
	CategorySecurity:         true,
	CategoryHealthBiomed:     true,
	CategoryClimateEnergy:    true,
	CategoryConsumerElectron: true,
	CategoryGamingEntertain:  true,
	CategoryGeneral:          true,
}

// Classification is the single derived label and confidence for an item.
type Classification struct {
	ItemID     string
	Category   Category
	Confidence float64
}

// Validate checks that Category is a member of the closed set and Confidence
// lies in [0, 1].
func (c *Classification) Validate() error {
	if !categories[c.Category] {
		return &ValidationError{Field: "category", Message: "category is not in the 11-category closed set: " + string(c.Category)}
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return &ValidationError{Field: "confidence", Message: "confidence must be in [0,1]"}
	}
	return nil
}
