// Package score implements per-item scoring and the event gate: it computes the
// four weighted scoring dimensions, dup_risk, and ad_flag per item, then
// decides which items pass the event gate into Selection.
package score

import (
	"regexp"
	"strings"

	"briefline/internal/domain/entity"
)

// Policy configures the event gate thresholds.
type Policy struct {
	Weights      entity.ScoreWeights
	MinScore     float64
	MaxDupRisk   float64
	AllowedLangs []string
}

// DefaultPolicy mirrors the production RUN_PROFILE event-gate thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Weights:      entity.DefaultScoreWeights(),
		MinScore:     5.5,
		MaxDupRisk:   0.6,
		AllowedLangs: []string{"en", "zh"},
	}
}

// adPhrasePattern is the banned-phrase regex set used to compute ad_flag:
// sponsorship and hollow-CTA markers common in native advertising.
var adPhrasePattern = regexp.MustCompile(`(?i)(sponsored content|paid partnership|advertisement|promo code|affiliate link|in partnership with our sponsor)`)

// Item is a scored candidate: the RawItem plus the signals needed to compute
// its Score (classification confidence as a utility proxy, hydration
// status as a feasibility/fulltext-availability proxy, and its fingerprint
// neighborhood size for dup_risk).
type Item struct {
	RawItem        entity.RawItem
	Classification entity.Classification
	Hydration      *entity.HydrationResult // nil if hydration was never attempted
	NeighborSize   int
}

// Compute derives the Score for a single item. Novelty decays with
// fingerprint-neighborhood size (more near-duplicates seen => less novel);
// utility tracks classification confidence; heat tracks frontier score;
// feasibility rewards items with usable fulltext already in hand.
func Compute(it Item, weights entity.ScoreWeights) entity.Score {
	novelty := 10.0
	if it.NeighborSize > 1 {
		novelty = 10.0 / float64(it.NeighborSize)
		if novelty < 0 {
			novelty = 0
		}
	}

	utility := it.Classification.Confidence * 10
	heat := float64(it.RawItem.FrontierScore) / 10
	if heat > 10 {
		heat = 10
	}

	feasibility := 3.0
	if len(it.RawItem.Body) >= entity.MinFulltextLen {
		feasibility = 10.0
	} else if it.Hydration != nil && it.Hydration.Status == entity.HydrationOK {
		feasibility = 10.0
	}

	final := weights.FinalScore(novelty, utility, heat, feasibility)

	dupRisk := 0.0
	if it.NeighborSize > 1 {
		dupRisk = 1.0 - 1.0/float64(it.NeighborSize)
	}

	haystack := it.RawItem.Title + " " + it.RawItem.Body
	adFlag := adPhrasePattern.MatchString(haystack)

	return entity.Score{
		ItemID:      it.RawItem.ID,
		Novelty:     clamp10(novelty),
		Utility:     clamp10(utility),
		Heat:        clamp10(heat),
		Feasibility: clamp10(feasibility),
		FinalScore:  clamp10(final),
		DupRisk:     dupRisk,
		AdFlag:      adFlag,
	}
}

func clamp10(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// fulltextAvailable reports whether an item has at least 400 chars of usable
// body, either from the original feed or from a successful hydration.
func fulltextAvailable(it Item) bool {
	if len(it.RawItem.Body) >= entity.MinFulltextLen {
		return true
	}
	return it.Hydration != nil && it.Hydration.Status == entity.HydrationOK
}

// Passes reports whether a scored item clears the event gate: final_score
// threshold, dup_risk ceiling, no ad_flag, language allowed, fulltext
// available.
func Passes(it Item, sc entity.Score, policy Policy) bool {
	if sc.FinalScore < policy.MinScore {
		return false
	}
	if sc.DupRisk > policy.MaxDupRisk {
		return false
	}
	if sc.AdFlag {
		return false
	}
	if !langAllowed(it.RawItem.Lang, policy.AllowedLangs) {
		return false
	}
	return fulltextAvailable(it)
}

func langAllowed(lang string, allowed []string) bool {
	if lang == "" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, lang) {
			return true
		}
	}
	return false
}

// Passed pairs a gate-passing item with its computed score, carrying
// forward everything Selection needs.
type Passed struct {
	Item  Item
	Score entity.Score
}

// Run scores every item and returns the subset that passes the event gate,
// plus how many passed (for FilterSummary.EventGatePassTotal).
func Run(items []Item, policy Policy) ([]Passed, int) {
	var passed []Passed
	for _, it := range items {
		sc := Compute(it, policy.Weights)
		if Passes(it, sc, policy) {
			passed = append(passed, Passed{Item: it, Score: sc})
		}
	}
	return passed, len(passed)
}
