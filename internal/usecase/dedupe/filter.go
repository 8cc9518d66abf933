package dedupe

import (
	"strings"
	"time"

	"briefline/internal/domain/entity"
)

// Policy configures the filter stages applied after deduplication.
type Policy struct {
	AllowedLangs  []string
	MaxAge        time.Duration
	MinBodyLen    int
	TopicKeywords []string
}

// DefaultPolicy mirrors the production RUN_PROFILE defaults: English and
// Chinese allowed, a 7-day age horizon, a 120-character floor, and the
// built-in tech/business topic keyword set.
func DefaultPolicy() Policy {
	return Policy{
		AllowedLangs:  []string{"en", "zh"},
		MaxAge:        7 * 24 * time.Hour,
		MinBodyLen:    120,
		TopicKeywords: defaultTopicKeywords,
	}
}

var defaultTopicKeywords = []string{
	"ai", "artificial intelligence", "software", "startup", "funding",
	"venture", "chip", "semiconductor", "cloud", "data", "app", "platform",
	"robot", "automation", "battery", "energy", "biotech", "security",
	"cyber", "regulation", "policy", "market", "ipo", "acquisition",
	"enterprise", "consumer electronics", "gaming", "streaming",
}

// Result is the output of Run: the surviving items plus the FilterSummary
// auditors consult, and the per-item count of near-duplicates suppressed
// (keyed by the surviving item's id), which the Scoring stage folds into
// dup_risk.
type Result struct {
	Items           []entity.RawItem
	Summary         entity.FilterSummary
	DupNeighborSize map[string]int
}

// Run dedupes by canonical-URL equality then content fingerprint, earlier
// item wins, then applies the filter stages in the documented order:
// language allowlist, age window, minimum body length, topic keyword filter.
// Each stage's drop count is recorded in FilterSummary.TopDropReasons in the
// order the stages ran.
func Run(items []entity.RawItem, policy Policy, now time.Time) Result {
	deduped, neighborSize := dedupe(items)

	dedupTotal := len(deduped)
	stages := []struct {
		reason string
		keep   func(entity.RawItem) bool
	}{
		{"lang_not_allowed", func(it entity.RawItem) bool { return langAllowed(it.Lang, policy.AllowedLangs) }},
		{"too_old", func(it entity.RawItem) bool { return now.Sub(it.PublishedAt) <= policy.MaxAge }},
		{"body_too_short", func(it entity.RawItem) bool { return len(it.Body) >= policy.MinBodyLen || it.NeedsFulltext }},
		{"off_topic", func(it entity.RawItem) bool { return matchesTopic(it, policy.TopicKeywords) }},
	}

	survivors := deduped
	var dropCounts []entity.DropReasonCount
	for _, stage := range stages {
		var next []entity.RawItem
		dropped := 0
		for _, it := range survivors {
			if stage.keep(it) {
				next = append(next, it)
			} else {
				dropped++
			}
		}
		survivors = next
		if dropped > 0 {
			dropCounts = append(dropCounts, entity.DropReasonCount{Reason: stage.reason, Count: dropped})
		}
	}

	summary := entity.FilterSummary{
		DedupTotal:          dedupTotal,
		AfterFilterTotal:    len(survivors),
		AfterFilterTotalRaw: len(survivors),
		KeptTotal:           len(survivors),
		TopDropReasons:      dropCounts,
	}

	return Result{Items: survivors, Summary: summary, DupNeighborSize: neighborSize}
}

// dedupe suppresses later duplicates by canonical URL, then by content
// fingerprint; the earlier-seen item in input order always wins. It returns
// the deduplicated items plus, for each surviving item, how many items (the
// item itself plus suppressed duplicates) shared its fingerprint —
// the "fingerprint neighborhood size" the Scoring stage reads.
func dedupe(items []entity.RawItem) ([]entity.RawItem, map[string]int) {
	seenURL := make(map[string]bool)
	fpFirstIdx := make(map[string]int)
	neighborCount := make(map[string]int)

	var survivors []entity.RawItem
	for _, it := range items {
		if it.CanonicalURL != "" && seenURL[it.CanonicalURL] {
			continue
		}
		fp := fingerprint(it.Title, it.Body)
		if firstIdx, ok := fpFirstIdx[fp]; ok {
			neighborCount[survivors[firstIdx].ID]++
			if it.CanonicalURL != "" {
				seenURL[it.CanonicalURL] = true
			}
			continue
		}

		fpFirstIdx[fp] = len(survivors)
		survivors = append(survivors, it)
		neighborCount[it.ID] = 1
		if it.CanonicalURL != "" {
			seenURL[it.CanonicalURL] = true
		}
	}

	return survivors, neighborCount
}

func langAllowed(lang string, allowed []string) bool {
	if lang == "" {
		return true // unknown language is not rejected by the allowlist itself
	}
	for _, a := range allowed {
		if strings.EqualFold(a, lang) {
			return true
		}
	}
	return false
}

func matchesTopic(it entity.RawItem, keywords []string) bool {
	haystack := strings.ToLower(it.Title + " " + it.Body)
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
