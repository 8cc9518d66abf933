package collect

import (
	"fmt"
	"strings"
	"time"
)

// frontierCanonicalChars is the number of leading body characters considered
// "canonical" for bonus matching, alongside the title. Matches anywhere else
// in the body do not count, per the no-bonus-from-buried-mentions rule.
const frontierCanonicalChars = 600

// importanceKeywords grants a flat per-hit bonus when present in the
// canonical fields; weighted lower than the business/product release terms
// since they signal general relevance rather than a concrete event.
var importanceKeywords = []string{
	"breaking", "exclusive", "announces", "announced", "unveils", "unveiled",
	"launches", "launch", "acquires", "acquisition", "partnership", "raises",
	"funding", "valuation", "ipo", "lawsuit", "investigation", "recall",
}

// releaseSignalKeywords grant the larger business/product release bonus:
// concrete signals that a company shipped or is shipping something, rather
// than general news-worthy language.
var releaseSignalKeywords = []string{
	"general availability", "now available", "ships", "shipping",
	"release candidate", "v1.0", "v2.0", "beta", "open sourced",
	"open-sourced", "gpu", "chip", "silicon", "data center", "datacenter",
}

const (
	weightRecency    = 40.0
	weightImportance = 25.0
	weightReputation = 20.0
	weightRelease    = 15.0

	importanceBonusPerHit = 6.0
	importanceBonusCap    = weightImportance
	releaseBonusPerHit    = 7.5
	releaseBonusCap       = weightRelease

	// recencyHalfLife is the age at which the recency component decays to
	// half its maximum weight.
	recencyHalfLife = 36 * time.Hour

	defaultReputation = 0.5
)

// frontierScore computes the 0-100 composite score:
// recency + importance-keyword hits + source reputation + a release-signal
// bonus, all evaluated only against the canonical fields (title and the
// first frontierCanonicalChars runes of the body).
func frontierScore(title, body string, publishedAt, now time.Time, reputation float64) int {
	canonical := strings.ToLower(title + " " + truncateRunes(body, frontierCanonicalChars))

	recencyComponent := weightRecency * recencyDecay(now.Sub(publishedAt))

	importanceComponent := countHits(canonical, importanceKeywords) * importanceBonusPerHit
	if importanceComponent > importanceBonusCap {
		importanceComponent = importanceBonusCap
	}

	if reputation <= 0 {
		reputation = defaultReputation
	}
	if reputation > 1 {
		reputation = 1
	}
	reputationComponent := weightReputation * reputation

	releaseComponent := countHits(canonical, releaseSignalKeywords) * releaseBonusPerHit
	if releaseComponent > releaseBonusCap {
		releaseComponent = releaseBonusCap
	}

	total := recencyComponent + importanceComponent + reputationComponent + releaseComponent
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return int(total + 0.5)
}

// recencyDecay returns a value in [0,1]: 1.0 for items published in the
// future or at now, decaying by half every recencyHalfLife of age, floored
// at 0 for items older than 10 half-lives (effectively stale).
func recencyDecay(age time.Duration) float64 {
	if age <= 0 {
		return 1.0
	}
	halfLives := float64(age) / float64(recencyHalfLife)
	if halfLives > 10 {
		return 0
	}
	decay := 1.0
	for i := 1.0; i <= halfLives; i++ {
		decay *= 0.5
	}
	// fractional remainder
	frac := halfLives - float64(int(halfLives))
	decay *= 1 - frac*0.5
	return decay
}

func countHits(haystack string, needles []string) float64 {
	hits := 0.0
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			hits++
		}
	}
	return hits
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// frontierHistogramBucket maps a 0-100 score to its 10-wide histogram label.
func frontierHistogramBucket(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 99 {
		score = 99
	}
	lo := (score / 10) * 10
	return fmt.Sprintf("%d-%d", lo, lo+9)
}
