// Package dedupe implements the Dedupe & Filter stage: canonical-URL and
// near-duplicate suppression followed by a sequence of counted filter
// stages, producing the FilterSummary that feeds the hard gates.
package dedupe

import (
	"regexp"
	"strings"
)

var normalizeWhitespace = regexp.MustCompile(`\s+`)

// fingerprintTokens is the number of leading tokens of the normalized title
// followed by the lowercased body that make up the content fingerprint.
const fingerprintTokens = 12

// fingerprint produces a coarse near-duplicate key: the first N tokens of
// the normalized title followed by the lowercased body, joined by single
// spaces (the key is not hashed), so two items with the same
// canonical URL stripped differently (or re-posted under a new URL) still
// collapse.
func fingerprint(title, body string) string {
	normalizedTitle := normalizeTitle(title)
	tokens := strings.Fields(normalizedTitle + " " + strings.ToLower(body))
	if len(tokens) > fingerprintTokens {
		tokens = tokens[:fingerprintTokens]
	}
	return strings.Join(tokens, " ")
}

func normalizeTitle(title string) string {
	lower := strings.ToLower(title)
	lower = normalizeWhitespace.ReplaceAllString(lower, " ")
	return strings.TrimSpace(lower)
}
