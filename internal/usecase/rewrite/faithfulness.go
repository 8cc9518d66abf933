package rewrite

import (
	"strings"

	"briefline/internal/utils/text"
)

// bannedPhrases is the hollow-CTA/generic-advisory stoplist:
// phrasing that reads as marketing filler rather than a faithful restatement
// of what the source reported.
var bannedPhrases = []string{
	"欢迎咨询",
	"敬请期待",
	"了解更多",
	"更多详情请关注",
	"evidence summary: sources=",
	"stay tuned",
	"click here to learn more",
}

// ellipsisMarkers are banned outright: a faithful quote-anchored rewrite
// never trails off, it either has the anchor or it doesn't.
var ellipsisMarkers = []string{"…", "...", ". . ."}

// CountEllipsisHits returns the number of banned ellipsis markers found
// across text. A faithful rewrite must always score 0 here.
func CountEllipsisHits(text string) int {
	n := 0
	for _, m := range ellipsisMarkers {
		n += strings.Count(text, m)
	}
	return n
}

// ContainsGenericPhrase reports whether text contains any stoplisted
// hollow-CTA or generic-advisory phrase, case-insensitively.
func ContainsGenericPhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range bannedPhrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// ZhRatio computes the CJK-character ratio over the combined text (the event
// data model defines zh_ratio over Q1∪Q2∪Proof; see rewrite.go for why Q3 is
// excluded from the combined text).
func ZhRatio(parts ...string) float64 {
	return text.CJKRatio(strings.Join(parts, ""))
}
