// Package rewrite implements the faithful Chinese rewriter: it extracts
// verbatim anchor spans from hydrated fulltext, composes a Chinese-language
// narrative frame around them (Q1/Q2/Q3/Proof), and enforces the faithfulness
// invariants (anchors occur verbatim, quotes are corner-bracket wrapped, no
// ellipsis, no hollow CTA phrasing).
package rewrite

import (
	"regexp"
	"sort"
	"strings"
)

// minAnchorChars and minAnchorWords are the anchor floor: an anchor span
// must carry enough substance to ground a sentence, not just a fragment.
const (
	minAnchorChars = 20
	minAnchorWords = 4
	maxAnchors     = 6
)

var (
	sentenceSplitter = regexp.MustCompile(`[^.!?。！？]+[.!?。！？]?`)
	quotedSpan       = regexp.MustCompile(`"[^"]+"|"[^"]+"|'[^']{4,}'`)
	numberWithUnit   = regexp.MustCompile(`\$?\d[\d,.]*\s?(?:%|percent|million|billion|trillion|thousand|users|customers|employees|years?|months?|days?|hours?)`)
)

// anchor is a candidate verbatim span scored by how strongly it anchors a
// faithful sentence: quotes and numeric facts outrank bare proper nouns.
type anchor struct {
	text  string
	score int
	pos   int
}

// splitSentences breaks fulltext into trimmed, non-empty sentence spans.
// Because the splitter only trims surrounding whitespace, every returned
// sentence remains a literal substring of fulltext.
func splitSentences(fulltext string) []string {
	raw := sentenceSplitter.FindAllString(fulltext, -1)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		t := strings.TrimSpace(s)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// scoreSentence rates a sentence's strength as an anchor: +3 for a quoted
// span (direct attribution), +2 for a number-with-unit (a checkable fact),
// +1 for a multi-word Title-Case run (a named entity or product).
func scoreSentence(s string) int {
	score := 0
	if quotedSpan.MatchString(s) {
		score += 3
	}
	if numberWithUnit.MatchString(s) {
		score += 2
	}
	if titleCaseRun.MatchString(s) {
		score += 1
	}
	return score
}

var titleCaseRun = regexp.MustCompile(`([A-Z][a-z]+\s){1,}[A-Z][a-z]+`)

// ExtractAnchors returns up to maxAnchors verbatim sentence spans from
// fulltext, ranked by anchor strength (ties broken by earlier position),
// keeping only spans at or above the minimum length/word-count floor.
func ExtractAnchors(fulltext string) []string {
	sentences := splitSentences(fulltext)
	var cands []anchor
	for pos, s := range sentences {
		if len([]rune(s)) < minAnchorChars || wordCount(s) < minAnchorWords {
			continue
		}
		cands = append(cands, anchor{text: s, score: scoreSentence(s), pos: pos})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].pos < cands[j].pos
	})

	seen := map[string]bool{}
	var out []string
	for _, c := range cands {
		if seen[c.text] {
			continue
		}
		seen[c.text] = true
		out = append(out, c.text)
		if len(out) >= maxAnchors {
			break
		}
	}
	return out
}
