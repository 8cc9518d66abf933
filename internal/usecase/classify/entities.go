// Package classify implements the Entity & Classification stage: it extracts
// a ranked entity list from an item's canonical text and assigns it one of
// the eleven closed-set categories via keyword voting.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"briefline/internal/domain/entity"
)

// acronymAllowlist recognizes short all-caps tokens as entity candidates even
// though the generic Title-Case heuristic would otherwise reject them for
// being too short.
var acronymAllowlist = map[string]bool{
	"AI": true, "ML": true, "API": true, "IPO": true, "GPU": true, "CPU": true,
	"EV": true, "VC": true, "SEC": true, "FDA": true, "EU": true, "US": true,
	"UK": true, "CEO": true, "CFO": true, "IoT": true, "SaaS": true, "NFT": true,
	"R&D": true, "AR": true, "VR": true, "LLM": true,
}

// countryAbbrev normalizes common country abbreviations to their canonical
// long form so "U.S." and "US" and "United States" collapse to one entity.
var countryAbbrev = map[string]string{
	"u.s.":    "United States",
	"u.s.a.":  "United States",
	"us":      "United States",
	"usa":     "United States",
	"u.k.":    "United Kingdom",
	"uk":      "United Kingdom",
	"e.u.":    "European Union",
	"eu":      "European Union",
	"prc":     "China",
}

var possessive = regexp.MustCompile(`(?i)'s$`)

var stopwordsEN = buildStopwordSet(stopwordListEN)
var stopwordsZH = buildStopwordSet(stopwordListZH)

func buildStopwordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// titleCaseWord reports whether a token looks like a capitalized word
// candidate for a multi-word proper-noun sequence: starts with an uppercase
// letter, rest lowercase, at least 2 runes.
func titleCaseWord(tok string) bool {
	r := []rune(tok)
	if len(r) < 2 {
		return false
	}
	if r[0] < 'A' || r[0] > 'Z' {
		return false
	}
	for _, c := range r[1:] {
		if c >= 'A' && c <= 'Z' {
			return false
		}
	}
	return true
}

// candidateTokens splits text into raw whitespace/punctuation-bounded tokens,
// preserving original casing (needed for the Title-Case merge heuristic).
var tokenSplitter = regexp.MustCompile(`[A-Za-z0-9&.']+|[\p{Han}]+`)

func candidateTokens(text string) []string {
	return tokenSplitter.FindAllString(text, -1)
}

// extractCandidates walks the token stream once, merging adjacent
// Title-Case tokens into multi-word phrases and keeping allowlisted
// acronyms and CJK runs as single-token candidates.
func extractCandidates(text string) []string {
	tokens := candidateTokens(text)
	var out []string
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		trimmed := possessive.ReplaceAllString(tok, "")

		if acronymAllowlist[trimmed] {
			out = append(out, trimmed)
			i++
			continue
		}
		if _, ok := countryAbbrev[strings.ToLower(trimmed)]; ok && trimmed == strings.ToUpper(trimmed) {
			out = append(out, trimmed)
			i++
			continue
		}
		if hasHan(trimmed) {
			if !stopwordsZH[trimmed] {
				out = append(out, trimmed)
			}
			i++
			continue
		}
		if titleCaseWord(trimmed) && !stopwordsEN[strings.ToLower(trimmed)] {
			phrase := []string{trimmed}
			j := i + 1
			for j < len(tokens) && titleCaseWord(possessive.ReplaceAllString(tokens[j], "")) {
				phrase = append(phrase, possessive.ReplaceAllString(tokens[j], ""))
				j++
			}
			out = append(out, strings.Join(phrase, " "))
			i = j
			continue
		}
		i++
	}
	return out
}

func hasHan(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

func canonicalizeEntityName(name string) string {
	if canon, ok := countryAbbrev[strings.ToLower(name)]; ok {
		return canon
	}
	return name
}

// Extract scores each candidate entity by title_count*3 + body_count and
// returns the top entity.MaxEntities, case-insensitively deduplicated,
// descending by score.
func Extract(itemID, title, body string) entity.Entities {
	titleCounts := make(map[string]int)
	bodyCounts := make(map[string]int)
	display := make(map[string]string) // lowercased key -> first-seen display form

	for _, c := range extractCandidates(title) {
		canon := canonicalizeEntityName(c)
		key := strings.ToLower(canon)
		titleCounts[key]++
		if _, ok := display[key]; !ok {
			display[key] = canon
		}
	}
	for _, c := range extractCandidates(body) {
		canon := canonicalizeEntityName(c)
		key := strings.ToLower(canon)
		bodyCounts[key]++
		if _, ok := display[key]; !ok {
			display[key] = canon
		}
	}

	keys := make(map[string]bool)
	for k := range titleCounts {
		keys[k] = true
	}
	for k := range bodyCounts {
		keys[k] = true
	}

	mentions := make([]entity.EntityMention, 0, len(keys))
	for k := range keys {
		score := float64(titleCounts[k]*3 + bodyCounts[k])
		mentions = append(mentions, entity.EntityMention{Name: display[k], Score: score})
	}

	sort.Slice(mentions, func(i, j int) bool {
		if mentions[i].Score != mentions[j].Score {
			return mentions[i].Score > mentions[j].Score
		}
		return mentions[i].Name < mentions[j].Name
	})
	if len(mentions) > entity.MaxEntities {
		mentions = mentions[:entity.MaxEntities]
	}

	return entity.Entities{ItemID: itemID, Entities: mentions}
}
