package entity

import "strings"

// Bucket is one of the four selection target categories.
type Bucket string

const (
	BucketProduct  Bucket = "product"
	BucketTech     Bucket = "tech"
	BucketBusiness Bucket = "business"
	BucketOther    Bucket = "other"
)

// Event is a selected, frozen headline item ready for Chinese rewriting and
// rendering. Anchors are literal substrings of the hydrated fulltext; Q1/Q2
// are populated by the Faithful ZH Rewriter and are empty until that stage
// runs.
type Event struct {
	ItemID  string   `json:"item_id"`
	Title   string   `json:"title"`
	Bucket  Bucket   `json:"bucket"`
	Anchors []string `json:"anchors"`

	Q1      string  `json:"q1"`
	Q2      string  `json:"q2"`
	Q3      string  `json:"q3,omitempty"`
	Proof   string  `json:"proof"`
	ZhRatio float64 `json:"zh_ratio"`
}

// Validate checks that every anchor occurs verbatim in fulltext and, once
// populated, that Q1/Q2 each contain at least one anchor wrapped in
// Japanese/Chinese corner quotes.
func (e *Event) Validate(fulltext string) error {
	if len(e.Anchors) == 0 {
		return &ValidationError{Field: "anchors", Message: "at least one anchor is required"}
	}
	for _, a := range e.Anchors {
		if !strings.Contains(fulltext, a) {
			return &ValidationError{Field: "anchors", Message: "anchor does not occur verbatim in fulltext: " + a}
		}
	}
	if e.Q1 != "" && !containsAnchoredQuote(e.Q1, e.Anchors) {
		return &ValidationError{Field: "q1", Message: "q1 must contain a 「…」-wrapped anchor"}
	}
	if e.Q2 != "" && !containsAnchoredQuote(e.Q2, e.Anchors) {
		return &ValidationError{Field: "q2", Message: "q2 must contain a 「…」-wrapped anchor"}
	}
	return nil
}

// containsAnchoredQuote reports whether s contains a 「…」-wrapped substring
// that exactly equals one of anchors.
func containsAnchoredQuote(s string, anchors []string) bool {
	for {
		start := strings.Index(s, "「")
		if start == -1 {
			return false
		}
		rest := s[start+len("「"):]
		end := strings.Index(rest, "」")
		if end == -1 {
			return false
		}
		quoted := rest[:end]
		for _, a := range anchors {
			if quoted == a {
				return true
			}
		}
		s = rest[end+len("」"):]
	}
}
