package rewrite

import "context"

// Request is what the optional LLM assist seam receives: the verbatim
// fulltext and the rule-based actor guess, never the composed Q1/Q2/Proof
// themselves, since the assist may only ever suggest the narrative subject,
// not author quotes: the pipeline must be fully correct without it.
type Request struct {
	ItemID   string
	Fulltext string
	Actor    string
}

// Suggestion is the assist's response. Accepted is false whenever the
// assist has nothing useful to add; the caller always falls back to the
// rule-based Actor in that case.
type Suggestion struct {
	Actor    string
	Accepted bool
}

// Assistant is implemented by an optional external narrative-subject
// suggester. A nil Assistant is a fully valid configuration: Apply's
// rule-based composition never depends on it.
type Assistant interface {
	Suggest(ctx context.Context, req Request) (Suggestion, error)
}
