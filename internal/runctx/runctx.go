// Package runctx carries the run-scoped identifiers (run_id, mode) explicitly
// through a context.Context, per the "no process-wide singletons" design note:
// the run context is passed explicitly from the Orchestrator down through
// every stage instead of living in a package-global.
package runctx

import "context"

type contextKey string

const runIDKey contextKey = "run_id"

// WithRunID returns a new context carrying runID for downstream logging and
// meta writes.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// FromContext retrieves the run_id from ctx, or "" if none was set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}
