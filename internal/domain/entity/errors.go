package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the domain layer.
var (
	// ErrNotFound indicates a requested entity (item, snapshot, meta file)
	// does not exist
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates input that cannot be processed at all
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates an entity that violated one of its
	// documented invariants
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError is an invariant violation pinned to a specific field, so
// gate metas and logs can name exactly what broke.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
