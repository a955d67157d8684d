package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the extraction pipeline. None of them is fatal to
// the process: gateway failures degrade to the fallback extractor and
// only input validation is surfaced to the caller without retry.
var (
	// ErrServiceUnavailable means the gateway could not be reached at all
	ErrServiceUnavailable = errors.New("llm service unavailable")

	// ErrTimeout means a generate call exceeded the per-call timeout
	ErrTimeout = errors.New("llm request timed out")

	// ErrExtraction means both the model path and the fallback produced
	// nothing usable. Rare, since the fallback always succeeds structurally.
	ErrExtraction = errors.New("extraction produced no usable output")
)

// ValidationError reports invalid caller input. It is surfaced
// immediately and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a request field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
