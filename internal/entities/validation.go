package entities

import "fmt"

// ValidationError reports a structurally invalid input value. It names the
// offending field so the HTTP layer can point the client at it, as opposed
// to not-found or storage failures which stay opaque.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
