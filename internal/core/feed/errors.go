package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound indicates the post is not in the loaded view.
	ErrPostNotFound = errors.New("post not found")

	// ErrUnauthenticated indicates no viewer session is present. The
	// action is rejected before any network call is made.
	ErrUnauthenticated = errors.New("not logged in")
)

// ValidationError indicates a required field is missing or invalid.
// These are resolved locally and never reach the network layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a client-side validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
