// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by lookups whose target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is wrapped when a status change is not allowed
	// from the current state.
	ErrInvalidTransition = errors.New("invalid transition")
)

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation returns a ValidationError for field with a formatted message.
func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
