package formfill

import (
	"errors"
	"fmt"
)

// Common form filling errors
var (
	// ErrNoData is returned when the form data carries no filled fields.
	ErrNoData = errors.New("no form data to fill")

	// ErrSessionFailed is returned when the remote browser session cannot be created.
	ErrSessionFailed = errors.New("failed to create browser session")

	// ErrNavigationFailed is returned when the form page cannot be loaded.
	ErrNavigationFailed = errors.New("failed to load form page")

	// ErrMappingFailed is returned when field-to-selector mapping fails.
	ErrMappingFailed = errors.New("failed to map fields to selectors")

	// ErrInvalidCommands is returned when the mapper response cannot be parsed.
	ErrInvalidCommands = errors.New("invalid fill command response")
)

// FormFillError provides structured error information
type FormFillError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error

	// Details provides additional context
	Details string
}

// Error implements the error interface
func (e *FormFillError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("formfill: %s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("formfill: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *FormFillError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target
func (e *FormFillError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFormFillError creates a new FormFillError
func NewFormFillError(op string, err error, details string) *FormFillError {
	return &FormFillError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapFormFillError wraps an error with operation context
func WrapFormFillError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ffErr *FormFillError
	if errors.As(err, &ffErr) {
		return &FormFillError{
			Op:      op,
			Err:     ffErr.Err,
			Details: details,
		}
	}

	return &FormFillError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
