package extraction

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrNoDocuments is returned when no document was provided at all.
	ErrNoDocuments = errors.New("no documents provided")

	// ErrInvalidDocument is returned when a document is empty or unreadable.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrDocumentTooLarge is returned when a document exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit (20MB)")

	// ErrUnsupportedFormat is returned for content types no backend accepts.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrUploadFailed is returned when the Files API upload fails.
	ErrUploadFailed = errors.New("document upload failed")

	// ErrFileProcessingFailed is returned when the Files API reports the
	// uploaded document entered the FAILED state.
	ErrFileProcessingFailed = errors.New("document processing failed")

	// ErrExtractionFailed is returned when the model call itself fails.
	ErrExtractionFailed = errors.New("field extraction failed")

	// ErrInvalidResponse is returned when the model response cannot be
	// decoded into the field mapping.
	ErrInvalidResponse = errors.New("model returned an invalid response")

	// ErrMissingAPIKey is returned when the backend's API key is not configured.
	ErrMissingAPIKey = errors.New("missing API key")
)

// ExtractionError wraps errors with additional context about the extraction failure.
type ExtractionError struct {
	// Op is the operation that failed (e.g., "Extract", "uploadDocument").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extraction: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extraction: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(op string, err error, details string) *ExtractionError {
	return &ExtractionError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapExtractionError wraps an error as an ExtractionError if it isn't already one.
func WrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return err // Already wrapped
	}

	return NewExtractionError(op, err, details)
}
