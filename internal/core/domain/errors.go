package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested dataset does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedSpan indicates span offsets outside the record text.
	// The record is skipped; the stream continues.
	ErrMalformedSpan = errors.New("malformed span")

	// ErrResolverUnavailable indicates the knowledge base failed or timed out.
	// It is recovered by treating the mention as having no candidates.
	ErrResolverUnavailable = errors.New("resolver unavailable")

	// ErrUnhashableInput indicates a record or task lacks the fields needed
	// for fingerprinting. It stops the whole run.
	ErrUnhashableInput = errors.New("unhashable input")

	// ErrUnsupportedType indicates an unknown policy or adapter name.
	ErrUnsupportedType = errors.New("unsupported type")
)

// SkipError reports a record that was skipped without stopping the stream.
type SkipError struct {
	// Record is the zero-based position of the record in the source.
	Record int

	// Err is the reason, wrapping ErrMalformedSpan or ErrInvalidInput.
	Err error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("record %d skipped: %v", e.Record, e.Err)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

// IsSkip reports whether err is a reportable, non-fatal skip.
func IsSkip(err error) (*SkipError, bool) {
	var se *SkipError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
