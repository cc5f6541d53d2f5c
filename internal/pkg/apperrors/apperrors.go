// Package apperrors defines the error taxonomy shared by all API modules.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports an unknown resource id or slug.
	ErrNotFound = errors.New("record not found")
	// ErrStoreUnavailable reports a database connectivity failure. Write paths
	// always surface it; public read paths may degrade instead.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnauthorized reports a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a malformed payload: either required fields missing
// from a creation payload, or a payload that cannot be decoded at all.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
	}
	if e.Reason != "" {
		return e.Reason
	}
	return "validation failed"
}

// NewValidation builds a ValidationError for the given missing fields.
func NewValidation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStoreUnavailable reports whether err is (or wraps) ErrStoreUnavailable.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
