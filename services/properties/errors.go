package properties

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a data-access error
type ErrorType string

const (
	// ErrorTypeMisconfigured covers missing required settings, detected
	// eagerly before any network call
	ErrorTypeMisconfigured ErrorType = "misconfigured"

	// ErrorTypeUpstreamAuth covers upstream 401/403 responses
	ErrorTypeUpstreamAuth ErrorType = "upstream_auth"

	// ErrorTypeRateLimited covers upstream 429 responses
	ErrorTypeRateLimited ErrorType = "rate_limited"

	// ErrorTypeUpstreamFailure covers every other upstream failure
	ErrorTypeUpstreamFailure ErrorType = "upstream_failure"
)

// DataError is a structured data-access error. Message is the safe,
// caller-visible summary; Err carries upstream detail for logs only.
type DataError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DataError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is: two DataErrors match when their types match
func (e *DataError) Is(target error) bool {
	t, ok := target.(*DataError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewDataError creates a new data-access error
func NewDataError(errType ErrorType, message string, err error) *DataError {
	return &DataError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Sentinel errors

var (
	// ErrProviderMisconfigured is returned on every call when the
	// configured provider selector is unrecognized
	ErrProviderMisconfigured = NewDataError(ErrorTypeMisconfigured,
		`set PROPERTIES_PROVIDER to "airtable" or "postgres"`, nil)

	// ErrMissingOwnerEmail is returned when the owner filter is active
	// but neither the token nor an override supplies an email
	ErrMissingOwnerEmail = NewDataError(ErrorTypeMisconfigured,
		"missing user email in token (cannot filter records)", nil)
)

// IsMisconfigured reports whether err is a misconfiguration error
func IsMisconfigured(err error) bool {
	var de *DataError
	return errors.As(err, &de) && de.Type == ErrorTypeMisconfigured
}

// IsUpstreamAuth reports whether err is an upstream auth failure
func IsUpstreamAuth(err error) bool {
	var de *DataError
	return errors.As(err, &de) && de.Type == ErrorTypeUpstreamAuth
}

// IsRateLimited reports whether err is an upstream rate limit
func IsRateLimited(err error) bool {
	var de *DataError
	return errors.As(err, &de) && de.Type == ErrorTypeRateLimited
}

// Summary returns the caller-safe message for a data-access error. For
// anything outside the taxonomy it falls back to a fixed message so
// internal detail never leaks.
func Summary(err error) string {
	var de *DataError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return "Failed to fetch properties"
}
