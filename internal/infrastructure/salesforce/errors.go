package salesforce

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for CRM responses
var (
	// ErrMultipleMatches is returned for HTTP 300 when an external id matches several records
	ErrMultipleMatches = errors.New("salesforce: multiple records match")
	// ErrUnauthorized is returned when the session is rejected or cannot be obtained
	ErrUnauthorized = errors.New("salesforce: unauthorized")
	// ErrNotFound is returned for HTTP 404
	ErrNotFound = errors.New("salesforce: not found")
	// ErrEntityTooLarge is returned for HTTP 413
	ErrEntityTooLarge = errors.New("salesforce: entity too large")
	// ErrResponse is returned for any other non-2xx response
	ErrResponse = errors.New("salesforce: error response")
	// ErrUnavailable is returned when the request could not be sent
	ErrUnavailable = errors.New("salesforce: unavailable")
	// ErrMalformedResponse is returned when a 2xx body cannot be decoded
	ErrMalformedResponse = errors.New("salesforce: malformed response")
)

// APIError carries the status and the first error reported by the CRM
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Operation  string
}

// Error implements error
func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("salesforce: %s: HTTP %d %s: %s", e.Operation, e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("salesforce: %s: HTTP %d", e.Operation, e.StatusCode)
}

// Unwrap maps the status code onto a sentinel so callers can use errors.Is
func (e *APIError) Unwrap() error {
	return statusSentinel(e.StatusCode)
}

func statusSentinel(status int) error {
	switch status {
	case http.StatusMultipleChoices:
		return ErrMultipleMatches
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusRequestEntityTooLarge:
		return ErrEntityTooLarge
	default:
		return ErrResponse
	}
}

// IsTransient reports whether an error is worth retrying.
// Not-found and malformed bodies are final; everything else from the remote side is retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrMultipleMatches) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrEntityTooLarge) ||
		errors.Is(err, ErrResponse) ||
		errors.Is(err, ErrUnavailable)
}

// IsNotFound reports whether err is a 404 or empty lookup
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
