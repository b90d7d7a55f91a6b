package chat

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy for the synchronization core.
var (
	// ErrAuth means the credential is missing or was rejected.
	ErrAuth = errors.New("not authenticated")

	// ErrNetwork is a transient call failure. Nothing retries it.
	ErrNetwork = errors.New("network error")

	// ErrValidation is returned for intents rejected before any network call.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound is returned when the backend no longer knows a session.
	ErrNotFound = errors.New("session not found")
)

// StatusError carries the HTTP status of a failed backend call.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Unwrap classifies the status so callers can use errors.Is with the
// taxonomy sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrNetwork
	}
}

// Invalid builds a validation error with a reason.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
