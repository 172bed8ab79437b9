package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork means the API could not be reached (no HTTP response).
	ErrNetwork = errors.New("network error")
	// ErrAuthentication means the API rejected the submitted credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrSessionExpired means the API no longer accepts the bearer token.
	ErrSessionExpired = errors.New("session expired")
	// ErrServer means the API answered with a 5xx status.
	ErrServer = errors.New("server error")
	// ErrInvalidResponse means a 2xx body lacked required fields.
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError is a non-2xx answer from the API. Message holds the body's
// "error" field when present. It unwraps to one of the sentinel errors above
// when the status maps to one.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.kind }

// ServiceMessage returns the API-provided error message carried by err, if
// any.
func ServiceMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
