package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRejected     = errors.New("request rejected")
	ErrServer       = errors.New("server error")

	// ErrMalformedResponse marks a 2xx answer whose body could not be
	// decoded. The request itself was accepted.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	// Message is the human-readable reason from the error payload, if any.
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// mapStatus picks the sentinel for an HTTP status code.
func mapStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return ErrUnavailable
	case code >= 500:
		return ErrServer
	default:
		return ErrRejected
	}
}

// UserMessage returns the message the server gave for err, or fallback
// when there is none.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
