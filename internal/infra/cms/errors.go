package cms

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates missing space id or token.
	ErrNotConfigured = errors.New("content service not configured")

	// ErrInvalidConfig indicates an unusable setting.
	ErrInvalidConfig = errors.New("invalid content service configuration")

	// ErrBodyTooLarge indicates a response exceeded MaxBodySize.
	ErrBodyTooLarge = errors.New("content service response too large")
)

// APIError is a non-2xx response from the content service.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("content service returned %d: %s (request %s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("content service returned %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying the request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
