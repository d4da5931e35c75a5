package api

import (
	"fmt"
	"net/http"
)

// Error is a structured failure from the backend. Message carries the
// backend's human-readable text when the response body had one.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Temporary reports whether the failure is worth a manual retry, for
// display purposes only. The client itself never retries.
func (e *Error) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError
}
