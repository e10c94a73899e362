package hostelapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("hostel api: unauthorized")
	ErrNotFound     = errors.New("hostel api: not found")
)

// APIError is a non-2xx answer from the hostel API.
type APIError struct {
	StatusCode int
	Message    string
	// Fields holds per-field validation messages when the API sends them.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("hostel api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("hostel api: status %d: %s", e.StatusCode, e.Message)
}

// Is lets callers test auth and not-found answers with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// errorBody covers the shapes the API uses for failures.
type errorBody struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details string              `json:"details"`
	Errors  map[string][]string `json:"errors"`
}

func (b errorBody) message() string {
	switch {
	case b.Error != "":
		return b.Error
	case b.Message != "":
		return b.Message
	}
	return b.Details
}

// Message extracts the user-facing text of err, or fallback when err is not an API error.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
