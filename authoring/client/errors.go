package client

import "fmt"

// APIError is a structured rejection from the content service. Fields holds
// the server's field-level validation messages when it sent any, so they can
// be shown verbatim.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("content service: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("content service: request failed with status %d", e.StatusCode)
}

// NotFound reports whether the server no longer knows the entity. This is how
// a concurrent remote delete manifests; there is no dedicated conflict
// detection.
func (e *APIError) NotFound() bool {
	return e.StatusCode == 404
}
