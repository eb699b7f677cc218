package directory

import "fmt"

// StatusError represents a non-2xx response from the directory.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("directory returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("directory returned status %d", e.StatusCode)
}

// IsNotFound returns true if the directory has no entry for the query.
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsServerError returns true if the failure was on the directory side.
func (e *StatusError) IsServerError() bool {
	return e.StatusCode >= 500
}
