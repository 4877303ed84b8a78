package sheets

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable wraps transient API failures that survived the
// full retry budget.
var ErrServiceUnavailable = errors.New("sheets service unavailable")

// APIError is a non-2xx response from the Sheets API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sheets API error %d: %s", e.StatusCode, e.Message)
}

// Transient reports whether the error is worth retrying: rate limiting or
// a server-side failure.
func (e *APIError) Transient() bool {
	switch e.StatusCode {
	case 429, 500, 503:
		return true
	}
	return false
}
