package bankclient

import (
	"errors"
	"fmt"
)

// ErrUnassignedID is returned when an operation needs the service-assigned id
// of an entity that has not been persisted yet.
var ErrUnassignedID = errors.New("entity has no service-assigned id")

// ErrNonPositiveAmount is returned by Transfer for amounts that are zero or negative.
var ErrNonPositiveAmount = errors.New("transfer amount must be positive")

// HTTPError is returned when the service answered with a status outside 2xx.
type HTTPError struct {
	StatusCode int
	StatusText string
	Method     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.StatusText)
}

// TransportError is returned when no response could be obtained at all,
// including cancellation and timeouts.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
