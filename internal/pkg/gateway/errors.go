package gateway

import (
	"errors"
	"fmt"
)

// TransportError is returned when the server answered with a non-success
// status.
type TransportError struct {
	StatusCode int
	Method     string
	URL        string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error status code is not successful, got %d from %s %s", e.StatusCode, e.Method, e.URL)
}

// NetworkError is returned when the exchange never completed.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("error performing http request %s %s %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode reports the HTTP status carried by err, or 0 when err is not a
// TransportError.
func StatusCode(err error) int {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode
	}

	return 0
}

func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

func IsNetwork(err error) bool {
	var networkErr *NetworkError
	return errors.As(err, &networkErr)
}
