// client/errors.go
package client

import (
	"errors"
	"fmt"
)

var (
	// ErrOffline is returned when the backend is not reachable and no request
	// was sent.
	ErrOffline = errors.New("client: backend unreachable")
	// ErrTransport covers requests that produced no usable response.
	ErrTransport = errors.New("client: request failed")
	// ErrDecode is returned when the response body is not the expected JSON.
	ErrDecode = errors.New("client: malformed response")
)

// StatusError is a response with a non-2xx status. It matches ErrTransport.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}
