package client

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is returned when the server could not be reached or answered with an error.
	ErrTransport = errors.New("permission transport error")

	// ErrResolveTimeout is returned when permissions were not resolved within the configured bound.
	ErrResolveTimeout = errors.New("permission resolution timed out")
)

// StatusError is a non 2xx answer of the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.Code, e.Message)
}

// Unwrap makes every status error an ErrTransport.
func (e *StatusError) Unwrap() error {
	return ErrTransport
}
