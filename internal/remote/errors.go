package remote

import (
	"context"
	"errors"
	"fmt"
)

// NetworkError indicates a request that failed in transit, returned a
// non-2xx status, or came back with an "error" envelope.
type NetworkError struct {
	Err        error
	Op         string
	Message    string
	StatusCode int
}

func (e *NetworkError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: request failed (status %d)", e.Op, e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError indicates a request that exceeded its deadline. Only the
// notification fetch runs under an explicit deadline; other calls rely
// on the transport's defaults.
type TimeoutError struct {
	Err error
	Op  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsNetwork reports whether err is a transport or backend failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// wrapTransportError classifies a transport-level failure, preserving
// deadline expiry as a distinct timeout type.
func wrapTransportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TimeoutError{Op: op, Err: err}
	}
	return &NetworkError{Op: op, Err: err}
}
