package client

import (
	"errors"
	"fmt"
)

// ConnectionError indicates a network level failure or a non-auth HTTP error
// status. It is retryable.
type ConnectionError struct {
	StatusCode int
	Err        error
}

func (e *ConnectionError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("connection error: HTTP %d: %v", e.StatusCode, e.Err)
		}
		return fmt.Sprintf("connection error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Retryable() bool { return true }

// AuthError indicates the endpoint rejected the call with 401 or 403. It is
// never retried.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: HTTP %d", e.StatusCode)
}

func (e *AuthError) Retryable() bool { return false }

// TimeoutError indicates the per call deadline expired. It is retryable.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("request timed out: %v", e.Err) }

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Retryable() bool { return true }

// ProtocolError indicates a well formed JSON-RPC error envelope or a response
// body that could not be decoded into one. It is a semantic failure, not a
// transient one, so this layer never retries it.
type ProtocolError struct {
	Code    int
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("protocol error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("protocol error: %s", e.Message)
}

func (e *ProtocolError) Retryable() bool { return false }

type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err carries a retryable classification.
func IsRetryable(err error) bool {
	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}
