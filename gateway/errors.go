package gateway

import "fmt"

// NetworkError wraps a transport-level failure (connection refused, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BackendError is a well-formed response that declares failure.
type BackendError struct {
	Op      string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected %s", e.Op)
	}
	return fmt.Sprintf("backend rejected %s: %s", e.Op, e.Message)
}

// MalformedResponseError is a response whose shape could not be decoded.
// Pollers treat it as a no-op tick, never as a reason to stop polling.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response for %s: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
