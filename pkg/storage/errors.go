package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBuilt indicates the native engine was not linked into this binary
	ErrNotBuilt = errors.New("storage: native engine not built")

	// ErrInvalidParameter indicates an invalid parameter was provided
	ErrInvalidParameter = errors.New("storage: invalid parameter")

	// ErrInvalidConfig indicates the node configuration failed validation
	ErrInvalidConfig = errors.New("storage: invalid configuration")

	// ErrInvalidState indicates the operation is not allowed in the node's
	// current lifecycle state
	ErrInvalidState = errors.New("storage: invalid node state")

	// ErrNodeDestroyed indicates the node has been destroyed
	ErrNodeDestroyed = errors.New("storage: node destroyed")

	// ErrEngineFailure indicates the native engine reported an error
	ErrEngineFailure = errors.New("storage: engine failure")

	// ErrMissingCallback indicates the engine rejected a call because no
	// callback was registered for it
	ErrMissingCallback = errors.New("storage: missing callback")

	// ErrTimeout indicates an operation did not complete in time
	ErrTimeout = errors.New("storage: operation timed out")

	// ErrCancelled indicates the caller's context was cancelled while the
	// operation was in flight
	ErrCancelled = errors.New("storage: operation cancelled")
)

// Error wraps an underlying error with the operation that failed
type Error struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// EngineError carries the message the native engine attached to a failed
// callback. It unwraps to ErrEngineFailure.
type EngineError struct {
	Op      string // Operation that failed
	Message string // Engine-reported message, may be empty
}

func (e *EngineError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storage.%s: engine failure", e.Op)
	}
	return fmt.Sprintf("storage.%s: %s", e.Op, e.Message)
}

func (e *EngineError) Unwrap() error {
	return ErrEngineFailure
}

// errorf creates a new Error
func errorf(op string, format string, args ...interface{}) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf(format, args...),
	}
}

// statusError converts a non-OK engine return or callback status into an
// error for the given operation.
func statusError(op string, status int, msg []byte) error {
	switch status {
	case StatusOK:
		return nil
	case StatusMissingCallback:
		return &Error{Op: op, Err: ErrMissingCallback}
	default:
		return &EngineError{Op: op, Message: string(msg)}
	}
}
