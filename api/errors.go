// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-mem library.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrInvalidArgument reports a violated precondition on caller-supplied
	// sizes, indices, or ranges: zero or negative allocation requests, nil
	// range slices, out-of-range indices, or a source range exceeding the
	// destination capacity.
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// ErrAllocFailed reports that the underlying allocator could not
	// satisfy a sizing request.
	ErrAllocFailed = fmt.Errorf("allocation failed")

	// ErrNotAllocated reports an operation that requires live storage
	// invoked on an empty handle.
	ErrNotAllocated = fmt.Errorf("buffer is not allocated")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeAllocFailed
	ErrCodeNotAllocated
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap maps the structured error onto its sentinel so that callers can
// match with errors.Is.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeAllocFailed:
		return ErrAllocFailed
	case ErrCodeNotAllocated:
		return ErrNotAllocated
	default:
		return nil
	}
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
