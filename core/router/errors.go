package router

import (
	"errors"
	"fmt"
)

var (
	// Registration errors
	ErrDuplicateRoute   = errors.New("route already registered")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrInvalidPattern   = errors.New("routing pattern must begin with '/'")
	ErrNilHandler       = errors.New("route handler cannot be nil")
	ErrUnknownParamType = errors.New("unknown route param type")

	// Pattern parsing errors
	ErrWildcardPosition = errors.New("wildcard '*' must be the last pattern in a route")
	ErrParamDelimiter   = errors.New("route param closing delimiter '}' is missing")
	ErrDuplicateParam   = errors.New("routing pattern contains duplicate param key")
	ErrEmptyParam       = errors.New("route param name cannot be empty")

	// Dispatch errors
	ErrNilResponse = errors.New("handler returned nil response")
)

// PanicError is returned to the error handler when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panicked error value to errors.Is and errors.As.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
