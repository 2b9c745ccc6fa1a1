// Package corerr implements the error taxonomy consumed by every other
// package in the module: RuntimeError, NullError, DieError, and sentinel
// errors for structural failures. The Suspend control-flow signal is not
// an error and lives in package cont.
package corerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for structural failures raised outside the RuntimeError
// taxonomy (binding/registry/codec plumbing).
var (
	// ErrResumerAlreadyCalled is returned when a suspend_non_blocking
	// resumer is invoked a second time.
	ErrResumerAlreadyCalled = errors.New("corert: resumer already called")

	// ErrUnknownMethod is returned by a registry lookup miss.
	ErrUnknownMethod = errors.New("corert: unknown method")

	// ErrVersionMismatch is returned on checkpoint restore when the
	// buffer's version differs from the running binary's version.
	ErrVersionMismatch = errors.New("corert: checkpoint version mismatch")

	// ErrFiberNotSuspended is returned when Resume is called on a fiber
	// that is not currently suspended.
	ErrFiberNotSuspended = errors.New("corert: fiber is not suspended")
)

// RuntimeError carries a message, source text, offset, and optional cause.
// It is used for all script-observable errors.
type RuntimeError struct {
	Message string
	Source  string
	Offset  int
	Cause   error
}

// NewRuntimeError constructs a RuntimeError at the given source location.
func NewRuntimeError(message, source string, offset int) *RuntimeError {
	return &RuntimeError{Message: message, Source: source, Offset: offset}
}

// Wrap attaches a cause and returns the receiver for chaining at the call
// site, e.g. return corerr.NewRuntimeError(...).Wrap(err).
func (e *RuntimeError) Wrap(cause error) *RuntimeError {
	e.Cause = cause
	return e
}

func (e *RuntimeError) Error() string {
	if e.Source == "" {
		return e.Message
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Source, e.Offset, e.Message)
}

// Unwrap enables errors.Is / errors.As through the cause chain.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// NullError specializes RuntimeError for null-deref situations where a
// script may have intended the "?." safe-navigation operator but wrote
// plain ".".
type NullError struct {
	*RuntimeError
}

// NewNullError constructs a NullError at the given source location.
func NewNullError(message, source string, offset int) *NullError {
	return &NullError{RuntimeError: NewRuntimeError(message, source, offset)}
}

// DieError is an explicit script-requested abort carrying a message. It
// deliberately does not embed RuntimeError: a script's own die() is not a
// runtime fault, so callers must not accidentally catch it as one via a
// RuntimeError type-switch.
type DieError struct {
	Message string
	Source  string
	Offset  int
}

func (e *DieError) Error() string {
	return e.Message
}

// NewDieError constructs a DieError at the given source location.
func NewDieError(message, source string, offset int) *DieError {
	return &DieError{Message: message, Source: source, Offset: offset}
}

// WrapError wraps an error with a message and a %w cause chain, so that
// errors.Is(result, cause) == true. It is a convenience used wherever an
// opaque failure from an external collaborator needs to surface as
// part of a RuntimeError chain without losing the original error.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}

// AsRuntime normalizes any error into a *RuntimeError: RuntimeError
// passes through unchanged, anything else is wrapped as "Unexpected
// error".
func AsRuntime(err error, source string, offset int) *RuntimeError {
	if err == nil {
		return nil
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return re
	}
	return NewRuntimeError("Unexpected error", source, offset).Wrap(err)
}
