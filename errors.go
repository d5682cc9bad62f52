// Package activeobjects error types. This area stays standard-library
// centric (errors + fmt): no third-party errors package in the pack
// offers anything fmt.Errorf("%w") plus a handful of typed structs
// doesn't already cover idiomatically, and the teacher reaches for
// exactly this shape itself.
package activeobjects

import (
	"errors"
	"fmt"
)

// PanicError wraps a value recovered from a panicking process hook or
// async-inbox closure, so a single misbehaving agent can't crash the
// drive loop.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("activeobjects: recovered panic: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is itself an
// error, enabling errors.Is/errors.As through the cause chain.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// AggregateError collects the errors raised by individual async-inbox
// closures drained within a single tick. Draining never aborts on an
// individual failure; the aggregate is returned (and logged) once the
// inbox is empty.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("activeobjects: %d async inbox errors (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap returns the collected errors for multi-error matching
// (errors.Is/errors.As against any one of them).
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Is reports whether target is itself an *AggregateError, regardless
// of contents, or matches any contained error.
func (e *AggregateError) Is(target error) bool {
	var other *AggregateError
	return errors.As(target, &other)
}

// InvariantError describes a broken structural contract in the
// intrusive list or tree: removing a node not linked into the tree
// being operated on, or calling FindOrAdd with a comparator that
// disagrees with the tree's total order. These are programming
// errors, not runtime conditions to recover from. The list and tree
// operations in this package do not return it: removing an unlinked
// node is a no-op, and the other violations are not detected.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string { return "activeobjects: invariant violated: " + e.Message }

// NoDeadlineError is returned by the ASAP drive loop when a tick
// reports no pending deadline while the controller has not
// terminated — a fatal condition per §4.6, since ASAP emulation has
// nothing left to advance time toward.
type NoDeadlineError struct{}

func (e *NoDeadlineError) Error() string {
	return "activeobjects: ASAP loop observed no pending deadline while controller is still alive"
}

// ControllerTerminatedError describes an operation attempted against
// a controller that has already been told to Terminate. No function
// in this package returns it: Process on a terminated controller
// returns (nil, nil).
type ControllerTerminatedError struct{}

func (e *ControllerTerminatedError) Error() string {
	return "activeobjects: controller is terminated"
}

// WrapError wraps cause with a message, preserving it for
// errors.Is/errors.As via %w.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
