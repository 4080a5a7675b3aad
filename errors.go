package mediator

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for errors.Is checks. The typed errors below unwrap to
// these so callers can either match the category or inspect the details.
var (
	// ErrNoHandler is returned by Send and SendStream when zero handlers
	// are registered for the request type.
	ErrNoHandler = errors.New("no handler registered")

	// ErrMultipleHandlers is returned by Send and SendStream when more than
	// one handler is registered for a request type that requires exactly one.
	ErrMultipleHandlers = errors.New("multiple handlers registered")

	// ErrInvalidConstraint is returned when a middleware registration
	// carries an unusable type constraint.
	ErrInvalidConstraint = errors.New("invalid middleware constraint")

	// ErrInvalidRequest is returned when a nil request or notification is
	// dispatched.
	ErrInvalidRequest = errors.New("request cannot be nil")
)

// NoHandlerError reports that no handler is registered for a request type.
type NoHandlerError struct {
	RequestType reflect.Type
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("no handler registered for request type %s", e.RequestType)
}

func (e *NoHandlerError) Unwrap() error { return ErrNoHandler }

// MultipleHandlersError reports an ambiguous registration: Send and
// SendStream require exactly one handler, and silently picking one would
// make dispatch nondeterministic.
type MultipleHandlersError struct {
	RequestType reflect.Type
	Count       int
}

func (e *MultipleHandlersError) Error() string {
	return fmt.Sprintf("%d handlers registered for request type %s, expected exactly one", e.Count, e.RequestType)
}

func (e *MultipleHandlersError) Unwrap() error { return ErrMultipleHandlers }

// ConstraintError reports a misconfigured middleware constraint detected at
// registration time. Whether it is fatal depends on the configured
// strictness level.
type ConstraintError struct {
	Constraint reflect.Type
	Reason     string
}

func (e *ConstraintError) Error() string {
	if e.Constraint == nil {
		return fmt.Sprintf("middleware constraints rejected: %s", e.Reason)
	}
	return fmt.Sprintf("middleware constraint %v rejected: %s", e.Constraint, e.Reason)
}

func (e *ConstraintError) Unwrap() error { return ErrInvalidConstraint }
