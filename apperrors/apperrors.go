// Package apperrors provides the structured error value used as the
// conventional failure payload throughout this module.  An AppError carries a
// Kind from a closed taxonomy, a message, an optional cause chain and a
// key/value context map.  Values are immutable once constructed: every
// "modifying" method returns a fresh value and the original is never touched,
// so AppErrors can be shared freely across goroutines.
package apperrors

import (
	"errors"
	"fmt"
)

// AppError is a structured, serializable error value.  It implements the
// error interface and supports errors.Is/errors.As traversal through its
// cause chain via Unwrap.
//
// AppErrors are created with New or Wrap and re-contextualized with With.
// None of the fields are reachable directly; consumers go through the
// accessors or the flat serialized form.
type AppError struct {
	kind    Kind
	message string
	cause   error
	context map[string]any
}

// New creates an AppError of the given kind with no cause and no context.
func New(kind Kind, message string) *AppError {
	return &AppError{
		kind:    kind,
		message: message,
	}
}

// Wrap creates an AppError whose cause is the provided error, preserving the
// full chain for root-cause reporting.  The cause may be another AppError or
// any external error.
func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{
		kind:    kind,
		message: message,
		cause:   cause,
	}
}

// With returns a copy of e with the key/value pair added to its context.
// The receiver is not modified.
func (e *AppError) With(key string, value any) *AppError {
	next := &AppError{
		kind:    e.kind,
		message: e.message,
		cause:   e.cause,
		context: make(map[string]any, len(e.context)+1),
	}
	for k, v := range e.context {
		next.context[k] = v
	}
	next.context[key] = value
	return next
}

// Kind returns the error's classification.
func (e *AppError) Kind() Kind {
	return e.kind
}

// Message returns the error's message without any cause suffixes.
func (e *AppError) Message() string {
	return e.message
}

// Context returns a copy of the error's context map.  Mutating the returned
// map does not affect the error.
func (e *AppError) Context() map[string]any {
	ctx := make(map[string]any, len(e.context))
	for k, v := range e.context {
		ctx[k] = v
	}
	return ctx
}

// Error implements the error interface.  The cause, when present, is joined
// with the standard ": " separator so the full chain reads as one line.
func (e *AppError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// FromError coerces an arbitrary error into an AppError.  If err is an
// AppError, or wraps one, that AppError is returned unchanged so its kind is
// preserved.  Any other error becomes the cause of a new INTERNAL AppError.
// A nil err yields nil.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	return Wrap(Internal, err.Error(), err)
}

// FromPanic converts a recovered panic value into an AppError.  Kind
// information carried by the value is preserved; anything else becomes an
// INTERNAL AppError with the panic payload as its cause.
func FromPanic(v any) *AppError {
	switch e := v.(type) {
	case *AppError:
		return e
	case error:
		var app *AppError
		if errors.As(e, &app) {
			return app
		}
		return Wrap(Internal, fmt.Sprintf("panic: %v", e), e)
	default:
		perr := PanicError{Value: v}
		return Wrap(Internal, perr.Error(), perr)
	}
}

// PanicError wraps a panic payload that was not itself an error so it can
// travel as the cause of an AppError.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the payload when it is an error, nil otherwise.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
