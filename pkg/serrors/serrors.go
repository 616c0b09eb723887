// Package serrors defines semantic error kinds shared by the registry client,
// the scanner and the storage layer. A kind tells callers how to react to a
// failure (skip the identifier, retry it, or abort the run) without inspecting
// transport details.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is implemented by every sentinel created with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a comparable sentinel usable with errors.Is through Error.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrNotFound means the registry has no record for the requested entity.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized means the API key was rejected.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrBadRequest means the caller supplied invalid input.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict means the stored state does not allow the operation.
	ErrConflict = NewKind("CONFLICT")
	// ErrInternal is an unexpected failure on our side.
	ErrInternal = NewKind("INTERNAL")
	// ErrUnavailable is a transient upstream failure (5xx, network, timeout).
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited means the upstream asked us to slow down.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrMalformed means the upstream answered with a body we could not decode.
	ErrMalformed = NewKind("MALFORMED")
)

// Error carries a kind, an optional cause and an optional message.
//
// errors.Is and errors.As match either the kind or anything in the cause chain.
// The string form is "<msg>: <cause>", falling back to whichever part is set
// and finally to the kind name.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With builds an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap builds an error of kind k around cause err.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly builds an error that carries nothing but its kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the sentinel of e, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to e.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause, or nil.
func (e *Error) Cause() error { return e.err }

// KindOf returns the kind of the outermost *Error in the chain of err, or nil
// when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}

	return nil
}

// Transient reports whether err is worth retrying: the upstream was
// unavailable or rate limited us.
func Transient(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrRateLimited)
}
