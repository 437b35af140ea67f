// Package errs defines the error taxonomy shared by the textvec packages.
//
// Every error returned by a constructor, Fit or Transform call wraps exactly one
// of the sentinels below, so callers can branch with errors.Is:
//
//	if errors.Is(err, errs.ErrNotFitted) {
//		// fit first
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports invalid construction parameters.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFitted reports a Transform on a component that has not been fitted.
	ErrNotFitted = errors.New("not fitted")
	// ErrInput reports malformed call-time input.
	ErrInput = errors.New("input error")
)

// Error carries one of the sentinels together with the operation that failed.
type Error struct {
	Err     error  // one of the package sentinels
	Op      string // component and method, e.g. "CountVectorizer.Transform"
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Op == "":
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	case e.Message == "":
		return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
	default:
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Err.Error(), e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps sentinel with an operation name and message.
func New(sentinel error, op, message string) *Error {
	return &Error{Err: sentinel, Op: op, Message: message}
}

// Newf is New with a formatted message.
func Newf(sentinel error, op, format string, args ...any) *Error {
	return &Error{Err: sentinel, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Configf returns a configuration error.
func Configf(op, format string, args ...any) *Error {
	return Newf(ErrConfiguration, op, format, args...)
}

// Inputf returns an input error.
func Inputf(op, format string, args ...any) *Error {
	return Newf(ErrInput, op, format, args...)
}

// NotFitted returns the error raised by Transform before Fit.
func NotFitted(op string) *Error {
	return New(ErrNotFitted, op, "call Fit before Transform")
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsNotFitted reports whether err is a not-fitted error.
func IsNotFitted(err error) bool { return errors.Is(err, ErrNotFitted) }

// IsInput reports whether err is an input error.
func IsInput(err error) bool { return errors.Is(err, ErrInput) }
