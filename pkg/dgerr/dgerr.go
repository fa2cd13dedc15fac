// Package dgerr defines the status codes every public entry point in this
// module returns.
//
// Every public operation returns a status wrapped in a Go error via Error,
// so callers can read the status with StatusOf (or `errors.As` into a
// *Error) and a human message via Error(). The package declares no
// sentinel error values.
package dgerr

import (
	"errors"
	"fmt"
)

// Status is one of the six outcomes a public entry point can report.
type Status int

const (
	// OK indicates success. Successful calls do not return a dgerr.Error.
	OK Status = iota
	// InvalidArgument covers programmer errors: nil inputs, a non-empty
	// target map, or a parameter outside its documented range.
	InvalidArgument
	// AllocationFailed covers arena growth or allocation failures.
	AllocationFailed
	// IOError covers file read/write failures, including truncation.
	IOError
	// UnsupportedFormat covers corrupt or unrecognized persisted data.
	UnsupportedFormat
	// GenerationFailed covers a generator or assignment step that could not
	// meet its constraints within its attempt budget.
	GenerationFailed
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case AllocationFailed:
		return "ALLOCATION_FAILED"
	case IOError:
		return "IO_ERROR"
	case UnsupportedFormat:
		return "UNSUPPORTED_FORMAT"
	case GenerationFailed:
		return "GENERATION_FAILED"
	default:
		return "UNKNOWN_STATUS"
	}
}

// Error wraps a Status with the operation that produced it and, optionally,
// an underlying cause.
type Error struct {
	Status Status
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no underlying cause.
func New(op string, status Status) *Error {
	return &Error{Op: op, Status: status}
}

// Wrap builds an Error carrying an underlying cause.
func Wrap(op string, status Status, err error) *Error {
	return &Error{Op: op, Status: status, Err: err}
}

// StatusOf extracts the Status from err if it is (or wraps) a *Error. It
// returns OK for a nil err and GenerationFailed for any other error.
func StatusOf(err error) Status {
	var e *Error
	if err == nil {
		return OK
	}
	if errors.As(err, &e) {
		return e.Status
	}
	return GenerationFailed
}
