package orleans

import (
	"errors"
	"fmt"
)

// An Error pairs a Code with an underlying Go error. All failures surfaced by
// this package can be cast to an *Error using the standard library's
// errors.As, so callers can branch on the code rather than parsing messages.
//
// Registration and construction failures are programming errors: they're
// reported synchronously and are never retried internally. Rehydration
// failures surface from the Evaluate call that triggered resolution.
type Error struct {
	code Code
	err  error
}

// NewError annotates any Go error with a code.
func NewError(c Code, underlying error) *Error {
	return &Error{code: c, err: underlying}
}

func (e *Error) Error() string {
	text := e.err.Error()
	if text == "" {
		return e.code.String()
	}
	return e.code.String() + ": " + text
}

// Unwrap implements errors.Wrapper, which allows errors.Is and errors.As
// access to the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the error's code.
func (e *Error) Code() Code {
	return e.code
}

// CodeOf returns the error's code if it is or wraps an *Error, CodeOK if the
// error is nil, and CodeUnknown otherwise.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	if coded, ok := asError(err); ok {
		return coded.Code()
	}
	return CodeUnknown
}

// errorf calls fmt.Errorf with the supplied template and arguments, then wraps
// the resulting error.
func errorf(c Code, template string, args ...any) *Error {
	return NewError(c, fmt.Errorf(template, args...))
}

// asError uses errors.As to unwrap any error and look for an *Error.
func asError(err error) (*Error, bool) {
	var coded *Error
	ok := errors.As(err, &coded)
	return coded, ok
}
