package main

import (
	"errors"
	"fmt"
)

var (
	errInvalidArgument = errors.New("invalid argument")
	errInvalidEncoding = errors.New("invalid encoding")
	errDegenerateInput = errors.New("degenerate input")
)

const (
	exitOK              = 0
	exitFailure         = 1
	exitInvalidArgument = 2
	exitInvalidEncoding = 3
	exitDegenerateInput = 4
)

// conversionError names the input that failed validation. It unwraps to one
// of the sentinel errors above so callers can branch with errors.Is.
type conversionError struct {
	Field  string
	Input  string
	Reason string
	Err    error
}

func newConversionError(field, input string, kind error, reason string) *conversionError {
	return &conversionError{Field: field, Input: input, Reason: reason, Err: kind}
}

func (e *conversionError) Error() string {
	return fmt.Sprintf("%s %q: %s (%v)", e.Field, e.Input, e.Reason, e.Err)
}

func (e *conversionError) Unwrap() error {
	return e.Err
}

func exitCodeForError(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInvalidArgument):
		return exitInvalidArgument
	case errors.Is(err, errInvalidEncoding):
		return exitInvalidEncoding
	case errors.Is(err, errDegenerateInput):
		return exitDegenerateInput
	default:
		return exitFailure
	}
}
