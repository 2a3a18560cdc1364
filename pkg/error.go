package pkg

import (
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors.
type Error []error

// ErrJSONMarshal is returned when encoding command output as JSON fails.
var ErrJSONMarshal = MakeErrorf("JSON marshal error")

// ErrYAMLMarshal is returned when encoding command output as YAML fails.
var ErrYAMLMarshal = MakeErrorf("YAML marshal error")

// ErrInvalidFormat is returned when an output format is not supported.
//
// It should be wrapped with the rejected format and the valid formats.
var ErrInvalidFormat = MakeErrorf("invalid format")

// ErrWriteOutput is returned when writing command output fails.
var ErrWriteOutput = MakeErrorf("failed to write output")

// ErrWriteConfig is returned when the configuration file cannot be written.
var ErrWriteConfig = MakeErrorf("failed to write configuration file")

// ErrFileExists is returned when a file would be overwritten without force.
var ErrFileExists = MakeErrorf("file exists (use --force to overwrite)")

// ErrBindingNotFound is returned when a requested module binding does not
// exist.
var ErrBindingNotFound = MakeErrorf("binding not found")

// MakeError constructs an Error from the given errors.
// The first argument is the innermost error in the chain.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns every error in the chain joined by ": ", innermost first.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends one or more errors to the receiver and returns the result.
func (e Error) Wrap(err ...error) Error {
	return append(slices.Clip(e), err...)
}

// Wrapf appends a formatted error to the receiver and returns the result.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is reports whether target is a sentinel Error whose cause is part of the
// receiver's chain.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 {
		return false
	}

	return slices.ContainsFunc(e, func(err error) bool { return err == t[len(t)-1] })
}

// Unwrap returns the errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// UnwrapErrors recursively unwraps an error chain and returns every error in
// it, starting from the innermost.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
