package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse          = NewError("syntax error")
	ErrReadInput      = NewError("failed to read input")
	ErrStructural     = NewError("node cannot represent a value expression")
	ErrParameterShape = NewError(
		"dynamic style functions may only use named parameters",
	)
	ErrHashCollision = NewError("hash collision")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel with [Error.Wrap], [Error.With], or
// [Error.WithPosition] still match that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	kind  *Error      // Sentinel this error was derived from
	pos   *Position   // Source position, if known
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<pos>: <msg>: <err>"
	//   2. "<msg>: <err>"
	//   3. "<msg>"
	//   4. "<err>"
	part := make([]string, 0, 3)

	if e.pos != nil {
		part = append(part, e.pos.String())
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from the same sentinel as target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e.kind == nil {
		return false
	}

	return e.kind == t.kind
}

// Position returns the source position attached to e, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs, e.pos.attr())
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

func (e *Error) clone() *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		kind:  e.kind,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}
