package cfg

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values), one per taxonomy entry.
var (
	// ErrArgument reports bad call-time options: conflicting text/file
	// input, a missing input, or a wrong value type for an option.
	ErrArgument = NewError("invalid argument")

	// ErrGrammar reports malformed statement structure: wrong brace kind,
	// missing comma or colon, dangling value, or a call-argument arity
	// mismatch for a fixed-arity legacy method.
	ErrGrammar = NewError("grammar error")

	// ErrDestination reports an assignment target that is too shallow or
	// too deep, or a bare "config" with nothing following.
	ErrDestination = NewError("invalid assignment destination")

	// ErrTypeConflict reports a path whose inferred container kind
	// contradicts an earlier inference or registration.
	ErrTypeConflict = NewError("container type conflict")

	// ErrUnknownSymbol reports an unresolved dotted name or an otherwise
	// unresolvable value.
	ErrUnknownSymbol = NewError("unknown symbol")

	// ErrUnsupported reports statements that neither the convert hook nor
	// the assembler recognized, when no unused collector was supplied.
	ErrUnsupported = NewError("unsupported statement")

	// ErrListStyle reports the recognized but unsupported sequence-rooted
	// configuration variant.
	ErrListStyle = NewError("list-style configuration is not supported")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces. Sentinel values
// above carry the taxonomy; [Error.With] attaches the offending group,
// statement, or path as typed fields, leaving message rendering to the
// presentation layer.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
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
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")

	// Render attached context so callers without a structured sink still
	// see what the error points at.
	if len(e.attrs) > 0 {
		var sb strings.Builder

		sb.WriteString(msg)
		sb.WriteString(" (")

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(a.Key)
			sb.WriteString("=")
			sb.WriteString(a.Value.String())
		}

		sb.WriteString(")")

		return sb.String()
	}

	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel this error was derived
// from. Derived errors share the sentinel's message, so matching on message
// identity lets errors.Is(err, ErrGrammar) work across With/Wrap copies.
func (e *Error) Is(target error) bool {
	te := &Error{}
	if !errors.As(target, &te) {
		return false
	}

	return e.msg == te.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// attrGroup renders a token group reference for error context.
func attrGroup(g *TokenGroup) slog.Attr {
	if g == nil {
		return slog.String("group", "<nil>")
	}

	return slog.String("group", g.String())
}

// attrStatement renders a statement reference for error context.
func attrStatement(s *Statement) slog.Attr {
	if s == nil {
		return slog.String("statement", "<nil>")
	}

	return slog.String("statement", s.String())
}

// attrPath renders a dotted destination path for error context.
func attrPath(segs ...string) slog.Attr {
	return slog.String("path", strings.Join(segs, "."))
}
