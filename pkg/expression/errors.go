package expression

import (
	"fmt"

	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/value"
)

// Error is a generic runtime resolution failure carrying a diagnostic.
type Error struct {
	Description string
	Span        diagnostic.Span
	ErrCode     int
	ErrLabels   []diagnostic.Label
	ErrNotes    []diagnostic.Note
}

// NewError constructs a runtime error anchored to span.
func NewError(span diagnostic.Span, format string, args ...any) *Error {
	return &Error{Description: fmt.Sprintf(format, args...), Span: span}
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Description }

// Code implements diagnostic.DiagnosticMessage.
func (e *Error) Code() int { return e.ErrCode }

// Message implements diagnostic.DiagnosticMessage.
func (e *Error) Message() string { return e.Description }

// Labels implements diagnostic.DiagnosticMessage.
func (e *Error) Labels() []diagnostic.Label {
	if len(e.ErrLabels) > 0 {
		return e.ErrLabels
	}
	return []diagnostic.Label{diagnostic.NewPrimaryLabel(e.Description, e.Span)}
}

// Notes implements diagnostic.DiagnosticMessage.
func (e *Error) Notes() []diagnostic.Note { return e.ErrNotes }

// AbortError terminates the program, discarding the event. The abort
// expression produces it.
type AbortError struct {
	Span   diagnostic.Span
	Reason string
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "aborted"
}

// Code implements diagnostic.DiagnosticMessage.
func (e *AbortError) Code() int { return 0 }

// Message implements diagnostic.DiagnosticMessage.
func (e *AbortError) Message() string { return e.Error() }

// Labels implements diagnostic.DiagnosticMessage.
func (e *AbortError) Labels() []diagnostic.Label {
	return []diagnostic.Label{diagnostic.NewPrimaryLabel("aborted", e.Span)}
}

// Notes implements diagnostic.DiagnosticMessage.
func (e *AbortError) Notes() []diagnostic.Note { return nil }

// ReturnSignal unwinds the expression stack to the nearest closure boundary
// or, failing that, the program, which completes with the carried value. It
// is control flow, not a failure.
type ReturnSignal struct {
	Value value.Value
}

// Error implements the error interface.
func (*ReturnSignal) Error() string { return "return" }

// FunctionCallError wraps an error produced inside a function call with the
// call that produced it.
type FunctionCallError struct {
	Ident string
	Err   error
	Span  diagnostic.Span
}

// Error implements the error interface.
func (e *FunctionCallError) Error() string {
	return fmt.Sprintf("function call error for %q: %s", e.Ident, e.Err)
}

// Unwrap returns the wrapped error.
func (e *FunctionCallError) Unwrap() error { return e.Err }

// Code implements diagnostic.DiagnosticMessage.
func (e *FunctionCallError) Code() int { return 0 }

// Message implements diagnostic.DiagnosticMessage.
func (e *FunctionCallError) Message() string { return e.Error() }

// Labels implements diagnostic.DiagnosticMessage.
func (e *FunctionCallError) Labels() []diagnostic.Label {
	return []diagnostic.Label{diagnostic.Primaryf(e.Span, "%s", e.Err)}
}

// Notes implements diagnostic.DiagnosticMessage.
func (e *FunctionCallError) Notes() []diagnostic.Note {
	return []diagnostic.Note{diagnostic.SeeErrorDocs()}
}
