package parser

import "github.com/vexlang/vex/pkg/diagnostic"

// ErrSyntax is the diagnostic code for parse errors.
const ErrSyntax = 203

// SyntaxError is a lexing or parsing failure anchored to a source span.
type SyntaxError struct {
	Description string
	Span        diagnostic.Span
}

// Error implements the error interface.
func (e *SyntaxError) Error() string { return "syntax error: " + e.Description }

// Code implements diagnostic.DiagnosticMessage.
func (e *SyntaxError) Code() int { return ErrSyntax }

// Message implements diagnostic.DiagnosticMessage.
func (e *SyntaxError) Message() string { return "syntax error" }

// Labels implements diagnostic.DiagnosticMessage.
func (e *SyntaxError) Labels() []diagnostic.Label {
	return []diagnostic.Label{diagnostic.NewPrimaryLabel(e.Description, e.Span)}
}

// Notes implements diagnostic.DiagnosticMessage.
func (e *SyntaxError) Notes() []diagnostic.Note { return nil }
