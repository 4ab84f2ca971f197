// Package diagnostic implements structured compiler diagnostics: spans over
// the source text, labeled messages with severities and error codes, and a
// terminal formatter that renders them with source excerpts.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic.
type Severity uint8

const (
	// SeverityBug marks internal invariant violations.
	SeverityBug Severity = iota
	// SeverityError marks diagnostics that fail compilation.
	SeverityError
	// SeverityWarning marks diagnostics that do not fail compilation.
	SeverityWarning
	// SeverityNote marks purely informational diagnostics.
	SeverityNote
)

// IsError reports whether the severity fails compilation.
func (s Severity) IsError() bool { return s == SeverityBug || s == SeverityError }

// String returns the lowercase severity name used in rendered output.
func (s Severity) String() string {
	switch s {
	case SeverityBug:
		return "bug"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	}
	return "unknown"
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// NewSpan constructs a span.
func NewSpan(start, end int) Span { return Span{Start: start, End: end} }

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// Label is a message anchored to a span. Primary labels carry the main
// message; context labels add secondary pointers.
type Label struct {
	Message string
	Primary bool
	Span    Span
}

// NewPrimaryLabel returns a primary label.
func NewPrimaryLabel(message string, span Span) Label {
	return Label{Message: message, Primary: true, Span: span}
}

// NewContextLabel returns a secondary label.
func NewContextLabel(message string, span Span) Label {
	return Label{Message: message, Primary: false, Span: span}
}

// Primaryf returns a primary label with a formatted message.
func Primaryf(span Span, format string, args ...any) Label {
	return NewPrimaryLabel(fmt.Sprintf(format, args...), span)
}

// Contextf returns a secondary label with a formatted message.
func Contextf(span Span, format string, args ...any) Label {
	return NewContextLabel(fmt.Sprintf(format, args...), span)
}

// DiagnosticMessage is implemented by errors that can render themselves as a
// full diagnostic. Compilation errors across the compiler implement it.
type DiagnosticMessage interface {
	// Code returns the stable numeric error code.
	Code() int
	// Message returns the one-line summary.
	Message() string
	// Labels returns the labels anchoring the diagnostic to the source.
	Labels() []Label
	// Notes returns trailing notes.
	Notes() []Note
}

// Diagnostic is one rendered compiler message.
type Diagnostic struct {
	Severity Severity
	Code     int
	Message  string
	Labels   []Label
	Notes    []Note
}

// FromMessage converts a DiagnosticMessage into a Diagnostic with the given
// severity. Error-code documentation links are appended automatically for
// codes that have them.
func FromMessage(severity Severity, msg DiagnosticMessage) Diagnostic {
	notes := msg.Notes()
	if code := msg.Code(); code > 0 {
		notes = append(notes, SeeCodeDocs(code))
	}
	return Diagnostic{
		Severity: severity,
		Code:     msg.Code(),
		Message:  msg.Message(),
		Labels:   msg.Labels(),
		Notes:    notes,
	}
}

// Span returns the span covering all of the diagnostic's labels.
func (d Diagnostic) Span() Span {
	var span Span
	for i, label := range d.Labels {
		if i == 0 {
			span = label.Span
			continue
		}
		span = span.Merge(label.Span)
	}
	return span
}

// Error implements the error interface with the one-line form.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s[E%03d]: %s", d.Severity, d.Code, d.Message)
}

// DiagnosticList is an ordered collection of diagnostics.
type DiagnosticList []Diagnostic

// HasErrors reports whether any diagnostic has an error severity.
func (l DiagnosticList) HasErrors() bool {
	for _, d := range l {
		if d.Severity.IsError() {
			return true
		}
	}
	return false
}

// Errors returns the diagnostics with error severity.
func (l DiagnosticList) Errors() DiagnosticList {
	var out DiagnosticList
	for _, d := range l {
		if d.Severity.IsError() {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns the diagnostics with warning severity.
func (l DiagnosticList) Warnings() DiagnosticList {
	var out DiagnosticList
	for _, d := range l {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Error implements the error interface by joining the one-line forms.
func (l DiagnosticList) Error() string {
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}
