package diagnostic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterRendersDiagnostic(t *testing.T) {
	source := `to_bool("x")`
	diags := DiagnosticList{{
		Severity: SeverityError,
		Code:     103,
		Message:  "unhandled fallible expression",
		Labels: []Label{
			NewPrimaryLabel("this expression can fail", NewSpan(0, len(source))),
		},
	}}

	out := NewFormatter(source, diags).String()

	assert.Contains(t, out, "error[E103]: unhandled fallible expression")
	assert.Contains(t, out, ":1:1")
	assert.Contains(t, out, source)
	assert.Contains(t, out, strings.Repeat("^", len(source)))
	assert.Contains(t, out, "this expression can fail")
	assert.NotContains(t, out, "\x1b[")
}

func TestFormatterContextLabelsUseDashes(t *testing.T) {
	source := "x = 1\ny"
	diags := DiagnosticList{{
		Severity: SeverityError,
		Code:     701,
		Message:  "undefined variable",
		Labels: []Label{
			NewPrimaryLabel("undefined variable \"y\"", NewSpan(6, 7)),
			NewContextLabel("did you mean \"x\"?", NewSpan(6, 7)),
		},
	}}

	out := NewFormatter(source, diags).String()

	// The label sits on line two of the source.
	assert.Contains(t, out, ":2:1")
	assert.Contains(t, out, "^ undefined variable \"y\"")
	assert.Contains(t, out, "- did you mean \"x\"?")
}

func TestFormatterWarningsAndColors(t *testing.T) {
	source := "1\n2"
	diags := DiagnosticList{{
		Severity: SeverityWarning,
		Code:     801,
		Message:  "unused result value",
		Labels:   []Label{NewPrimaryLabel("this value is never used", NewSpan(0, 1))},
	}}

	plain := NewFormatter(source, diags).String()
	assert.Contains(t, plain, "warning[E801]:")

	colored := NewFormatter(source, diags).Colored().String()
	assert.Contains(t, colored, "\x1b[")
	require.NotEqual(t, plain, colored)
}

func TestDiagnosticListFiltering(t *testing.T) {
	diags := DiagnosticList{
		{Severity: SeverityError, Code: 103, Message: "boom"},
		{Severity: SeverityWarning, Code: 801, Message: "meh"},
	}

	assert.True(t, diags.HasErrors())
	assert.Len(t, diags.Errors(), 1)
	assert.Len(t, diags.Warnings(), 1)
	assert.Equal(t, "error[E103]: boom\nwarning[E801]: meh", diags.Error())
}
