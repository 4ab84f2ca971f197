package diagnostic

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// ANSI escape sequences used by the colored renderer.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiCyan   = "\x1b[36m"
)

// Formatter renders a diagnostic list against the source text it refers to,
// with an excerpt and caret markers per label.
type Formatter struct {
	source      string
	diagnostics DiagnosticList
	color       bool
}

// NewFormatter constructs a formatter over source.
func NewFormatter(source string, diagnostics DiagnosticList) *Formatter {
	return &Formatter{source: source, diagnostics: diagnostics}
}

// Colored enables ANSI colors and returns the formatter.
func (f *Formatter) Colored() *Formatter {
	f.color = true
	return f
}

// EnableColors toggles ANSI colors.
func (f *Formatter) EnableColors(color bool) { f.color = color }

// Diagnostics returns the underlying list.
func (f *Formatter) Diagnostics() DiagnosticList { return f.diagnostics }

// String renders all diagnostics.
func (f *Formatter) String() string {
	if len(f.diagnostics) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('\n')
	for _, d := range f.diagnostics {
		f.writeDiagnostic(&b, d)
		b.WriteByte('\n')
	}
	// Trailing whitespace on excerpt lines is invisible but breaks diff-based
	// tooling, so strip it.
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) paint(color, text string) string {
	if !f.color {
		return text
	}
	return color + text + ansiReset
}

func (f *Formatter) severityColor(s Severity) string {
	switch s {
	case SeverityWarning:
		return ansiYellow
	case SeverityNote:
		return ansiCyan
	default:
		return ansiRed
	}
}

func (f *Formatter) writeDiagnostic(b *strings.Builder, d Diagnostic) {
	color := f.severityColor(d.Severity)

	head := d.Severity.String()
	if d.Code > 0 {
		head = fmt.Sprintf("%s[E%03d]", head, d.Code)
	}
	fmt.Fprintf(b, "%s %s\n", f.paint(ansiBold+color, head+":"), f.paint(ansiBold, d.Message))

	span := d.Span()
	line, column := f.position(span.Start)
	gutter := len(fmt.Sprintf("%d", f.lastLabelLine(d)))
	pad := strings.Repeat(" ", gutter)

	fmt.Fprintf(b, "%s%s :%d:%d\n", pad, f.paint(ansiBlue, "┌─"), line, column)
	fmt.Fprintf(b, "%s %s\n", pad, f.paint(ansiBlue, "│"))

	for _, label := range d.Labels {
		f.writeLabel(b, label, gutter, color)
	}

	if len(d.Notes) > 0 {
		fmt.Fprintf(b, "%s %s\n", pad, f.paint(ansiBlue, "│"))
		for _, note := range d.Notes {
			fmt.Fprintf(b, "%s %s %s\n", pad, f.paint(ansiBlue, "="), note)
		}
	}
}

func (f *Formatter) writeLabel(b *strings.Builder, label Label, gutter int, color string) {
	line, column := f.position(label.Span.Start)
	text := f.lineText(line)

	marker := "^"
	markerColor := color
	if !label.Primary {
		marker = "-"
		markerColor = ansiBlue
	}

	// Marker width follows the rendered width of the spanned text, so wide
	// and combining characters stay aligned.
	end := label.Span.End
	if lineEnd := f.lineStart(line) + len(text); end > lineEnd {
		end = lineEnd
	}
	spanned := ""
	if start := label.Span.Start; start < end {
		spanned = f.source[start:end]
	}
	width := uniseg.StringWidth(spanned)
	if width < 1 {
		width = 1
	}
	indent := uniseg.StringWidth(text[:column-1])

	fmt.Fprintf(b, "%*d %s %s\n", gutter, line, f.paint(ansiBlue, "│"), text)
	fmt.Fprintf(b, "%s %s %s%s %s\n",
		strings.Repeat(" ", gutter),
		f.paint(ansiBlue, "│"),
		strings.Repeat(" ", indent),
		f.paint(markerColor, strings.Repeat(marker, width)),
		f.paint(markerColor, label.Message))
}

func (f *Formatter) lastLabelLine(d Diagnostic) int {
	last := 1
	for _, label := range d.Labels {
		if line, _ := f.position(label.Span.Start); line > last {
			last = line
		}
	}
	return last
}

// position converts a byte offset into a 1-based line and column.
func (f *Formatter) position(offset int) (line, column int) {
	if offset > len(f.source) {
		offset = len(f.source)
	}
	line = 1 + strings.Count(f.source[:offset], "\n")
	if idx := strings.LastIndexByte(f.source[:offset], '\n'); idx >= 0 {
		column = offset - idx
	} else {
		column = offset + 1
	}
	return line, column
}

func (f *Formatter) lineStart(line int) int {
	start := 0
	for i := 1; i < line; i++ {
		idx := strings.IndexByte(f.source[start:], '\n')
		if idx < 0 {
			return start
		}
		start += idx + 1
	}
	return start
}

func (f *Formatter) lineText(line int) string {
	start := f.lineStart(line)
	rest := f.source[start:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
