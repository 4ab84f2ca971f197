package diagnostic

import "fmt"

const docsRoot = "https://vexlang.dev/docs"

// Note is a trailing line rendered after a diagnostic's source excerpt.
type Note struct {
	text string
}

// Hint returns a "hint: ..." note.
func Hint(text string) Note { return Note{text: "hint: " + text} }

// Hintf returns a formatted hint note.
func Hintf(format string, args ...any) Note {
	return Hint(fmt.Sprintf(format, args...))
}

// Example returns an "example: ..." note.
func Example(text string) Note { return Note{text: "example: " + text} }

// CoerceValue returns the standard hint pointing at coercion functions.
func CoerceValue() Note {
	return Hint("coerce the value to the required type using a coercion function")
}

// SeeFunctionDocs returns a link note for a function's documentation.
func SeeFunctionDocs(ident string) Note {
	return SeeDocs("function", fmt.Sprintf("%s/functions/%s", docsRoot, ident))
}

// SeeErrorDocs returns a link note for the error handling documentation.
func SeeErrorDocs() Note {
	return SeeDocs("error handling", docsRoot+"/errors")
}

// SeeCodeDocs returns a link note for one error code's documentation.
func SeeCodeDocs(code int) Note {
	return Note{text: fmt.Sprintf("learn more about error code %d at %s/errors/%d", code, docsRoot, code)}
}

// SeeLangDocs returns a link note for the language documentation.
func SeeLangDocs() Note {
	return Note{text: "see language documentation at " + docsRoot}
}

// SeeDocs returns a "see documentation about <kind> at <url>" note.
func SeeDocs(kind, url string) Note {
	return Note{text: fmt.Sprintf("see documentation about %s at %s", kind, url)}
}

// Basic returns a note rendered verbatim.
func Basic(text string) Note { return Note{text: text} }

// Basicf returns a formatted verbatim note.
func Basicf(format string, args ...any) Note {
	return Note{text: fmt.Sprintf(format, args...)}
}

// UserErrorMessage wraps a message produced by user code, e.g. an abort
// expression's argument.
func UserErrorMessage(message string) Note { return Note{text: message} }

// Solution returns the multi-line "try: ..." block used by diagnostics that
// can propose a concrete rewrite.
func Solution(title string, content []string) []Note {
	notes := []Note{Basic("try: " + title), Basic(" ")}
	for _, line := range content {
		notes = append(notes, Basic("    "+line))
	}
	return append(notes, Basic(" "))
}

// String returns the rendered note text.
func (n Note) String() string { return n.text }
