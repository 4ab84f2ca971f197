package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/vexlang/vex/pkg/diagnostic"
)

const eof = -1

// Lexer converts a Vex source string into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls. Runs of newlines collapse into a single TokenNewline,
// which the parser treats as an expression separator.
func (l *Lexer) Next() Token {
	l.skipSpace()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// Newlines separate expressions. Consume the whole run, including any
	// blank lines and comments inside it.
	if ch == '\n' {
		for {
			l.skipSpace()
			if !l.acceptRune('\n') {
				break
			}
		}
		t := l.newToken(TokenNewline)
		t.Value = "\n"
		return t
	}

	// String literals
	if ch == '"' {
		l.ignore()
		return l.scanString('"')
	}

	// Number literals
	if isDigit(ch) {
		l.backup()
		return l.scanNumber()
	}

	// Names, keywords, and the s'', r'', t'' quoted literal forms
	if isIdentStart(ch) {
		l.backup()
		return l.scanName()
	}

	// Check for two-character symbols first (e.g., ==, ??, ->)
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
		if tt := lookupSymbol2Fallback(ch); tt > 0 {
			return l.newToken(tt)
		}
	}

	// Single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	return l.error("unexpected character %q", string(ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanString reads a double-quoted string literal from the current position.
// The opening quote has already been consumed. Escape sequences are kept
// verbatim; the parser unescapes them.
func (l *Lexer) scanString(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case '\\':
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error("unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(TokenString)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanQuoted reads a single-quoted literal body (the s'', r'' and t''
// forms). The prefix letter and opening quote have already been consumed.
func (l *Lexer) scanQuoted(tt TokenType) Token {
Loop:
	for {
		switch l.nextRune() {
		case '\'':
			break Loop
		case '\\':
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error("unterminated literal")
		}
	}

	l.backup()
	t := l.newToken(tt)
	l.acceptRune('\'')
	l.ignore()
	return t
}

// scanNumber reads an integer or float literal from the current position.
// Underscores may separate digit groups.
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigitSep)

	isFloat := false
	if l.acceptRune('.') {
		if !l.acceptAll(isDigitSep) {
			// A dot with no digits after it starts a path query, not a
			// fractional part.
			l.backup()
			return l.newToken(TokenInteger)
		}
		isFloat = true
	}

	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			return l.error("malformed number literal")
		}
		isFloat = true
	}

	if isFloat {
		return l.newToken(TokenFloat)
	}
	return l.newToken(TokenInteger)
}

// scanName reads an identifier or keyword from the current position. The
// single letters s, r and t followed immediately by a single quote start a
// raw string, regex or timestamp literal instead.
func (l *Lexer) scanName() Token {
	first := l.nextRune()
	if (first == 's' || first == 'r' || first == 't') && l.acceptRune('\'') {
		l.ignore()
		switch first {
		case 's':
			return l.scanQuoted(TokenRawString)
		case 'r':
			return l.scanQuoted(TokenRegex)
		default:
			return l.scanQuoted(TokenTimestamp)
		}
	}

	l.acceptAll(isIdentPart)

	t := l.newToken(TokenIdent)
	if tt := lookupKeyword(t.Value); tt > 0 {
		t.Type = tt
	}
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(format string, args ...any) Token {
	t := l.newToken(TokenError)
	if l.err == nil {
		l.err = &SyntaxError{
			Description: fmt.Sprintf(format, args...),
			Span:        diagnostic.NewSpan(t.Position, t.End()),
		}
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// skipSpace skips horizontal whitespace and comments, stopping before
// newlines, which are significant.
func (l *Lexer) skipSpace() {
	for {
		l.acceptAll(isSpace)
		l.ignore()

		// Comments run from # to the end of the line.
		if !l.acceptRune('#') {
			return
		}
		for {
			ch := l.nextRune()
			if ch == eof {
				l.ignore()
				return
			}
			if ch == '\n' {
				l.backup()
				break
			}
		}
		l.ignore()
	}
}

// Character classification functions

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDigitSep(r rune) bool {
	return isDigit(r) || r == '_'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || isDigit(r) || unicode.IsLetter(r)
}
