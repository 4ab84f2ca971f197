package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenNewline // expression separator

	// Literals
	TokenString    // "hello"
	TokenRawString // s'hello'
	TokenRegex     // r'pattern'
	TokenTimestamp // t'2021-02-11T16:00:00Z'
	TokenInteger   // 123
	TokenFloat     // 3.14

	// Names and keywords
	TokenIdent  // message, _
	TokenTrue   // true
	TokenFalse  // false
	TokenNull   // null
	TokenIf     // if
	TokenElse   // else
	TokenAbort  // abort
	TokenReturn // return

	// Grouping symbols
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenBraceOpen    // {
	TokenBraceClose   // }
	TokenParenOpen    // (
	TokenParenClose   // )

	// Basic symbols
	TokenDot       // .
	TokenComma     // ,
	TokenColon     // :
	TokenSemicolon // ;
	TokenBang      // !
	TokenTilde     // ~
	TokenPercent   // %
	TokenPipe      // |
	TokenArrow     // ->

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenMult  // *
	TokenDiv   // /

	// Assignment and comparison operators
	TokenAssign       // =
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Logical operators
	TokenAnd      // &&
	TokenOr       // ||
	TokenCoalesce // ??
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenNewline:
		return "(newline)"
	case TokenString, TokenRawString:
		return "(string)"
	case TokenRegex:
		return "(regex)"
	case TokenTimestamp:
		return "(timestamp)"
	case TokenInteger:
		return "(integer)"
	case TokenFloat:
		return "(float)"
	case TokenIdent:
		return "(identifier)"
	case TokenTrue:
		return "true"
	case TokenFalse:
		return "false"
	case TokenNull:
		return "null"
	case TokenIf:
		return "if"
	case TokenElse:
		return "else"
	case TokenAbort:
		return "abort"
	case TokenReturn:
		return "return"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenBraceOpen:
		return "{"
	case TokenBraceClose:
		return "}"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenDot:
		return "."
	case TokenComma:
		return ","
	case TokenColon:
		return ":"
	case TokenSemicolon:
		return ";"
	case TokenBang:
		return "!"
	case TokenTilde:
		return "~"
	case TokenPercent:
		return "%"
	case TokenPipe:
		return "|"
	case TokenArrow:
		return "->"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMult:
		return "*"
	case TokenDiv:
		return "/"
	case TokenAssign:
		return "="
	case TokenEqual:
		return "=="
	case TokenNotEqual:
		return "!="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenAnd:
		return "&&"
	case TokenOr:
		return "||"
	case TokenCoalesce:
		return "??"
	}
	return "(unknown)"
}

// Token is a lexical token with its source position.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Position int       // Starting byte offset in the input string
}

// End returns the byte offset just past the token.
func (t Token) End() int { return t.Position + len(t.Value) }

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	'{': TokenBraceOpen,
	'}': TokenBraceClose,
	'(': TokenParenOpen,
	')': TokenParenClose,
	'.': TokenDot,
	',': TokenComma,
	':': TokenColon,
	';': TokenSemicolon,
	'~': TokenTilde,
	'%': TokenPercent,
	'+': TokenPlus,
	'*': TokenMult,
	'/': TokenDiv,
}

const symbol1Count = rune(len(symbols1))

type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps the first rune of two-character symbols to their possible
// completions. Single-character fallbacks (e.g. "!" when "!=" does not
// match) are handled by the lexer after the table lookup fails.
var symbols2 = [...][]runeTokenType{
	'!': {{'=', TokenNotEqual}},
	'=': {{'=', TokenEqual}},
	'<': {{'=', TokenLessEqual}},
	'>': {{'=', TokenGreaterEqual}},
	'&': {{'&', TokenAnd}},
	'|': {{'|', TokenOr}},
	'?': {{'?', TokenCoalesce}},
	'-': {{'>', TokenArrow}},
}

const symbol2Count = rune(len(symbols2))

// symbols2Fallback maps the first rune of a two-character symbol to the
// token type used when the second rune does not follow. A zero entry means
// the lone rune is invalid.
var symbols2Fallback = [...]TokenType{
	'!': TokenBang,
	'=': TokenAssign,
	'<': TokenLess,
	'>': TokenGreater,
	'-': TokenMinus,
	'|': TokenPipe,
}

const symbol2FallbackCount = rune(len(symbols2Fallback))

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}

// lookupSymbol2Fallback returns the single-character token type for a rune
// that can start a two-character symbol but did not complete one.
func lookupSymbol2Fallback(r rune) TokenType {
	if r < 0 || r >= symbol2FallbackCount {
		return 0
	}
	return symbols2Fallback[r]
}

// lookupKeyword returns the token type for a keyword.
// Returns 0 if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	switch s {
	case "true":
		return TokenTrue
	case "false":
		return TokenFalse
	case "null":
		return TokenNull
	case "if":
		return TokenIf
	case "else":
		return TokenElse
	case "abort":
		return TokenAbort
	case "return":
		return TokenReturn
	}
	return 0
}
