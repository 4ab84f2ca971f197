// Package parser implements the Vex lexer and recursive descent parser,
// turning source text into the AST consumed by the compiler.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/path"
)

// Parse lexes and parses a Vex source string into a Program.
func Parse(source string) (*Program, error) {
	lx := NewLexer(source)
	var tokens []Token
	for {
		t := lx.Next()
		if t.Type == TokenError {
			return nil, lx.Error()
		}
		tokens = append(tokens, t)
		if t.Type == TokenEOF {
			break
		}
	}
	p := &Parser{source: source, tokens: tokens}
	return p.parseProgram()
}

// Parser consumes a token stream and produces the AST. Errors abort the
// parse; only the first one is reported.
type Parser struct {
	source string
	tokens []Token
	pos    int
	prev   Token
}

// Token access helpers.

func (p *Parser) cur() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.prev = t
	return t
}

func (p *Parser) at(tt TokenType) bool { return p.cur().Type == tt }

func (p *Parser) accept(tt TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if !p.at(tt) {
		return Token{}, p.unexpected("expected %s", tt)
	}
	return p.advance(), nil
}

func (p *Parser) skipNewlines() {
	for p.at(TokenNewline) {
		p.advance()
	}
}

func (p *Parser) skipSeparators() {
	for p.at(TokenNewline) || p.at(TokenSemicolon) {
		p.advance()
	}
}

func (p *Parser) unexpected(format string, args ...any) error {
	t := p.cur()
	desc := fmt.Sprintf(format, args...)
	if t.Type == TokenEOF {
		desc += ", found end of input"
	} else {
		desc += fmt.Sprintf(", found %q", t.Value)
	}
	return &SyntaxError{
		Description: desc,
		Span:        diagnostic.NewSpan(t.Position, max(t.End(), t.Position+1)),
	}
}

func (p *Parser) errorAt(span diagnostic.Span, format string, args ...any) error {
	return &SyntaxError{
		Description: fmt.Sprintf(format, args...),
		Span:        span,
	}
}

// spanFrom returns the span from the given start token through the most
// recently consumed token.
func (p *Parser) spanFrom(start Token) nodeSpan {
	return nodeSpan{span: diagnostic.NewSpan(start.Position, p.prev.End())}
}

// Grammar productions.

func (p *Parser) parseProgram() (*Program, error) {
	start := p.cur()
	var exprs []Node

	p.skipSeparators()
	for !p.at(TokenEOF) {
		expr, err := p.parseRootExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if p.at(TokenEOF) {
			break
		}
		if !p.at(TokenNewline) && !p.at(TokenSemicolon) {
			return nil, p.unexpected("expected a new line or ; between expressions")
		}
		p.skipSeparators()
	}

	return &Program{nodeSpan: p.spanFrom(start), Exprs: exprs}, nil
}

func (p *Parser) parseRootExpr() (Node, error) {
	if node, ok, err := p.tryParseAssignment(); ok || err != nil {
		return node, err
	}
	return p.parseExpr()
}

// tryParseAssignment backtracks if the upcoming tokens do not form an
// assignment left-hand side followed by =.
func (p *Parser) tryParseAssignment() (Node, bool, error) {
	mark := p.pos
	markPrev := p.prev
	restore := func() {
		p.pos = mark
		p.prev = markPrev
	}

	start := p.cur()
	target, ok := p.parseAssignTarget()
	if !ok {
		restore()
		return nil, false, nil
	}

	var errTarget *AssignTarget
	if p.accept(TokenComma) {
		second, ok := p.parseAssignTarget()
		if !ok {
			restore()
			return nil, false, nil
		}
		errTarget = &second
	}

	if !p.at(TokenAssign) {
		restore()
		return nil, false, nil
	}
	p.advance()
	p.skipNewlines()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, true, err
	}

	return &AssignmentNode{
		nodeSpan: p.spanFrom(start),
		Target:   target,
		Err:      errTarget,
		Expr:     expr,
	}, true, nil
}

func (p *Parser) parseAssignTarget() (AssignTarget, bool) {
	start := p.cur()

	switch start.Type {
	case TokenIdent:
		if start.Value == "_" {
			p.advance()
			return AssignTarget{
				Kind: AssignNoop,
				Span: diagnostic.NewSpan(start.Position, start.End()),
			}, true
		}
		p.advance()
		pth, err := p.parsePathSegments()
		if err != nil {
			return AssignTarget{}, false
		}
		return AssignTarget{
			Kind:  AssignInternal,
			Ident: start.Value,
			Path:  pth,
			Span:  diagnostic.NewSpan(start.Position, p.prev.End()),
		}, true
	case TokenDot:
		pth, err := p.parseExternalPath()
		if err != nil {
			return AssignTarget{}, false
		}
		return AssignTarget{
			Kind:   AssignExternal,
			Prefix: path.PrefixEvent,
			Path:   pth,
			Span:   diagnostic.NewSpan(start.Position, p.prev.End()),
		}, true
	case TokenPercent:
		pth, err := p.parseMetadataPath()
		if err != nil {
			return AssignTarget{}, false
		}
		return AssignTarget{
			Kind:   AssignExternal,
			Prefix: path.PrefixMetadata,
			Path:   pth,
			Span:   diagnostic.NewSpan(start.Position, p.prev.End()),
		}, true
	}
	return AssignTarget{}, false
}

// Binary operator levels, lowest precedence first.

func (p *Parser) parseExpr() (Node, error) {
	return p.parseBinary(0)
}

type opLevel struct {
	tokens []TokenType
	ops    []OpKind
}

var opLevels = []opLevel{
	{[]TokenType{TokenCoalesce}, []OpKind{OpErr}},
	{[]TokenType{TokenOr}, []OpKind{OpOr}},
	{[]TokenType{TokenAnd}, []OpKind{OpAnd}},
	{[]TokenType{TokenEqual, TokenNotEqual}, []OpKind{OpEq, OpNe}},
	{[]TokenType{TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual}, []OpKind{OpLt, OpLe, OpGt, OpGe}},
	{[]TokenType{TokenPlus, TokenMinus}, []OpKind{OpAdd, OpSub}},
	{[]TokenType{TokenMult, TokenDiv, TokenPercent}, []OpKind{OpMul, OpDiv, OpRem}},
}

func (p *Parser) parseBinary(level int) (Node, error) {
	if level >= len(opLevels) {
		return p.parseUnary()
	}

	start := p.cur()
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	lv := opLevels[level]
	for {
		var op OpKind
		matched := false
		for i, tt := range lv.tokens {
			if p.at(tt) {
				op = lv.ops[i]
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
		p.advance()
		p.skipNewlines()

		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &OpNode{
			nodeSpan: p.spanFrom(start),
			Op:       op,
			Left:     left,
			Right:    right,
		}
	}
}

func (p *Parser) parseUnary() (Node, error) {
	start := p.cur()

	switch start.Type {
	case TokenBang:
		p.advance()
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{nodeSpan: p.spanFrom(start), Op: UnaryNot, Expr: expr}, nil
	case TokenTilde:
		p.advance()
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{nodeSpan: p.spanFrom(start), Op: UnaryBitwiseNot, Expr: expr}, nil
	case TokenMinus:
		// Unary minus applies to numeric literals only.
		switch p.peek(1).Type {
		case TokenInteger:
			p.advance()
			tok := p.advance()
			n, err := parseInteger(tok)
			if err != nil {
				return nil, err
			}
			return &IntegerLit{nodeSpan: p.spanFrom(start), Value: -n}, nil
		case TokenFloat:
			p.advance()
			tok := p.advance()
			f, err := parseFloat(tok)
			if err != nil {
				return nil, err
			}
			return &FloatLit{nodeSpan: p.spanFrom(start), Value: -f}, nil
		}
		return nil, p.unexpected("expected an expression")
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	start := p.cur()
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if !p.at(TokenDot) && !p.at(TokenBracketOpen) {
		return primary, nil
	}

	// A trailing path turns the primary into a query target.
	query := &QueryNode{}
	switch node := primary.(type) {
	case *VariableNode:
		query.Target = TargetInternal
		query.Ident = node.Ident
	case *CallNode:
		query.Target = TargetFunctionCall
		query.Call = node
	case *Group, *Block, *ArrayLit, *ObjectLit:
		query.Target = TargetContainer
		query.Container = primary
	case *QueryNode:
		return primary, nil
	default:
		return primary, nil
	}

	pth, err := p.parsePathSegments()
	if err != nil {
		return nil, err
	}
	query.Path = pth
	query.nodeSpan = p.spanFrom(start)
	return query, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	start := p.cur()

	switch start.Type {
	case TokenString:
		p.advance()
		value, err := p.unescapeString(start)
		if err != nil {
			return nil, err
		}
		return &StringLit{nodeSpan: p.spanFrom(start), Value: value}, nil
	case TokenRawString:
		p.advance()
		return &RawStringLit{nodeSpan: p.spanFrom(start), Value: unescapeRaw(start.Value)}, nil
	case TokenRegex:
		p.advance()
		return &RegexLit{nodeSpan: p.spanFrom(start), Pattern: unescapeRaw(start.Value)}, nil
	case TokenTimestamp:
		p.advance()
		return &TimestampLit{nodeSpan: p.spanFrom(start), Value: unescapeRaw(start.Value)}, nil
	case TokenInteger:
		p.advance()
		n, err := parseInteger(start)
		if err != nil {
			return nil, err
		}
		return &IntegerLit{nodeSpan: p.spanFrom(start), Value: n}, nil
	case TokenFloat:
		p.advance()
		f, err := parseFloat(start)
		if err != nil {
			return nil, err
		}
		return &FloatLit{nodeSpan: p.spanFrom(start), Value: f}, nil
	case TokenTrue, TokenFalse:
		p.advance()
		return &BooleanLit{nodeSpan: p.spanFrom(start), Value: start.Type == TokenTrue}, nil
	case TokenNull:
		p.advance()
		return &NullLit{nodeSpan: p.spanFrom(start)}, nil
	case TokenIf:
		return p.parseIf()
	case TokenAbort:
		return p.parseAbort()
	case TokenReturn:
		return p.parseReturn()
	case TokenBracketOpen:
		return p.parseArray()
	case TokenBraceOpen:
		if p.aheadIsObject() {
			return p.parseObject()
		}
		return p.parseBlock()
	case TokenParenOpen:
		p.advance()
		p.skipNewlines()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		if _, err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return &Group{nodeSpan: p.spanFrom(start), Expr: expr}, nil
	case TokenDot:
		pth, err := p.parseExternalPath()
		if err != nil {
			return nil, err
		}
		return &QueryNode{
			nodeSpan: p.spanFrom(start),
			Target:   TargetExternal,
			Prefix:   path.PrefixEvent,
			Path:     pth,
		}, nil
	case TokenPercent:
		pth, err := p.parseMetadataPath()
		if err != nil {
			return nil, err
		}
		return &QueryNode{
			nodeSpan: p.spanFrom(start),
			Target:   TargetExternal,
			Prefix:   path.PrefixMetadata,
			Path:     pth,
		}, nil
	case TokenIdent:
		return p.parseIdent()
	}
	return nil, p.unexpected("expected an expression")
}

func (p *Parser) parseIdent() (Node, error) {
	start := p.advance()

	abort := false
	if p.at(TokenBang) && p.peek(1).Type == TokenParenOpen {
		p.advance()
		abort = true
	}
	if !p.at(TokenParenOpen) {
		if abort {
			return nil, p.unexpected("expected ( after !")
		}
		return &VariableNode{nodeSpan: p.spanFrom(start), Ident: start.Value}, nil
	}

	return p.parseCall(start, abort)
}

func (p *Parser) parseCall(ident Token, abort bool) (Node, error) {
	if _, err := p.expect(TokenParenOpen); err != nil {
		return nil, err
	}
	p.skipNewlines()

	var args []CallArg
	for !p.at(TokenParenClose) {
		argStart := p.cur()
		var name string
		if p.at(TokenIdent) && p.peek(1).Type == TokenColon {
			name = p.advance().Value
			p.advance()
			p.skipNewlines()
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, CallArg{
			Name: name,
			Expr: expr,
			Span: diagnostic.NewSpan(argStart.Position, p.prev.End()),
		})
		p.skipNewlines()
		if !p.accept(TokenComma) {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	call := &CallNode{
		nodeSpan: p.spanFrom(ident),
		Ident:    ident.Value,
		Abort:    abort,
		Args:     args,
	}

	if p.at(TokenArrow) {
		closure, err := p.parseClosure()
		if err != nil {
			return nil, err
		}
		call.Closure = closure
		call.nodeSpan = p.spanFrom(ident)
	}
	return call, nil
}

func (p *Parser) parseClosure() (*ClosureNode, error) {
	start, err := p.expect(TokenArrow)
	if err != nil {
		return nil, err
	}

	var params []string
	if !p.accept(TokenOr) { // || is an empty parameter list
		if _, err := p.expect(TokenPipe); err != nil {
			return nil, err
		}
		for {
			tok, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			params = append(params, tok.Value)
			if !p.accept(TokenComma) {
				break
			}
		}
		if _, err := p.expect(TokenPipe); err != nil {
			return nil, err
		}
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ClosureNode{nodeSpan: p.spanFrom(start), Params: params, Block: block}, nil
}

func (p *Parser) parseIf() (Node, error) {
	start, err := p.expect(TokenIf)
	if err != nil {
		return nil, err
	}

	predicate, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	consequent, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node := &IfNode{Predicate: predicate, Consequent: consequent}
	if p.accept(TokenElse) {
		if p.at(TokenIf) {
			alt, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			node.Alternative = alt
		} else {
			alt, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			node.Alternative = alt
		}
	}
	node.nodeSpan = p.spanFrom(start)
	return node, nil
}

func (p *Parser) parseAbort() (Node, error) {
	start, err := p.expect(TokenAbort)
	if err != nil {
		return nil, err
	}

	node := &AbortNode{}
	if p.startsExpr() {
		msg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		node.Message = msg
	}
	node.nodeSpan = p.spanFrom(start)
	return node, nil
}

func (p *Parser) parseReturn() (Node, error) {
	start, err := p.expect(TokenReturn)
	if err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ReturnNode{nodeSpan: p.spanFrom(start), Expr: expr}, nil
}

// startsExpr reports whether the current token can begin an expression.
// Used for abort's optional message argument.
func (p *Parser) startsExpr() bool {
	switch p.cur().Type {
	case TokenNewline, TokenSemicolon, TokenEOF, TokenBraceClose, TokenParenClose,
		TokenBracketClose, TokenComma, TokenElse:
		return false
	}
	return true
}

func (p *Parser) parseArray() (Node, error) {
	start, err := p.expect(TokenBracketOpen)
	if err != nil {
		return nil, err
	}
	p.skipNewlines()

	var items []Node
	for !p.at(TokenBracketClose) {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipNewlines()
		if !p.accept(TokenComma) {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}
	return &ArrayLit{nodeSpan: p.spanFrom(start), Items: items}, nil
}

// aheadIsObject distinguishes an object literal from a block by looking past
// the opening brace: a string or identifier key followed by a colon, or an
// immediately closing brace, means an object.
func (p *Parser) aheadIsObject() bool {
	i := 1
	for p.peek(i).Type == TokenNewline {
		i++
	}
	switch p.peek(i).Type {
	case TokenBraceClose:
		return true
	case TokenString, TokenIdent:
		return p.peek(i+1).Type == TokenColon
	}
	return false
}

func (p *Parser) parseObject() (Node, error) {
	start, err := p.expect(TokenBraceOpen)
	if err != nil {
		return nil, err
	}
	p.skipNewlines()

	var entries []ObjectEntry
	for !p.at(TokenBraceClose) {
		keyTok := p.cur()
		var key string
		switch keyTok.Type {
		case TokenString:
			p.advance()
			key, err = p.unescapeString(keyTok)
			if err != nil {
				return nil, err
			}
		case TokenIdent:
			p.advance()
			key = keyTok.Value
		default:
			return nil, p.unexpected("expected an object key")
		}
		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}
		p.skipNewlines()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ObjectEntry{Key: key, Value: value})
		p.skipNewlines()
		if !p.accept(TokenComma) {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expect(TokenBraceClose); err != nil {
		return nil, err
	}
	return &ObjectLit{nodeSpan: p.spanFrom(start), Entries: entries}, nil
}

func (p *Parser) parseBlock() (*Block, error) {
	start, err := p.expect(TokenBraceOpen)
	if err != nil {
		return nil, err
	}
	p.skipSeparators()

	var exprs []Node
	for !p.at(TokenBraceClose) {
		expr, err := p.parseRootExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if p.at(TokenBraceClose) {
			break
		}
		if !p.at(TokenNewline) && !p.at(TokenSemicolon) {
			return nil, p.unexpected("expected a new line or ; between expressions")
		}
		p.skipSeparators()
	}
	if _, err := p.expect(TokenBraceClose); err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return nil, p.errorAt(diagnostic.NewSpan(start.Position, p.prev.End()), "blocks must hold at least one expression")
	}
	return &Block{nodeSpan: p.spanFrom(start), Exprs: exprs}, nil
}

// Path parsing.

// parseExternalPath parses an event path query starting at the leading dot.
// A bare dot is the event root.
func (p *Parser) parseExternalPath() (path.Path, error) {
	switch p.peek(1).Type {
	case TokenIdent, TokenString, TokenParenOpen:
		return p.parsePathSegments()
	}
	p.advance()
	return path.Root(), nil
}

// parseMetadataPath parses a metadata path query starting at the leading
// percent sign. A bare percent is the metadata root.
func (p *Parser) parseMetadataPath() (path.Path, error) {
	if _, err := p.expect(TokenPercent); err != nil {
		return path.Root(), err
	}

	switch p.cur().Type {
	case TokenIdent, TokenString:
	default:
		return path.Root(), nil
	}

	seg, err := p.parseFieldSegment()
	if err != nil {
		return path.Root(), err
	}
	rest, err := p.parsePathSegments()
	if err != nil {
		return path.Root(), err
	}
	return path.New(append([]path.Segment{seg}, rest.Segments...)...), nil
}

// parsePathSegments parses zero or more .field, ."quoted", .(a|b) and
// [index] segments.
func (p *Parser) parsePathSegments() (path.Path, error) {
	var segments []path.Segment
	for {
		switch p.cur().Type {
		case TokenDot:
			p.advance()
			if p.at(TokenParenOpen) {
				seg, err := p.parseCoalesceSegment()
				if err != nil {
					return path.Root(), err
				}
				segments = append(segments, seg)
				continue
			}
			seg, err := p.parseFieldSegment()
			if err != nil {
				return path.Root(), err
			}
			segments = append(segments, seg)
		case TokenBracketOpen:
			p.advance()
			negative := p.accept(TokenMinus)
			tok, err := p.expect(TokenInteger)
			if err != nil {
				return path.Root(), err
			}
			index, err := parseInteger(tok)
			if err != nil {
				return path.Root(), err
			}
			if negative {
				index = -index
			}
			if _, err := p.expect(TokenBracketClose); err != nil {
				return path.Root(), err
			}
			segments = append(segments, path.IndexSegment(int(index)))
		default:
			return path.New(segments...), nil
		}
	}
}

func (p *Parser) parseFieldSegment() (path.Segment, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenIdent:
		p.advance()
		return path.FieldSegment(tok.Value), nil
	case TokenString:
		p.advance()
		field, err := p.unescapeString(tok)
		if err != nil {
			return path.Segment{}, err
		}
		return path.FieldSegment(field), nil
	}
	return path.Segment{}, p.unexpected("expected a path field")
}

func (p *Parser) parseCoalesceSegment() (path.Segment, error) {
	if _, err := p.expect(TokenParenOpen); err != nil {
		return path.Segment{}, err
	}

	var fields []string
	for {
		seg, err := p.parseFieldSegment()
		if err != nil {
			return path.Segment{}, err
		}
		fields = append(fields, seg.Field)
		if !p.accept(TokenPipe) {
			break
		}
	}
	if _, err := p.expect(TokenParenClose); err != nil {
		return path.Segment{}, err
	}
	if len(fields) < 2 {
		return path.Segment{}, p.unexpected("expected | and another field in the coalesce path")
	}
	return path.CoalesceSegment(fields...), nil
}

// Literal helpers.

func parseInteger(tok Token) (int64, error) {
	text := strings.ReplaceAll(tok.Value, "_", "")
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, &SyntaxError{
			Description: "integer literal out of range",
			Span:        diagnostic.NewSpan(tok.Position, tok.End()),
		}
	}
	return n, nil
}

func parseFloat(tok Token) (float64, error) {
	text := strings.ReplaceAll(tok.Value, "_", "")
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &SyntaxError{
			Description: "malformed float literal",
			Span:        diagnostic.NewSpan(tok.Position, tok.End()),
		}
	}
	return f, nil
}

// unescapeString processes the escape sequences of a double-quoted string
// literal.
func (p *Parser) unescapeString(tok Token) (string, error) {
	raw := tok.Value
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(raw) {
			break
		}
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(raw[i])
		default:
			return "", &SyntaxError{
				Description: fmt.Sprintf("invalid escape sequence \\%c", raw[i]),
				Span:        diagnostic.NewSpan(tok.Position, tok.End()),
			}
		}
	}
	return b.String(), nil
}

// unescapeRaw handles the single escape the quoted literal forms support:
// \' for a literal quote. All other backslashes pass through untouched.
func unescapeRaw(raw string) string {
	return strings.ReplaceAll(raw, `\'`, `'`)
}
