package parser

import (
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/path"
)

// Node is an AST node. Every node records the source span it was parsed
// from, so later compilation stages can anchor diagnostics.
type Node interface {
	Span() diagnostic.Span
}

type nodeSpan struct {
	span diagnostic.Span
}

func (n nodeSpan) Span() diagnostic.Span { return n.span }

// Program is a parsed source file: a sequence of root expressions.
type Program struct {
	nodeSpan
	Exprs []Node
}

// Literal nodes.

// StringLit is a double-quoted string literal, already unescaped.
type StringLit struct {
	nodeSpan
	Value string
}

// RawStringLit is an s'...' literal; no escape processing beyond \'.
type RawStringLit struct {
	nodeSpan
	Value string
}

// IntegerLit is an integer literal.
type IntegerLit struct {
	nodeSpan
	Value int64
}

// FloatLit is a float literal.
type FloatLit struct {
	nodeSpan
	Value float64
}

// BooleanLit is true or false.
type BooleanLit struct {
	nodeSpan
	Value bool
}

// NullLit is the null literal.
type NullLit struct {
	nodeSpan
}

// RegexLit is an r'...' literal carrying the raw pattern.
type RegexLit struct {
	nodeSpan
	Pattern string
}

// TimestampLit is a t'...' literal carrying the raw RFC 3339 text.
type TimestampLit struct {
	nodeSpan
	Value string
}

// Container nodes.

// ArrayLit is an array literal.
type ArrayLit struct {
	nodeSpan
	Items []Node
}

// ObjectEntry is one key/value pair of an object literal. Source order is
// preserved so duplicate keys resolve last-wins.
type ObjectEntry struct {
	Key   string
	Value Node
}

// ObjectLit is an object literal.
type ObjectLit struct {
	nodeSpan
	Entries []ObjectEntry
}

// Block is a brace-delimited expression sequence with its own lexical
// scope. Its value is the value of the last expression.
type Block struct {
	nodeSpan
	Exprs []Node
}

// Group is a parenthesized expression.
type Group struct {
	nodeSpan
	Expr Node
}

// IfNode is an if/else-if/else conditional. Alternative is nil, a *Block,
// or another *IfNode (an else-if chain).
type IfNode struct {
	nodeSpan
	Predicate   Node
	Consequent  *Block
	Alternative Node
}

// OpKind enumerates the binary operators.
type OpKind uint8

const (
	OpMul OpKind = iota
	OpDiv
	OpRem
	OpAdd
	OpSub
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpErr // ?? error coalescing
)

// String returns the operator's source notation.
func (op OpKind) String() string {
	switch op {
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpRem:
		return "%"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpErr:
		return "??"
	}
	return "(unknown)"
}

// OpNode is a binary operation.
type OpNode struct {
	nodeSpan
	Op    OpKind
	Left  Node
	Right Node
}

// UnaryKind enumerates the unary operators.
type UnaryKind uint8

const (
	UnaryNot        UnaryKind = iota // !
	UnaryBitwiseNot                  // ~
)

// UnaryNode is a unary operation.
type UnaryNode struct {
	nodeSpan
	Op   UnaryKind
	Expr Node
}

// Query targets.

// QueryTargetKind enumerates what a path query descends into.
type QueryTargetKind uint8

const (
	// TargetExternal queries the event or metadata root.
	TargetExternal QueryTargetKind = iota
	// TargetInternal queries a local variable.
	TargetInternal
	// TargetContainer queries an inline container expression.
	TargetContainer
	// TargetFunctionCall queries a function call's result.
	TargetFunctionCall
)

// QueryNode is a path query: a target plus the path to descend.
type QueryNode struct {
	nodeSpan
	Target    QueryTargetKind
	Prefix    path.Prefix // for TargetExternal
	Ident     string      // for TargetInternal
	Container Node        // for TargetContainer
	Call      *CallNode   // for TargetFunctionCall
	Path      path.Path
}

// VariableNode is a bare local variable reference.
type VariableNode struct {
	nodeSpan
	Ident string
}

// CallArg is one function call argument, optionally named.
type CallArg struct {
	Name string // empty for positional arguments
	Expr Node
	Span diagnostic.Span
}

// ClosureNode is a trailing closure: -> |a, b| { ... }.
type ClosureNode struct {
	nodeSpan
	Params []string
	Block  *Block
}

// CallNode is a function call. Abort marks the ! variant, which turns a
// runtime error into program abortion.
type CallNode struct {
	nodeSpan
	Ident   string
	Abort   bool
	Args    []CallArg
	Closure *ClosureNode
}

// Assignment targets.

// AssignTargetKind enumerates the left-hand sides of an assignment.
type AssignTargetKind uint8

const (
	// AssignNoop discards the assigned value (the _ target).
	AssignNoop AssignTargetKind = iota
	// AssignInternal assigns a local variable, optionally at a path.
	AssignInternal
	// AssignExternal assigns an event or metadata path.
	AssignExternal
)

// AssignTarget is one left-hand side of an assignment.
type AssignTarget struct {
	Kind   AssignTargetKind
	Ident  string      // for AssignInternal
	Prefix path.Prefix // for AssignExternal
	Path   path.Path
	Span   diagnostic.Span
}

// AssignmentNode is a single or infallible assignment. For the infallible
// form `ok, err = expr` both targets are set; otherwise Err is nil.
type AssignmentNode struct {
	nodeSpan
	Target AssignTarget
	Err    *AssignTarget
	Expr   Node
}

// AbortNode aborts the program, optionally with a message expression.
type AbortNode struct {
	nodeSpan
	Message Node
}

// ReturnNode terminates the program early with the given value.
type ReturnNode struct {
	nodeSpan
	Expr Node
}
