package compiler

import (
	"regexp"
	"time"

	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/parser"
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Compile lowers a parsed program against the default type state.
func Compile(root *parser.Program, fns []expression.Function) (*CompilationResult, diagnostic.DiagnosticList) {
	return CompileWithState(root, fns, state.NewTypeState(), expression.NewCompileConfig())
}

// CompileWithState lowers a parsed program. The given state seeds what the
// compiler knows about the external target and pre-bound variables; the
// config controls read-only paths and the unused result check.
//
// On failure the returned list holds at least one error diagnostic and the
// result is nil. On success it holds only warnings, which are also attached
// to the result.
func CompileWithState(root *parser.Program, fns []expression.Function, st state.TypeState, config *expression.CompileConfig) (*CompilationResult, diagnostic.DiagnosticList) {
	if config == nil {
		config = expression.NewCompileConfig()
	}

	c := &compiler{
		fns:    make(map[string]expression.Function, len(fns)),
		config: config,
		st:     st.Clone(),
	}
	for _, fn := range fns {
		c.fns[fn.Identifier()] = fn
		c.names = append(c.names, fn.Identifier())
	}

	program := c.compileProgram(root)
	if c.diags.HasErrors() {
		return nil, c.diags
	}
	return &CompilationResult{Program: program, Warnings: c.diags.Warnings()}, c.diags.Warnings()
}

type compiler struct {
	fns    map[string]expression.Function
	names  []string
	config *expression.CompileConfig
	st     state.TypeState
	diags  diagnostic.DiagnosticList
}

func (c *compiler) fail(err *compileError) {
	c.diags = append(c.diags, diagnostic.FromMessage(diagnostic.SeverityError, err))
}

func (c *compiler) warn(err *compileError) {
	c.diags = append(c.diags, diagnostic.FromMessage(diagnostic.SeverityWarning, err))
}

func (c *compiler) compileProgram(root *parser.Program) *Program {
	program := &Program{info: state.NewTypeInfo(c.st, types.NullDef())}

	// Any statement may return early, not just the last one; the program's
	// returns kind is the union across all of them.
	returns := types.Never()

	for i, node := range root.Exprs {
		expr, info := c.compileStatement(node)
		program.exprs = append(program.exprs, expr)
		returns = returns.Union(info.Result.Returns())
		program.info = info

		if info.Result.IsFallible() {
			c.fail(errUnhandledFallible(node.Span()))
		}
		if c.config.CheckUnused() && i < len(root.Exprs)-1 {
			c.checkUnused(expr, info, node.Span())
		}
	}
	program.info.Result = program.info.Result.WithReturns(returns)
	return program
}

// compileStatement lowers one statement and advances the type state past
// it.
func (c *compiler) compileStatement(node parser.Node) (expression.Expression, state.TypeInfo) {
	st0 := c.st.Clone()
	expr := c.compileExpr(node)
	info := expr.TypeInfo(st0)
	c.st = info.State
	return expr, info
}

// checkUnused flags statements whose pure result is discarded. Only plain
// value-producing forms are considered; conditionals and blocks are assumed
// to be evaluated for their side effects.
func (c *compiler) checkUnused(expr expression.Expression, info state.TypeInfo, span diagnostic.Span) {
	if !info.Result.IsPure() {
		return
	}
	switch expr.(type) {
	case *expression.Literal, *expression.Variable, *expression.Query,
		*expression.Op, *expression.Array, *expression.Object,
		*expression.FunctionCall:
		c.warn(warnUnusedResult(span))
	}
}

// compileExpr lowers a node. Lowering never fails outright: nodes that
// cannot compile report a diagnostic and lower to Noop, letting the
// compiler surface every error in one pass.
func (c *compiler) compileExpr(node parser.Node) expression.Expression {
	switch n := node.(type) {
	case *parser.StringLit:
		return expression.NewLiteral(value.Bytes(n.Value))
	case *parser.RawStringLit:
		return expression.NewLiteral(value.Bytes(n.Value))
	case *parser.IntegerLit:
		return expression.NewLiteral(value.Integer(n.Value))
	case *parser.FloatLit:
		return expression.NewLiteral(value.FromFloat64OrZero(n.Value))
	case *parser.BooleanLit:
		return expression.NewLiteral(value.Boolean(n.Value))
	case *parser.NullLit:
		return expression.NewLiteral(value.Null{})
	case *parser.RegexLit:
		return c.compileRegex(n)
	case *parser.TimestampLit:
		return c.compileTimestamp(n)
	case *parser.ArrayLit:
		return c.compileArray(n)
	case *parser.ObjectLit:
		return c.compileObject(n)
	case *parser.Block:
		return c.compileBlock(n)
	case *parser.Group:
		return c.compileExpr(n.Expr)
	case *parser.IfNode:
		return c.compileIf(n)
	case *parser.OpNode:
		return c.compileOp(n)
	case *parser.UnaryNode:
		return c.compileUnary(n)
	case *parser.QueryNode:
		return c.compileQuery(n)
	case *parser.VariableNode:
		return c.compileVariable(n)
	case *parser.AssignmentNode:
		return c.compileAssignment(n)
	case *parser.CallNode:
		return c.compileCall(n)
	case *parser.AbortNode:
		return c.compileAbort(n)
	case *parser.ReturnNode:
		return c.compileReturn(n)
	}
	c.fail(&compileError{
		code:    parser.ErrSyntax,
		message: "unsupported expression",
		labels:  []diagnostic.Label{diagnostic.NewPrimaryLabel("unsupported expression", node.Span())},
	})
	return expression.Noop{}
}

func (c *compiler) compileRegex(n *parser.RegexLit) expression.Expression {
	re, err := regexp.Compile(n.Pattern)
	if err != nil {
		c.fail(&compileError{
			code:    parser.ErrSyntax,
			message: "invalid regular expression",
			labels:  []diagnostic.Label{diagnostic.Primaryf(n.Span(), "%s", err)},
		})
		return expression.Noop{}
	}
	return expression.NewLiteral(value.NewRegex(re))
}

func (c *compiler) compileTimestamp(n *parser.TimestampLit) expression.Expression {
	t, err := time.Parse(time.RFC3339Nano, n.Value)
	if err != nil {
		c.fail(&compileError{
			code:    parser.ErrSyntax,
			message: "invalid timestamp literal",
			labels:  []diagnostic.Label{diagnostic.Primaryf(n.Span(), "%s", err)},
		})
		return expression.Noop{}
	}
	return expression.NewLiteral(value.NewTimestamp(t))
}

func (c *compiler) compileArray(n *parser.ArrayLit) expression.Expression {
	out := &expression.Array{Items: make([]expression.Expression, len(n.Items))}
	for i, item := range n.Items {
		out.Items[i] = c.compileExpr(item)
	}
	return out
}

func (c *compiler) compileObject(n *parser.ObjectLit) expression.Expression {
	out := &expression.Object{}
	for _, entry := range n.Entries {
		out.Keys = append(out.Keys, entry.Key)
		out.Values = append(out.Values, c.compileExpr(entry.Value))
	}
	return out
}

func (c *compiler) compileBlock(n *parser.Block) *expression.Block {
	parent := c.st.Clone()
	out := &expression.Block{}

	for i, stmt := range n.Exprs {
		expr, info := c.compileStatement(stmt)
		out.Exprs = append(out.Exprs, expr)

		// All but the last statement must handle their own errors; the
		// last one's fallibility is the block's, checked by the caller.
		if i < len(n.Exprs)-1 && info.Result.IsFallible() {
			c.fail(errUnhandledFallible(stmt.Span()))
		}
	}

	c.st.Local = parent.Local.ApplyChildScope(c.st.Local)
	return out
}

func (c *compiler) compileIf(n *parser.IfNode) expression.Expression {
	predicate, predInfo := c.compileStatement(n.Predicate)
	if !types.Boolean().IsSuperset(predInfo.Result.Kind()) {
		c.fail(errNonBooleanPredicate(predInfo.Result.Kind(), n.Predicate.Span()))
	}
	if predInfo.Result.IsFallible() {
		c.fail(errUnhandledFallible(n.Predicate.Span()))
	}

	branchState := c.st.Clone()
	consequent := c.compileBlock(n.Consequent)

	var alternative expression.Expression
	if n.Alternative != nil {
		c.st = branchState.Clone()
		alternative = c.compileExpr(n.Alternative)
	}
	c.st = branchState

	return &expression.IfStatement{
		Predicate:   predicate,
		Consequent:  consequent,
		Alternative: alternative,
		Span:        n.Span(),
	}
}

var binaryOps = map[parser.OpKind]expression.BinaryOp{
	parser.OpMul: expression.OpMul,
	parser.OpDiv: expression.OpDiv,
	parser.OpRem: expression.OpRem,
	parser.OpAdd: expression.OpAdd,
	parser.OpSub: expression.OpSub,
	parser.OpLt:  expression.OpLt,
	parser.OpLe:  expression.OpLe,
	parser.OpGt:  expression.OpGt,
	parser.OpGe:  expression.OpGe,
	parser.OpEq:  expression.OpEq,
	parser.OpNe:  expression.OpNe,
	parser.OpAnd: expression.OpAnd,
	parser.OpOr:  expression.OpOr,
	parser.OpErr: expression.OpErr,
}

func (c *compiler) compileOp(n *parser.OpNode) expression.Expression {
	lhs := c.compileExpr(n.Left)
	rhs := c.compileExpr(n.Right)
	return &expression.Op{
		Op:   binaryOps[n.Op],
		Lhs:  lhs,
		Rhs:  rhs,
		Span: n.Span(),
	}
}

func (c *compiler) compileUnary(n *parser.UnaryNode) expression.Expression {
	expr := c.compileExpr(n.Expr)
	kind := expr.TypeInfo(c.st).Result.Kind()

	switch n.Op {
	case parser.UnaryNot:
		if !kind.ContainsBoolean() {
			c.fail(errNonBooleanNegation(kind, n.Expr.Span()))
		}
		return &expression.Not{Expr: expr, Span: n.Span()}
	default:
		if !kind.ContainsInteger() && !kind.ContainsBytes() {
			c.fail(errBitwiseNotOperand(kind, n.Expr.Span()))
		}
		return &expression.BitwiseNot{Expr: expr, Span: n.Span()}
	}
}

func (c *compiler) compileQuery(n *parser.QueryNode) expression.Expression {
	out := &expression.Query{Path: n.Path, Span: n.Span()}

	switch n.Target {
	case parser.TargetExternal:
		out.External = true
		out.Prefix = n.Prefix
	case parser.TargetInternal:
		out.Inner = c.compileVariableIdent(n.Ident, n.Span())
	case parser.TargetContainer:
		out.Inner = c.compileExpr(n.Container)
	case parser.TargetFunctionCall:
		out.Inner = c.compileExpr(n.Call)
	}
	return out
}

func (c *compiler) compileVariable(n *parser.VariableNode) expression.Expression {
	return c.compileVariableIdent(n.Ident, n.Span())
}

func (c *compiler) compileVariableIdent(ident string, span diagnostic.Span) expression.Expression {
	if _, ok := c.st.Local.Variable(ident); !ok {
		c.fail(errUndefinedVariable(ident, c.st.Local.VariableIdents(), span))
		return expression.Noop{}
	}
	return &expression.Variable{Ident: ident, Span: span}
}

func (c *compiler) compileAssignTarget(t parser.AssignTarget) expression.AssignTarget {
	out := expression.AssignTarget{Path: t.Path, Span: t.Span}
	switch t.Kind {
	case parser.AssignNoop:
		out.Kind = expression.AssignNoop
	case parser.AssignInternal:
		out.Kind = expression.AssignInternal
		out.Ident = t.Ident
	case parser.AssignExternal:
		out.Kind = expression.AssignExternal
		out.Prefix = t.Prefix
		target := path.TargetPath{Prefix: t.Prefix, Path: t.Path}
		if c.config.IsReadOnlyPath(target) {
			c.fail(errReadOnlyAssignment(target.String(), t.Span))
		}
	}
	return out
}

func (c *compiler) compileAssignment(n *parser.AssignmentNode) expression.Expression {
	expr := c.compileExpr(n.Expr)
	info := expr.TypeInfo(c.st)

	target := c.compileAssignTarget(n.Target)

	if n.Err == nil {
		if info.Result.IsFallible() {
			c.fail(errUnhandledFallible(n.Expr.Span()))
		}
		single := &expression.SingleAssignment{Target: target, Expr: expr, Span: n.Span()}
		// Advance the state so later expressions in the same statement see
		// the binding.
		c.st = single.TypeInfo(c.st).State
		return single
	}

	if !info.Result.IsFallible() {
		c.fail(errUnneededErrAssign(n.Expr.Span()))
	}
	errTarget := c.compileAssignTarget(*n.Err)
	infallible := &expression.InfallibleAssignment{
		Ok:   target,
		Err:  errTarget,
		Expr: expr,
		Span: n.Span(),
	}
	c.st = infallible.TypeInfo(c.st).State
	return infallible
}

func (c *compiler) compileAbort(n *parser.AbortNode) expression.Expression {
	out := &expression.Abort{Span: n.Span()}
	if n.Message != nil {
		msg := c.compileExpr(n.Message)
		info := msg.TypeInfo(c.st)
		if !info.Result.Kind().ContainsBytes() {
			c.fail(errAbortMessage(info.Result.Kind(), n.Message.Span()))
		}
		if info.Result.IsFallible() {
			c.fail(errUnhandledFallible(n.Message.Span()))
		}
		out.Message = msg
	}
	return out
}

func (c *compiler) compileReturn(n *parser.ReturnNode) expression.Expression {
	expr := c.compileExpr(n.Expr)
	info := expr.TypeInfo(c.st)
	if info.Result.IsFallible() {
		c.fail(errFallibleReturn(n.Expr.Span()))
	}
	return &expression.Return{Expr: expr, Span: n.Span()}
}
