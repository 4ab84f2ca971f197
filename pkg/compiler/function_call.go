package compiler

import (
	"fmt"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/parser"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
)

func (c *compiler) compileCall(n *parser.CallNode) expression.Expression {
	fn, ok := c.fns[n.Ident]
	if !ok {
		c.fail(errUndefinedFunction(n.Ident, c.names, n.Span()))
		return expression.Noop{}
	}
	params := fn.Parameters()

	// Bind positional and keyword arguments to parameter keywords.
	bound := make(map[string]expression.Expression, len(n.Args))
	kinds := make(map[string]types.Kind, len(n.Args))
	positional := 0
	guard := false

	for _, arg := range n.Args {
		keyword := arg.Name
		if keyword == "" {
			if positional >= len(params) {
				c.fail(errTooManyArguments(n.Ident, len(params), arg.Span))
				return expression.Noop{}
			}
			keyword = params[positional].Keyword
			positional++
		}

		param, ok := lookupParameter(params, keyword)
		if !ok {
			c.fail(errUnknownKeyword(n.Ident, keyword, arg.Span))
			return expression.Noop{}
		}

		expr := c.compileExpr(arg.Expr)
		info := expr.TypeInfo(c.st)
		c.st = info.State

		kind := info.Result.Kind()
		if !param.Kind.IsSuperset(kind) {
			if !overlaps(param.Kind, kind) {
				c.fail(errInvalidArgumentKind(n.Ident, keyword, param.Kind, kind, arg.Span))
				return expression.Noop{}
			}
			// The argument only sometimes matches; the call gains a runtime
			// type check and with it fallibility.
			guard = true
		}
		if info.Result.IsFallible() {
			c.fail(errUnhandledFallible(arg.Span))
		}

		bound[keyword] = expr
		kinds[keyword] = kind
	}

	for _, param := range params {
		if param.Required {
			if _, ok := bound[param.Keyword]; !ok {
				c.fail(errRequiredArgument(n.Ident, param.Keyword, n.Span()))
				return expression.Noop{}
			}
		}
	}

	closure, ok := c.compileCallClosure(fn, n)
	if !ok {
		return expression.Noop{}
	}

	args := expression.NewArgumentList(bound, closure, c.st.Clone())
	fnCtx := &expression.FunctionCompileContext{Span: n.Span(), Config: c.config}

	impl, err := fn.Compile(&c.st, fnCtx, args)
	if err != nil {
		c.fail(errFunctionCompile(n.Ident, err, n.Span()))
		return expression.Noop{}
	}

	def := impl.TypeInfo(c.st.Clone()).Result
	if guard {
		def = def.Fallible()
	}
	if n.Abort {
		if !def.IsFallible() {
			c.fail(errAbortInfallible(n.Ident, n.Span()))
		}
		def = def.Infallible()
	}

	return &expression.FunctionCall{
		Ident: n.Ident,
		Abort: n.Abort,
		Expr:  impl,
		Def:   def,
		Span:  n.Span(),
	}
}

// compileCallClosure validates and lowers a call's trailing closure.
func (c *compiler) compileCallClosure(fn expression.Function, n *parser.CallNode) (*expression.Closure, bool) {
	closureFn, accepts := fn.(expression.ClosureFunction)

	if n.Closure == nil {
		if accepts && closureFn.ClosureSpec().Required {
			c.fail(errClosure(n.Ident, fmt.Sprintf("%q requires a closure", n.Ident), n.Span()))
			return nil, false
		}
		return nil, true
	}
	if !accepts {
		c.fail(errClosure(n.Ident, fmt.Sprintf("%q takes no closure", n.Ident), n.Closure.Span()))
		return nil, false
	}

	spec := closureFn.ClosureSpec()
	if len(n.Closure.Params) != spec.Variables {
		c.fail(errClosure(n.Ident,
			fmt.Sprintf("closure must bind %d variables, binds %d", spec.Variables, len(n.Closure.Params)),
			n.Closure.Span()))
		return nil, false
	}

	// The closure body compiles with its variables in scope; the function
	// determines their concrete kinds per invocation, so they compile as
	// any.
	parent := c.st
	c.st = c.st.Clone()
	for _, ident := range n.Closure.Params {
		c.st.Local.InsertVariable(ident, state.Details{Type: types.AnyDef()})
	}
	block := c.compileBlock(n.Closure.Block)
	c.st = parent

	return &expression.Closure{Variables: n.Closure.Params, Block: block}, true
}

func lookupParameter(params []expression.Parameter, keyword string) (expression.Parameter, bool) {
	for _, p := range params {
		if p.Keyword == keyword {
			return p, true
		}
	}
	return expression.Parameter{}, false
}

// overlaps reports whether two kinds share at least one possible shape.
func overlaps(a, b types.Kind) bool {
	switch {
	case a.ContainsBytes() && b.ContainsBytes(),
		a.ContainsInteger() && b.ContainsInteger(),
		a.ContainsFloat() && b.ContainsFloat(),
		a.ContainsBoolean() && b.ContainsBoolean(),
		a.ContainsTimestamp() && b.ContainsTimestamp(),
		a.ContainsRegex() && b.ContainsRegex(),
		a.ContainsNull() && b.ContainsNull(),
		a.ContainsUndefined() && b.ContainsUndefined(),
		a.ContainsObject() && b.ContainsObject(),
		a.ContainsArray() && b.ContainsArray():
		return true
	}
	return false
}
