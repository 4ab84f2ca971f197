// Package expression implements the compiled expression tree: each variant
// knows how to resolve itself against a runtime context and how to describe
// its compile-time type behavior.
package expression

import (
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/value"
)

// Expression is a compiled program fragment.
//
// Resolve evaluates the expression against the runtime context. TypeInfo
// reports, given the type state before the expression runs, the state after
// it and the type definition of its result; implementations must not mutate
// the state they receive.
type Expression interface {
	Resolve(ctx *Context) (value.Value, error)
	TypeInfo(st state.TypeState) state.TypeInfo
}

// Constant is implemented by expressions whose value is known at compile
// time. The compiler uses it to fold literals and validate static arguments.
type Constant interface {
	ResolveConstant(st state.TypeState) (value.Value, bool)
}

// ResolveConstant returns the compile-time value of expr, if it has one.
func ResolveConstant(expr Expression, st state.TypeState) (value.Value, bool) {
	c, ok := expr.(Constant)
	if !ok {
		return nil, false
	}
	return c.ResolveConstant(st)
}
