package expression

import (
	"errors"
	"fmt"

	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/value"
)

// Closure is a compiled trailing closure. The runtime binds its variables
// into the shared variable store for the duration of each invocation,
// shadowing and then restoring any existing bindings.
type Closure struct {
	Variables []string
	Block     Expression
}

// Run invokes the closure with the given arguments, one per closure
// variable. A return inside the closure ends only that invocation.
func (c *Closure) Run(ctx *Context, args ...value.Value) (value.Value, error) {
	if len(args) != len(c.Variables) {
		return nil, fmt.Errorf("closure expects %d arguments, got %d", len(c.Variables), len(args))
	}

	type saved struct {
		ident string
		value value.Value
		bound bool
	}
	shadowed := make([]saved, len(c.Variables))
	for i, ident := range c.Variables {
		prev, ok := ctx.State().SwapVariable(ident, args[i])
		shadowed[i] = saved{ident: ident, value: prev, bound: ok}
	}

	v, err := c.Block.Resolve(ctx)

	for i := len(shadowed) - 1; i >= 0; i-- {
		s := shadowed[i]
		if s.bound {
			ctx.State().InsertVariable(s.ident, s.value)
		} else {
			ctx.State().RemoveVariable(s.ident)
		}
	}

	if err != nil {
		var ret *ReturnSignal
		if errors.As(err, &ret) {
			return ret.Value, nil
		}
		return nil, err
	}
	return v, nil
}

// TypeInfo returns the closure body's type information given the kinds its
// variables will be bound with.
func (c *Closure) TypeInfo(st state.TypeState, variables []state.Details) state.TypeInfo {
	inner := st.Clone()
	for i, ident := range c.Variables {
		if i < len(variables) {
			inner.Local.InsertVariable(ident, variables[i])
		}
	}
	info := c.Block.TypeInfo(inner)

	// Closure-scoped bindings do not leak.
	out := info.State
	out.Local = st.Local.ApplyChildScope(out.Local)
	return state.NewTypeInfo(out, info.Result)
}
