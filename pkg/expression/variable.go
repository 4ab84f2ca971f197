package expression

import (
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Variable is a local variable reference. The compiler rejects references
// to variables that were never assigned, so a missing binding at runtime
// only happens for variables assigned on a branch that did not execute; it
// reads as null.
type Variable struct {
	Ident string
	Span  diagnostic.Span
}

// Resolve implements Expression.
func (v *Variable) Resolve(ctx *Context) (value.Value, error) {
	if val, ok := ctx.State().Variable(v.Ident); ok {
		return val, nil
	}
	return value.Null{}, nil
}

// TypeInfo implements Expression.
func (v *Variable) TypeInfo(st state.TypeState) state.TypeInfo {
	if details, ok := st.Local.Variable(v.Ident); ok {
		return state.NewTypeInfo(st, details.Type.Infallible().WithReturns(types.Never()))
	}
	return state.NewTypeInfo(st, types.NullDef())
}

// ResolveConstant implements Constant.
func (v *Variable) ResolveConstant(st state.TypeState) (value.Value, bool) {
	details, ok := st.Local.Variable(v.Ident)
	if !ok || details.Value == nil {
		return nil, false
	}
	return details.Value, true
}
