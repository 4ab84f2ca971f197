package expression

import (
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Not is the boolean negation operator.
type Not struct {
	Expr Expression
	Span diagnostic.Span
}

// Resolve implements Expression.
func (n *Not) Resolve(ctx *Context) (value.Value, error) {
	v, err := n.Expr.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	b, err := value.AsBoolean(v)
	if err != nil {
		return nil, NewError(n.Span, "can't negate a non-boolean value (got %s)", v.Type())
	}
	return value.Boolean(!b), nil
}

// TypeInfo implements Expression.
func (n *Not) TypeInfo(st state.TypeState) state.TypeInfo {
	info := n.Expr.TypeInfo(st)
	def := types.BooleanDef().
		WithFallibility(info.Result.Fallibility()).
		WithReturns(info.Result.Returns())
	if !info.Result.IsPure() {
		def = def.Impure()
	}
	// Negating anything but a boolean fails at runtime.
	if !types.Boolean().IsSuperset(info.Result.Kind()) {
		def = def.Fallible()
	}
	return state.NewTypeInfo(info.State, def)
}

// BitwiseNot is the ~ operator over integers (and integer-like strings).
type BitwiseNot struct {
	Expr Expression
	Span diagnostic.Span
}

// Resolve implements Expression.
func (n *BitwiseNot) Resolve(ctx *Context) (value.Value, error) {
	v, err := n.Expr.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	out, err := value.BitwiseNot(v)
	if err != nil {
		return nil, NewError(n.Span, "%s", err)
	}
	return out, nil
}

// TypeInfo implements Expression.
func (n *BitwiseNot) TypeInfo(st state.TypeState) state.TypeInfo {
	info := n.Expr.TypeInfo(st)
	def := types.IntegerDef().
		WithFallibility(info.Result.Fallibility()).
		WithReturns(info.Result.Returns())
	if !info.Result.IsPure() {
		def = def.Impure()
	}
	operand := types.Integer().OrBytes()
	if !operand.IsSuperset(info.Result.Kind()) {
		def = def.Fallible()
	} else if info.Result.Kind().ContainsBytes() {
		// Strings must parse as integers at runtime.
		def = def.Fallible()
	}
	return state.NewTypeInfo(info.State, def)
}
