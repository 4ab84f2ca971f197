package expression

import (
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Abort terminates the program and marks the event as discarded. The
// optional message must resolve to a string.
type Abort struct {
	Message Expression
	Span    diagnostic.Span
}

// Resolve implements Expression.
func (a *Abort) Resolve(ctx *Context) (value.Value, error) {
	reason := ""
	if a.Message != nil {
		v, err := a.Message.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		s, err := value.AsString(v)
		if err != nil {
			return nil, NewError(a.Span, "abort message resolved to a non-string value")
		}
		reason = s
	}
	return nil, &AbortError{Span: a.Span, Reason: reason}
}

// TypeInfo implements Expression.
func (a *Abort) TypeInfo(st state.TypeState) state.TypeInfo {
	if a.Message != nil {
		info := a.Message.TypeInfo(st)
		st = info.State
	}
	return state.NewTypeInfo(st, types.NeverDef())
}

// Return terminates the program early, completing with the given value.
type Return struct {
	Expr Expression
	Span diagnostic.Span
}

// Resolve implements Expression.
func (r *Return) Resolve(ctx *Context) (value.Value, error) {
	v, err := r.Expr.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return nil, &ReturnSignal{Value: v}
}

// TypeInfo implements Expression.
func (r *Return) TypeInfo(st state.TypeState) state.TypeInfo {
	info := r.Expr.TypeInfo(st)
	def := types.NeverDef().
		WithFallibility(info.Result.Fallibility()).
		WithReturns(info.Result.Returns().Union(info.Result.Kind()))
	if !info.Result.IsPure() {
		def = def.Impure()
	}
	return state.NewTypeInfo(info.State, def)
}

// Noop resolves to null and has no effect. The `_` assignment target
// compiles to it when the whole assignment is a no-op.
type Noop struct{}

// Resolve implements Expression.
func (Noop) Resolve(*Context) (value.Value, error) { return value.Null{}, nil }

// TypeInfo implements Expression.
func (Noop) TypeInfo(st state.TypeState) state.TypeInfo {
	return state.NewTypeInfo(st, types.NullDef())
}
