package expression

import (
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// IfStatement is an if/else-if/else conditional. Alternative is nil when no
// else branch exists, in which case a false predicate yields null.
type IfStatement struct {
	Predicate   Expression
	Consequent  Expression
	Alternative Expression
	Span        diagnostic.Span
}

// Resolve implements Expression.
func (i *IfStatement) Resolve(ctx *Context) (value.Value, error) {
	cond, err := i.Predicate.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	b, err := value.AsBoolean(cond)
	if err != nil {
		return nil, NewError(i.Span, "if-statement predicate resolved to a non-boolean value")
	}

	if b {
		return i.Consequent.Resolve(ctx)
	}
	if i.Alternative != nil {
		return i.Alternative.Resolve(ctx)
	}
	return value.Null{}, nil
}

// TypeInfo implements Expression.
func (i *IfStatement) TypeInfo(st state.TypeState) state.TypeInfo {
	predInfo := i.Predicate.TypeInfo(st)

	consInfo := i.Consequent.TypeInfo(predInfo.State.Clone())
	result := consInfo.Result

	if i.Alternative != nil {
		altInfo := i.Alternative.TypeInfo(predInfo.State.Clone())
		merged := consInfo.State.Merge(altInfo.State)
		result = result.Union(altInfo.Result)
		return state.NewTypeInfo(merged, withPredicate(result, predInfo))
	}

	// Either branch may not run, so the state after the conditional is the
	// union of taking and skipping it.
	merged := predInfo.State.Merge(consInfo.State)
	return state.NewTypeInfo(merged, withPredicate(result.OrNull(), predInfo))
}

func withPredicate(result types.TypeDef, predInfo state.TypeInfo) types.TypeDef {
	out := result
	if predInfo.Result.IsFallible() {
		out = out.Fallible()
	}
	if !predInfo.Result.IsPure() {
		out = out.Impure()
	}
	return out.AddReturns(predInfo.Result.Returns())
}
