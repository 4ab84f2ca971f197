package stdlib

import (
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

func param(keyword string, kind types.Kind, required bool) expression.Parameter {
	return expression.Parameter{Keyword: keyword, Kind: kind, Required: required}
}

// optionalExpr flattens the (expression, ok) pair of an optional argument
// into a nil-able expression, which resolution closures capture directly.
func optionalExpr(args expression.ArgumentList, keyword string) expression.Expression {
	e, ok := args.Optional(keyword)
	if !ok {
		return nil
	}
	return e
}

// argKind returns the compile-time kind of an argument without advancing the
// compiler's state.
func argKind(st *state.TypeState, e expression.Expression) types.Kind {
	return e.TypeInfo(st.Clone()).Result.Kind()
}

func resolveString(ctx *expression.Context, e expression.Expression) (string, error) {
	v, err := e.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return value.AsString(v)
}

func resolveInt(ctx *expression.Context, e expression.Expression) (int64, error) {
	v, err := e.Resolve(ctx)
	if err != nil {
		return 0, err
	}
	return value.AsInteger(v)
}

func resolveObject(ctx *expression.Context, e expression.Expression) (*value.Object, error) {
	v, err := e.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return value.AsObject(v)
}

func resolveArray(ctx *expression.Context, e expression.Expression) (*value.Array, error) {
	v, err := e.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return value.AsArray(v)
}

// resolveBoolOr resolves an optional boolean argument, falling back when the
// argument was not given.
func resolveBoolOr(ctx *expression.Context, e expression.Expression, fallback bool) (bool, error) {
	if e == nil {
		return fallback, nil
	}
	v, err := e.Resolve(ctx)
	if err != nil {
		return false, err
	}
	return value.AsBoolean(v)
}

// resolveIntOr resolves an optional integer argument with a fallback.
func resolveIntOr(ctx *expression.Context, e expression.Expression, fallback int64) (int64, error) {
	if e == nil {
		return fallback, nil
	}
	return resolveInt(ctx, e)
}

// resolveStringOr resolves an optional string argument with a fallback.
func resolveStringOr(ctx *expression.Context, e expression.Expression, fallback string) (string, error) {
	if e == nil {
		return fallback, nil
	}
	return resolveString(ctx, e)
}
