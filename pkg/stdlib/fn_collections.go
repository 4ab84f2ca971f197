package stdlib

import (
	"fmt"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// length

type length struct{}

func (length) Identifier() string { return "length" }

func (length) Parameters() []expression.Parameter {
	kind := types.Bytes().Union(types.AnyObject()).Union(types.AnyArray())
	return []expression.Parameter{param("value", kind, true)}
}

func (length) Examples() []expression.Example { return noExamples }

func (length) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	return &fnExpr{
		def: types.IntegerDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			switch t := v.(type) {
			case value.Bytes:
				return value.Integer(len(t)), nil
			case *value.Array:
				return value.Integer(t.Len()), nil
			case *value.Object:
				return value.Integer(t.Len()), nil
			}
			return nil, fmt.Errorf("unable to take the length of %s", v.Type())
		},
	}, nil
}

// slice

type slice struct{}

func (slice) Identifier() string { return "slice" }

func (slice) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.Bytes().Union(types.AnyArray()), true),
		param("start", types.Integer(), true),
		param("end", types.Integer(), false),
	}
}

func (slice) Examples() []expression.Example { return noExamples }

func (slice) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	start := args.Required("start")
	end := optionalExpr(args, "end")

	kind := argKind(st, arg)
	out := types.Never()
	if kind.ContainsBytes() {
		out = out.Union(types.Bytes())
	}
	if kind.ContainsArray() {
		out = out.Union(types.AnyArray())
	}
	if out.IsNever() {
		out = types.Bytes().Union(types.AnyArray())
	}

	return &fnExpr{
		def: types.DefFromKind(out).Fallible(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			from, err := resolveInt(ctx, start)
			if err != nil {
				return nil, err
			}

			switch t := v.(type) {
			case value.Bytes:
				to, err := resolveIntOr(ctx, end, int64(len(t)))
				if err != nil {
					return nil, err
				}
				lo, hi, err := sliceBounds(from, to, int64(len(t)))
				if err != nil {
					return nil, err
				}
				return t[lo:hi], nil
			case *value.Array:
				to, err := resolveIntOr(ctx, end, int64(t.Len()))
				if err != nil {
					return nil, err
				}
				lo, hi, err := sliceBounds(from, to, int64(t.Len()))
				if err != nil {
					return nil, err
				}
				return value.NewArray(t.Items[lo:hi]...), nil
			}
			return nil, fmt.Errorf("unable to slice %s", v.Type())
		},
	}, nil
}

// sliceBounds normalizes negative indices (counted from the end) and
// validates the resulting range.
func sliceBounds(start, end, length int64) (int64, int64, error) {
	if start < 0 {
		start += length
	}
	if end < 0 {
		end += length
	}
	if end > length {
		end = length
	}
	if start < 0 || start > length {
		return 0, 0, fmt.Errorf("slice start index %d out of range", start)
	}
	if end < start {
		return 0, 0, fmt.Errorf("slice end index %d precedes start index %d", end, start)
	}
	return start, end, nil
}

// push

type push struct{}

func (push) Identifier() string { return "push" }

func (push) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.AnyArray(), true),
		param("item", types.Any(), true),
	}
}

func (push) Examples() []expression.Example { return noExamples }

func (push) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	item := args.Required("item")

	fallible := !types.AnyArray().IsSuperset(argKind(st, arg))

	return &fnExpr{
		def: types.ArrayDef(types.AnyCollection[int]()).MaybeFallible(fallible),
		run: func(ctx *expression.Context) (value.Value, error) {
			arr, err := resolveArray(ctx, arg)
			if err != nil {
				return nil, err
			}
			v, err := item.Resolve(ctx)
			if err != nil {
				return nil, err
			}

			items := make([]value.Value, 0, arr.Len()+1)
			items = append(items, arr.Items...)
			items = append(items, v)
			return value.NewArray(items...), nil
		},
	}, nil
}
