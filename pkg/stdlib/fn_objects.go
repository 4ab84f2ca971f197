package stdlib

import (
	"fmt"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// merge

type merge struct{}

func (merge) Identifier() string { return "merge" }

func (merge) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("to", types.AnyObject(), true),
		param("from", types.AnyObject(), true),
		param("deep", types.Boolean(), false),
	}
}

func (merge) Examples() []expression.Example {
	return []expression.Example{
		{
			Title:  "deep merge",
			Source: `merge({"a": {"b": 1}}, {"a": {"c": 2}}, deep: true)`,
			Result: `{ "a": { "b": 1, "c": 2 } }`,
		},
	}
}

func (merge) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	to := args.Required("to")
	from := args.Required("from")
	deep := optionalExpr(args, "deep")

	toKind := argKind(st, to)
	fromKind := argKind(st, from)

	kind := types.AnyObject()
	if tc, ok := toKind.ObjectCollection(); ok {
		if fc, ok := fromKind.ObjectCollection(); ok {
			kind = types.Object(tc.Union(fc))
		}
	}
	fallible := !types.AnyObject().IsSuperset(toKind) || !types.AnyObject().IsSuperset(fromKind)

	return &fnExpr{
		def: types.DefFromKind(kind).MaybeFallible(fallible),
		run: func(ctx *expression.Context) (value.Value, error) {
			dst, err := resolveObject(ctx, to)
			if err != nil {
				return nil, err
			}
			src, err := resolveObject(ctx, from)
			if err != nil {
				return nil, err
			}
			recurse, err := resolveBoolOr(ctx, deep, false)
			if err != nil {
				return nil, err
			}

			out := value.Clone(dst).(*value.Object)
			mergeObjects(out, src, recurse)
			return out, nil
		},
	}, nil
}

func mergeObjects(dst, src *value.Object, deep bool) {
	src.Scan(func(key string, v value.Value) bool {
		if deep {
			if prev, ok := dst.Get(key); ok {
				if dstChild, ok := prev.(*value.Object); ok {
					if srcChild, ok := v.(*value.Object); ok {
						mergeObjects(dstChild, srcChild, true)
						return true
					}
				}
			}
		}
		dst.Set(key, value.Clone(v))
		return true
	})
}

// flatten

type flatten struct{}

func (flatten) Identifier() string { return "flatten" }

func (flatten) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.AnyObject().Union(types.AnyArray()), true),
		param("separator", types.Bytes(), false),
	}
}

func (flatten) Examples() []expression.Example {
	return []expression.Example{
		{
			Title:  "nested object",
			Source: `flatten({"p": {"c1": 1, "c2": 2}})`,
			Result: `{ "p.c1": 1, "p.c2": 2 }`,
		},
	}
}

func (flatten) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	separator := optionalExpr(args, "separator")

	collections := types.AnyObject().Union(types.AnyArray())
	kind := argKind(st, arg)

	out := types.Never()
	if kind.ContainsObject() {
		out = out.Union(types.AnyObject())
	}
	if kind.ContainsArray() {
		out = out.Union(types.AnyArray())
	}
	if out.IsNever() {
		out = collections
	}

	return &fnExpr{
		def: types.DefFromKind(out).MaybeFallible(!collections.IsSuperset(kind)),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			sep, err := resolveStringOr(ctx, separator, ".")
			if err != nil {
				return nil, err
			}

			switch t := v.(type) {
			case *value.Object:
				flat := value.NewObject()
				flattenObject("", t, sep, flat)
				return flat, nil
			case *value.Array:
				return value.NewArray(flattenArray(t, nil)...), nil
			}
			return nil, fmt.Errorf("unable to flatten %s", v.Type())
		},
	}, nil
}

func flattenObject(prefix string, o *value.Object, sep string, out *value.Object) {
	o.Scan(func(key string, v value.Value) bool {
		full := key
		if prefix != "" {
			full = prefix + sep + key
		}
		if child, ok := v.(*value.Object); ok && child.Len() > 0 {
			flattenObject(full, child, sep, out)
		} else {
			out.Set(full, v)
		}
		return true
	})
}

func flattenArray(a *value.Array, out []value.Value) []value.Value {
	for _, item := range a.Items {
		if child, ok := item.(*value.Array); ok {
			out = flattenArray(child, out)
		} else {
			out = append(out, item)
		}
	}
	return out
}

// keys

type keys struct{}

func (keys) Identifier() string { return "keys" }

func (keys) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.AnyObject(), true)}
}

func (keys) Examples() []expression.Example { return noExamples }

func (keys) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	coll := types.EmptyCollection[int]()
	coll.SetUnknown(types.Bytes())

	return &fnExpr{
		def: types.ArrayDef(coll),
		run: func(ctx *expression.Context) (value.Value, error) {
			obj, err := resolveObject(ctx, arg)
			if err != nil {
				return nil, err
			}
			items := make([]value.Value, 0, obj.Len())
			for _, key := range obj.Keys() {
				items = append(items, value.Bytes(key))
			}
			return value.NewArray(items...), nil
		},
	}, nil
}

// values

type values struct{}

func (values) Identifier() string { return "values" }

func (values) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.AnyObject(), true)}
}

func (values) Examples() []expression.Example { return noExamples }

func (values) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	return &fnExpr{
		def: types.ArrayDef(types.AnyCollection[int]()),
		run: func(ctx *expression.Context) (value.Value, error) {
			obj, err := resolveObject(ctx, arg)
			if err != nil {
				return nil, err
			}
			items := make([]value.Value, 0, obj.Len())
			obj.Scan(func(_ string, v value.Value) bool {
				items = append(items, v)
				return true
			})
			return value.NewArray(items...), nil
		},
	}, nil
}
