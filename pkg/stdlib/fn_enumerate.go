package stdlib

import (
	"fmt"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// closureBodyDef computes the compile-time definition of a closure body
// invoked with any-kinded variables.
func closureBodyDef(st *state.TypeState, closure *expression.Closure, variables int) types.TypeDef {
	details := make([]state.Details, variables)
	for i := range details {
		details[i] = state.Details{Type: types.AnyDef()}
	}
	return closure.TypeInfo(st.Clone(), details).Result
}

// for_each

type forEach struct{}

func (forEach) Identifier() string { return "for_each" }

func (forEach) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.AnyObject().Union(types.AnyArray()), true)}
}

func (forEach) Examples() []expression.Example {
	return []expression.Example{
		{Title: "object", Source: `for_each({"a": 1}) -> |key, v| { log(key) }`, Result: "null"},
	}
}

func (forEach) ClosureSpec() expression.ClosureSpec {
	return expression.ClosureSpec{Variables: 2, Required: true}
}

func (forEach) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	closure, err := args.RequiredClosure()
	if err != nil {
		return nil, err
	}

	body := closureBodyDef(st, closure, 2)
	def := types.NullDef().MaybeFallible(body.IsFallible())
	if !body.IsPure() {
		def = def.Impure()
	}

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			if err := enumerate(ctx, v, closure, func(_ value.Value, _ value.Value) error { return nil }); err != nil {
				return nil, err
			}
			return value.Null{}, nil
		},
	}, nil
}

// enumerate invokes a two-variable closure for every entry of an object
// (key, value) or array (index, element), handing each result to sink.
func enumerate(ctx *expression.Context, v value.Value, closure *expression.Closure, sink func(key, result value.Value) error) error {
	switch t := v.(type) {
	case *value.Object:
		var failed error
		t.Scan(func(key string, member value.Value) bool {
			out, err := closure.Run(ctx, value.Bytes(key), member)
			if err == nil {
				err = sink(value.Bytes(key), out)
			}
			failed = err
			return err == nil
		})
		return failed
	case *value.Array:
		for i, item := range t.Items {
			out, err := closure.Run(ctx, value.Integer(i), item)
			if err == nil {
				err = sink(value.Integer(i), out)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unable to enumerate %s", v.Type())
}

// filter

type filter struct{}

func (filter) Identifier() string { return "filter" }

func (filter) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.AnyObject().Union(types.AnyArray()), true)}
}

func (filter) Examples() []expression.Example {
	return []expression.Example{
		{Title: "array", Source: `filter([1, 2, 3]) -> |_i, v| { v > 1 }`, Result: "[2, 3]"},
	}
}

func (filter) ClosureSpec() expression.ClosureSpec {
	return expression.ClosureSpec{Variables: 2, Required: true}
}

func (filter) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	closure, err := args.RequiredClosure()
	if err != nil {
		return nil, err
	}

	body := closureBodyDef(st, closure, 2)
	fallible := body.IsFallible() || !types.Boolean().IsSuperset(body.Kind())

	def := types.DefFromKind(types.AnyObject().Union(types.AnyArray())).MaybeFallible(fallible)
	if !body.IsPure() {
		def = def.Impure()
	}

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}

			switch t := v.(type) {
			case *value.Object:
				out := value.NewObject()
				err := enumerate(ctx, t, closure, func(key, result value.Value) error {
					keep, err := value.AsBoolean(result)
					if err != nil {
						return fmt.Errorf("filter closure must return a boolean, got %s", result.Type())
					}
					if keep {
						k, _ := value.AsString(key)
						member, _ := t.Get(k)
						out.Set(k, member)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
				return out, nil
			case *value.Array:
				var items []value.Value
				for i, item := range t.Items {
					result, err := closure.Run(ctx, value.Integer(i), item)
					if err != nil {
						return nil, err
					}
					keep, err := value.AsBoolean(result)
					if err != nil {
						return nil, fmt.Errorf("filter closure must return a boolean, got %s", result.Type())
					}
					if keep {
						items = append(items, item)
					}
				}
				return value.NewArray(items...), nil
			}
			return nil, fmt.Errorf("unable to filter %s", v.Type())
		},
	}, nil
}

// fold

type fold struct{}

func (fold) Identifier() string { return "fold" }

func (fold) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.AnyObject().Union(types.AnyArray()), true),
		param("init", types.Any(), true),
	}
}

func (fold) Examples() []expression.Example {
	return []expression.Example{
		{Title: "sum", Source: `fold([1, 2, 3], 0) -> |acc, _i, v| { to_int!(acc) + to_int!(v) }`, Result: "6"},
	}
}

func (fold) ClosureSpec() expression.ClosureSpec {
	return expression.ClosureSpec{Variables: 3, Required: true}
}

func (fold) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	init := args.Required("init")
	closure, err := args.RequiredClosure()
	if err != nil {
		return nil, err
	}

	body := closureBodyDef(st, closure, 3)

	// An empty collection folds to the initial value unchanged.
	def := types.DefFromKind(body.Kind().Union(argKind(st, init))).MaybeFallible(body.IsFallible())
	if !body.IsPure() {
		def = def.Impure()
	}

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			acc, err := init.Resolve(ctx)
			if err != nil {
				return nil, err
			}

			switch t := v.(type) {
			case *value.Object:
				var failed error
				t.Scan(func(key string, member value.Value) bool {
					acc, failed = closure.Run(ctx, acc, value.Bytes(key), member)
					return failed == nil
				})
				if failed != nil {
					return nil, failed
				}
				return acc, nil
			case *value.Array:
				for i, item := range t.Items {
					acc, err = closure.Run(ctx, acc, value.Integer(i), item)
					if err != nil {
						return nil, err
					}
				}
				return acc, nil
			}
			return nil, fmt.Errorf("unable to fold %s", v.Type())
		},
	}, nil
}

// map_keys

type mapKeys struct{}

func (mapKeys) Identifier() string { return "map_keys" }

func (mapKeys) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.AnyObject(), true)}
}

func (mapKeys) Examples() []expression.Example {
	return []expression.Example{
		{Title: "upcase keys", Source: `map_keys({"a": 1}) -> |key| { upcase(key) }`, Result: `{ "A": 1 }`},
	}
}

func (mapKeys) ClosureSpec() expression.ClosureSpec {
	return expression.ClosureSpec{Variables: 1, Required: true}
}

func (mapKeys) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	closure, err := args.RequiredClosure()
	if err != nil {
		return nil, err
	}

	body := closureBodyDef(st, closure, 1)
	fallible := body.IsFallible() || !types.Bytes().IsSuperset(body.Kind())

	def := types.DefFromKind(types.AnyObject()).MaybeFallible(fallible)
	if !body.IsPure() {
		def = def.Impure()
	}

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			obj, err := resolveObject(ctx, arg)
			if err != nil {
				return nil, err
			}

			out := value.NewObject()
			var failed error
			obj.Scan(func(key string, member value.Value) bool {
				mapped, err := closure.Run(ctx, value.Bytes(key))
				if err != nil {
					failed = err
					return false
				}
				k, err := value.AsString(mapped)
				if err != nil {
					failed = fmt.Errorf("map_keys closure must return a string, got %s", mapped.Type())
					return false
				}
				out.Set(k, member)
				return true
			})
			if failed != nil {
				return nil, failed
			}
			return out, nil
		},
	}, nil
}

// map_values

type mapValues struct{}

func (mapValues) Identifier() string { return "map_values" }

func (mapValues) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.AnyObject().Union(types.AnyArray()), true)}
}

func (mapValues) Examples() []expression.Example {
	return []expression.Example{
		{Title: "increment", Source: `map_values([1, 2]) -> |v| { v + 1 }`, Result: "[2, 3]"},
	}
}

func (mapValues) ClosureSpec() expression.ClosureSpec {
	return expression.ClosureSpec{Variables: 1, Required: true}
}

func (mapValues) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	closure, err := args.RequiredClosure()
	if err != nil {
		return nil, err
	}

	body := closureBodyDef(st, closure, 1)

	def := types.DefFromKind(types.AnyObject().Union(types.AnyArray())).MaybeFallible(body.IsFallible())
	if !body.IsPure() {
		def = def.Impure()
	}

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}

			switch t := v.(type) {
			case *value.Object:
				out := value.NewObject()
				var failed error
				t.Scan(func(key string, member value.Value) bool {
					mapped, err := closure.Run(ctx, member)
					if err != nil {
						failed = err
						return false
					}
					out.Set(key, mapped)
					return true
				})
				if failed != nil {
					return nil, failed
				}
				return out, nil
			case *value.Array:
				items := make([]value.Value, len(t.Items))
				for i, item := range t.Items {
					mapped, err := closure.Run(ctx, item)
					if err != nil {
						return nil, err
					}
					items[i] = mapped
				}
				return value.NewArray(items...), nil
			}
			return nil, fmt.Errorf("unable to map %s", v.Type())
		},
	}, nil
}
