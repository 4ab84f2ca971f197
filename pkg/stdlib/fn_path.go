package stdlib

import (
	"fmt"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// exists

type exists struct{}

func (exists) Identifier() string { return "exists" }

func (exists) Parameters() []expression.Parameter {
	return []expression.Parameter{param("field", types.Any(), true)}
}

func (exists) Examples() []expression.Example {
	return []expression.Example{
		{Title: "event field", Source: `exists(.field)`, Result: "false"},
	}
}

func (exists) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	q, err := args.RequiredQuery("field")
	if err != nil {
		return nil, err
	}

	return &fnExpr{
		def: types.BooleanDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			if q.IsExternal() {
				v, err := ctx.Target().TargetGet(q.TargetPath())
				if err != nil {
					return nil, err
				}
				return value.Boolean(v != nil), nil
			}

			inner, err := q.Inner.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			return value.Boolean(value.Get(inner, q.Path) != nil), nil
		},
	}, nil
}

// del

type del struct{}

func (del) Identifier() string { return "del" }

func (del) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("field", types.Any(), true),
		param("compact", types.Boolean(), false),
	}
}

func (del) Examples() []expression.Example {
	return []expression.Example{
		{Title: "event field", Source: `del(.field)`, Result: "null"},
	}
}

func (del) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	q, err := args.RequiredQuery("field")
	if err != nil {
		return nil, err
	}

	compact := false
	if v, err := args.OptionalConstant("compact"); err != nil {
		return nil, err
	} else if v != nil {
		compact, err = value.AsBoolean(v)
		if err != nil {
			return nil, fmt.Errorf("argument %q must be a boolean", "compact")
		}
	}

	var ident string
	if !q.IsExternal() {
		v, ok := q.Inner.(*expression.Variable)
		if !ok {
			return nil, fmt.Errorf("argument %q must query an event field or a variable", "field")
		}
		ident = v.Ident
	}

	// Deleting a path narrows the compile-time shape of its container.
	removed := q.DeleteTypeDef(st, compact)
	def := removed.UpgradeUndefined().Infallible().Impure()

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			if q.IsExternal() {
				v, err := ctx.Target().TargetRemove(q.TargetPath(), compact)
				if err != nil {
					return nil, err
				}
				if v == nil {
					return value.Null{}, nil
				}
				return v, nil
			}

			root, ok := ctx.State().Variable(ident)
			if !ok {
				return value.Null{}, nil
			}
			deleted, newRoot := value.Remove(root, q.Path, compact)
			ctx.State().InsertVariable(ident, newRoot)
			if deleted == nil {
				return value.Null{}, nil
			}
			return deleted, nil
		},
	}, nil
}
