package stdlib

import (
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// secretStore returns the target's secret store, or nil when the target
// carries none. Targets without secrets behave as an empty store.
func secretStore(ctx *expression.Context) expression.SecretTarget {
	store, _ := ctx.Target().(expression.SecretTarget)
	return store
}

// get_secret

type getSecret struct{}

func (getSecret) Identifier() string { return "get_secret" }

func (getSecret) Parameters() []expression.Parameter {
	return []expression.Parameter{param("key", types.Bytes(), true)}
}

func (getSecret) Examples() []expression.Example {
	return []expression.Example{
		{Title: "missing key", Source: `get_secret("api_token")`, Result: "null"},
	}
}

func (getSecret) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	key := args.Required("key")

	return &fnExpr{
		def: types.BytesDef().OrNull().Impure(),
		run: func(ctx *expression.Context) (value.Value, error) {
			k, err := resolveString(ctx, key)
			if err != nil {
				return nil, err
			}
			store := secretStore(ctx)
			if store == nil {
				return value.Null{}, nil
			}
			secret, ok := store.GetSecret(k)
			if !ok {
				return value.Null{}, nil
			}
			return value.Bytes(secret), nil
		},
	}, nil
}

// set_secret

type setSecret struct{}

func (setSecret) Identifier() string { return "set_secret" }

func (setSecret) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("key", types.Bytes(), true),
		param("value", types.Bytes(), true),
	}
}

func (setSecret) Examples() []expression.Example { return noExamples }

func (setSecret) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	key := args.Required("key")
	secret := args.Required("value")

	return &fnExpr{
		def: types.NullDef().Impure(),
		run: func(ctx *expression.Context) (value.Value, error) {
			k, err := resolveString(ctx, key)
			if err != nil {
				return nil, err
			}
			s, err := resolveString(ctx, secret)
			if err != nil {
				return nil, err
			}
			if store := secretStore(ctx); store != nil {
				store.InsertSecret(k, s)
			}
			return value.Null{}, nil
		},
	}, nil
}

// remove_secret

type removeSecret struct{}

func (removeSecret) Identifier() string { return "remove_secret" }

func (removeSecret) Parameters() []expression.Parameter {
	return []expression.Parameter{param("key", types.Bytes(), true)}
}

func (removeSecret) Examples() []expression.Example { return noExamples }

func (removeSecret) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	key := args.Required("key")

	return &fnExpr{
		def: types.NullDef().Impure(),
		run: func(ctx *expression.Context) (value.Value, error) {
			k, err := resolveString(ctx, key)
			if err != nil {
				return nil, err
			}
			if store := secretStore(ctx); store != nil {
				store.RemoveSecret(k)
			}
			return value.Null{}, nil
		},
	}, nil
}
