package stdlib

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// get_env_var

type getEnvVar struct{}

func (getEnvVar) Identifier() string { return "get_env_var" }

func (getEnvVar) Parameters() []expression.Parameter {
	return []expression.Parameter{param("name", types.Bytes(), true)}
}

func (getEnvVar) Examples() []expression.Example { return noExamples }

func (getEnvVar) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	name := args.Required("name")

	return &fnExpr{
		def: types.BytesDef().Fallible().Impure(),
		run: func(ctx *expression.Context) (value.Value, error) {
			key, err := resolveString(ctx, name)
			if err != nil {
				return nil, err
			}
			v, ok := os.LookupEnv(key)
			if !ok {
				return nil, fmt.Errorf("environment variable %q not found", key)
			}
			return value.Bytes(v), nil
		},
	}, nil
}

// log

type logFn struct{}

func (logFn) Identifier() string { return "log" }

func (logFn) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.Any(), true),
		param("level", types.Bytes(), false),
	}
}

func (logFn) Examples() []expression.Example {
	return []expression.Example{
		{Title: "warning", Source: `log("queue full", level: "warn")`, Result: "null"},
	}
}

func (logFn) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	level, err := args.OptionalEnum("level", []string{"trace", "debug", "info", "warn", "error"})
	if err != nil {
		return nil, err
	}
	if level == "" {
		level = "info"
	}

	return &fnExpr{
		def: types.NullDef().Impure(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			msg := value.Format(v)
			switch level {
			case "trace", "debug":
				slog.Debug(msg)
			case "warn":
				slog.Warn(msg)
			case "error":
				slog.Error(msg)
			default:
				slog.Info(msg)
			}
			return value.Null{}, nil
		},
	}, nil
}

// uuid_v4

type uuidV4 struct{}

func (uuidV4) Identifier() string { return "uuid_v4" }

func (uuidV4) Parameters() []expression.Parameter { return nil }

func (uuidV4) Examples() []expression.Example { return noExamples }

func (uuidV4) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, _ expression.ArgumentList) (expression.Expression, error) {
	return &fnExpr{
		def: types.BytesDef().Impure(),
		run: func(_ *expression.Context) (value.Value, error) {
			return value.Bytes(uuid.NewString()), nil
		},
	}, nil
}

// assert

type assertFn struct{}

func (assertFn) Identifier() string { return "assert" }

func (assertFn) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("condition", types.Boolean(), true),
		param("message", types.Bytes(), false),
	}
}

func (assertFn) Examples() []expression.Example { return noExamples }

func (assertFn) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	condition := args.Required("condition")
	message := optionalExpr(args, "message")

	return &fnExpr{
		def: types.BooleanDef().Fallible(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := condition.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			ok, err := value.AsBoolean(v)
			if err != nil {
				return nil, err
			}
			if !ok {
				if message != nil {
					msg, err := resolveString(ctx, message)
					if err != nil {
						return nil, err
					}
					return nil, errors.New(msg)
				}
				return nil, errors.New("assertion failed")
			}
			return value.Boolean(true), nil
		},
	}, nil
}
