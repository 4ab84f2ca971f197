package stdlib

import (
	"fmt"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// parse_json

type parseJSON struct{}

func (parseJSON) Identifier() string { return "parse_json" }

func (parseJSON) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.Bytes(), true)}
}

func (parseJSON) Examples() []expression.Example {
	return []expression.Example{
		{Title: "object", Source: `parse_json!("{\"field\": true}")`, Result: `{ "field": true }`},
	}
}

func (parseJSON) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	return &fnExpr{
		def: types.AnyDef().Fallible(),
		run: func(ctx *expression.Context) (value.Value, error) {
			s, err := resolveString(ctx, arg)
			if err != nil {
				return nil, err
			}
			v, err := value.FromJSON([]byte(s))
			if err != nil {
				return nil, fmt.Errorf("unable to parse json: %s", err)
			}
			return v, nil
		},
	}, nil
}

// encode_json

type encodeJSON struct{}

func (encodeJSON) Identifier() string { return "encode_json" }

func (encodeJSON) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.Any(), true)}
}

func (encodeJSON) Examples() []expression.Example { return noExamples }

func (encodeJSON) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	return &fnExpr{
		def: types.BytesDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			data, err := value.ToJSON(v)
			if err != nil {
				return nil, err
			}
			return value.Bytes(data), nil
		},
	}, nil
}
