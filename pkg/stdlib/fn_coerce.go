package stdlib

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// to_bool

type toBool struct{}

func (toBool) Identifier() string { return "to_bool" }

func (toBool) Parameters() []expression.Parameter {
	kind := types.Bytes().OrInteger().OrFloat().OrBoolean().OrNull()
	return []expression.Parameter{param("value", kind, true)}
}

func (toBool) Examples() []expression.Example {
	return []expression.Example{
		{Title: "truthy string", Source: `to_bool!("yes")`, Result: "true"},
		{Title: "integer", Source: `to_bool(0)`, Result: "false"},
	}
}

func (toBool) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	// Only string input can fail to convert.
	safe := types.Integer().OrFloat().OrBoolean().OrNull()
	def := types.BooleanDef().MaybeFallible(!safe.IsSuperset(argKind(st, arg)))

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			switch t := v.(type) {
			case value.Boolean:
				return t, nil
			case value.Integer:
				return value.Boolean(t != 0), nil
			case value.Float:
				return value.Boolean(t != 0), nil
			case value.Null:
				return value.Boolean(false), nil
			case value.Bytes:
				switch strings.ToLower(string(t)) {
				case "true", "t", "yes", "y", "1":
					return value.Boolean(true), nil
				case "false", "f", "no", "n", "0":
					return value.Boolean(false), nil
				}
				return nil, fmt.Errorf("Invalid boolean value %q", string(t))
			}
			return nil, fmt.Errorf("unable to coerce %s into boolean", v.Type())
		},
	}, nil
}

// to_int

type toInt struct{}

func (toInt) Identifier() string { return "to_int" }

func (toInt) Parameters() []expression.Parameter {
	kind := types.Bytes().OrInteger().OrFloat().OrBoolean().OrNull().OrTimestamp()
	return []expression.Parameter{param("value", kind, true)}
}

func (toInt) Examples() []expression.Example { return noExamples }

func (toInt) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	safe := types.Integer().OrFloat().OrBoolean().OrNull().OrTimestamp()
	def := types.IntegerDef().MaybeFallible(!safe.IsSuperset(argKind(st, arg)))

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			switch t := v.(type) {
			case value.Integer:
				return t, nil
			case value.Float:
				return value.Integer(int64(t)), nil
			case value.Boolean:
				if t {
					return value.Integer(1), nil
				}
				return value.Integer(0), nil
			case value.Null:
				return value.Integer(0), nil
			case value.Timestamp:
				return value.Integer(t.Unix()), nil
			case value.Bytes:
				i, err := strconv.ParseInt(string(t), 10, 64)
				if err != nil {
					return nil, fmt.Errorf("Invalid integer %q", string(t))
				}
				return value.Integer(i), nil
			}
			return nil, fmt.Errorf("unable to coerce %s into integer", v.Type())
		},
	}, nil
}

// to_float

type toFloat struct{}

func (toFloat) Identifier() string { return "to_float" }

func (toFloat) Parameters() []expression.Parameter {
	kind := types.Bytes().OrInteger().OrFloat().OrBoolean().OrNull().OrTimestamp()
	return []expression.Parameter{param("value", kind, true)}
}

func (toFloat) Examples() []expression.Example { return noExamples }

func (toFloat) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	safe := types.Integer().OrFloat().OrBoolean().OrNull().OrTimestamp()
	def := types.FloatDef().MaybeFallible(!safe.IsSuperset(argKind(st, arg)))

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			switch t := v.(type) {
			case value.Float:
				return t, nil
			case value.Integer:
				return value.Float(t), nil
			case value.Boolean:
				if t {
					return value.Float(1), nil
				}
				return value.Float(0), nil
			case value.Null:
				return value.Float(0), nil
			case value.Timestamp:
				return value.FromFloat64OrZero(float64(t.UnixNano()) / float64(time.Second)), nil
			case value.Bytes:
				f, err := strconv.ParseFloat(string(t), 64)
				if err != nil {
					return nil, fmt.Errorf("Invalid floating point number %q", string(t))
				}
				return value.FromFloat64OrZero(f), nil
			}
			return nil, fmt.Errorf("unable to coerce %s into float", v.Type())
		},
	}, nil
}

// to_string

type toString struct{}

func (toString) Identifier() string { return "to_string" }

func (toString) Parameters() []expression.Parameter {
	kind := types.Bytes().OrInteger().OrFloat().OrBoolean().OrNull().OrTimestamp()
	return []expression.Parameter{param("value", kind, true)}
}

func (toString) Examples() []expression.Example { return noExamples }

func (toString) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	return &fnExpr{
		def: types.BytesDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			switch t := v.(type) {
			case value.Bytes:
				return t, nil
			case value.Boolean:
				return value.Bytes(strconv.FormatBool(bool(t))), nil
			case value.Integer:
				return value.Bytes(strconv.FormatInt(int64(t), 10)), nil
			case value.Float:
				return value.Bytes(strconv.FormatFloat(float64(t), 'f', -1, 64)), nil
			case value.Null:
				return value.Bytes(nil), nil
			case value.Timestamp:
				return value.Bytes(t.Format(time.RFC3339Nano)), nil
			}
			return nil, fmt.Errorf("unable to coerce %s into string", v.Type())
		},
	}, nil
}

// to_timestamp

type toTimestamp struct{}

func (toTimestamp) Identifier() string { return "to_timestamp" }

func (toTimestamp) Parameters() []expression.Parameter {
	kind := types.Bytes().OrInteger().OrFloat().OrTimestamp()
	return []expression.Parameter{param("value", kind, true)}
}

func (toTimestamp) Examples() []expression.Example { return noExamples }

func (toTimestamp) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	def := types.TimestampDef().MaybeFallible(!types.Timestamp().IsSuperset(argKind(st, arg)))

	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			switch t := v.(type) {
			case value.Timestamp:
				return t, nil
			case value.Integer:
				return value.NewTimestamp(time.Unix(int64(t), 0).UTC()), nil
			case value.Float:
				secs := int64(t)
				nanos := int64((float64(t) - float64(secs)) * float64(time.Second))
				return value.NewTimestamp(time.Unix(secs, nanos).UTC()), nil
			case value.Bytes:
				parsed, err := dateparse.ParseIn(string(t), ctx.Timezone())
				if err != nil {
					return nil, fmt.Errorf("Invalid timestamp %q: %s", string(t), err)
				}
				return value.NewTimestamp(parsed), nil
			}
			return nil, fmt.Errorf("unable to coerce %s into timestamp", v.Type())
		},
	}, nil
}
