package stdlib

import (
	"fmt"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// isType backs the is_* family: one predicate per value kind.
type isType struct {
	ident string
	kind  types.Kind
}

func newIsType(ident string, kind types.Kind) *isType {
	return &isType{ident: ident, kind: kind}
}

func (f *isType) Identifier() string { return f.ident }

func (f *isType) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.Any(), true)}
}

func (f *isType) Examples() []expression.Example { return noExamples }

func (f *isType) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	match := f.kind
	return &fnExpr{
		def: types.BooleanDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			return value.Boolean(kindMatches(v, match)), nil
		},
	}, nil
}

// narrow backs the bare type-assertion family (array, bool, float, int,
// object, string, timestamp): the value passes through unchanged when it has
// the expected type and errors otherwise, narrowing the compile-time kind.
type narrow struct {
	ident string
	kind  types.Kind
}

func newNarrow(ident string, kind types.Kind) *narrow {
	return &narrow{ident: ident, kind: kind}
}

func (f *narrow) Identifier() string { return f.ident }

func (f *narrow) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.Any(), true)}
}

func (f *narrow) Examples() []expression.Example { return noExamples }

func (f *narrow) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")

	def := arg.TypeInfo(st.Clone()).Result.FallibleUnless(f.kind)
	switch {
	case f.kind.Equal(types.AnyArray()):
		def = def.RestrictArray()
	case f.kind.Equal(types.AnyObject()):
		def = def.RestrictObject()
	default:
		def = def.WithKind(f.kind)
	}

	expected := f.ident
	match := f.kind
	return &fnExpr{
		def: def,
		run: func(ctx *expression.Context) (value.Value, error) {
			v, err := arg.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			if !kindMatches(v, match) {
				return nil, fmt.Errorf("expected %s value, got %s", expected, v.Type())
			}
			return v, nil
		},
	}, nil
}

func kindMatches(v value.Value, kind types.Kind) bool {
	switch v.(type) {
	case value.Bytes:
		return kind.ContainsBytes()
	case value.Integer:
		return kind.ContainsInteger()
	case value.Float:
		return kind.ContainsFloat()
	case value.Boolean:
		return kind.ContainsBoolean()
	case value.Timestamp:
		return kind.ContainsTimestamp()
	case value.Regex:
		return kind.ContainsRegex()
	case *value.Object:
		return kind.ContainsObject()
	case *value.Array:
		return kind.ContainsArray()
	default:
		return kind.ContainsNull()
	}
}
