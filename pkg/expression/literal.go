package expression

import (
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Literal is a scalar literal. Collections are Array and Object expressions,
// which hold sub-expressions rather than values.
type Literal struct {
	Value value.Value
}

// NewLiteral constructs a literal over a scalar value.
func NewLiteral(v value.Value) *Literal { return &Literal{Value: v} }

// Resolve implements Expression.
func (l *Literal) Resolve(*Context) (value.Value, error) { return l.Value, nil }

// ResolveConstant implements Constant.
func (l *Literal) ResolveConstant(state.TypeState) (value.Value, bool) { return l.Value, true }

// TypeInfo implements Expression.
func (l *Literal) TypeInfo(st state.TypeState) state.TypeInfo {
	return state.NewTypeInfo(st, types.DefFromKind(KindOf(l.Value)))
}

// KindOf returns the kind describing a concrete value, including full
// collection shapes for containers.
func KindOf(v value.Value) types.Kind {
	switch v := v.(type) {
	case nil, value.Null:
		return types.Null()
	case value.Boolean:
		return types.Boolean()
	case value.Integer:
		return types.Integer()
	case value.Float:
		return types.Float()
	case value.Bytes:
		return types.Bytes()
	case value.Timestamp:
		return types.Timestamp()
	case value.Regex:
		return types.Regex()
	case *value.Array:
		collection := types.EmptyCollection[int]()
		for i, item := range v.Items {
			collection.Set(i, KindOf(item))
		}
		return types.Array(collection)
	case *value.Object:
		collection := types.EmptyCollection[string]()
		v.Scan(func(key string, item value.Value) bool {
			collection.Set(key, KindOf(item))
			return true
		})
		return types.Object(collection)
	}
	return types.Any()
}
