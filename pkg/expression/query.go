package expression

import (
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Query reads the value at a path. The target is either the external event
// or metadata root, or an inner expression (a variable, function call or
// container literal) whose result the path descends into.
//
// A missing path yields null.
type Query struct {
	External bool
	Prefix   path.Prefix // meaningful when External
	Inner    Expression  // nil when External
	Path     path.Path
	Span     diagnostic.Span
}

// NewExternalQuery returns a query against the event or metadata root.
func NewExternalQuery(prefix path.Prefix, p path.Path) *Query {
	return &Query{External: true, Prefix: prefix, Path: p}
}

// TargetPath returns the full external path this query reads. Only valid
// for external queries.
func (q *Query) TargetPath() path.TargetPath {
	return path.TargetPath{Prefix: q.Prefix, Path: q.Path}
}

// IsExternal reports whether the query reads the external target.
func (q *Query) IsExternal() bool { return q.External }

// Resolve implements Expression.
func (q *Query) Resolve(ctx *Context) (value.Value, error) {
	if q.External {
		v, err := ctx.Target().TargetGet(q.TargetPath())
		if err != nil {
			return nil, NewError(q.Span, "couldn't query the external target: %s", err)
		}
		if v == nil {
			return value.Null{}, nil
		}
		return v, nil
	}

	inner, err := q.Inner.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if v := value.Get(inner, q.Path); v != nil {
		return v, nil
	}
	return value.Null{}, nil
}

// TypeInfo implements Expression.
func (q *Query) TypeInfo(st state.TypeState) state.TypeInfo {
	if q.External {
		kind := st.External.Kind(q.Prefix).AtPath(q.Path).UpgradeUndefined()
		return state.NewTypeInfo(st, types.DefFromKind(kind))
	}

	info := q.Inner.TypeInfo(st)
	def := info.Result.AtPath(q.Path).UpgradeUndefined()
	return state.NewTypeInfo(info.State, def)
}

// DeleteTypeDef updates the compile-time state for a removal of this
// query's path, returning the type definition of the removed value. Used by
// functions that delete paths from the target.
func (q *Query) DeleteTypeDef(st *state.TypeState, compact bool) types.TypeDef {
	removed := q.TypeInfo(st.Clone()).Result

	if q.External {
		kind := st.External.Kind(q.Prefix).WithRemoved(q.Path, compact)
		switch q.Prefix {
		case path.PrefixMetadata:
			st.External.UpdateMetadata(kind)
		default:
			st.External.UpdateTarget(state.Details{Type: types.DefFromKind(kind)})
		}
		return removed
	}

	if v, ok := q.Inner.(*Variable); ok {
		if details, has := st.Local.Variable(v.Ident); has {
			details.Type = details.Type.WithKind(details.Type.Kind().WithRemoved(q.Path, compact))
			details.Value = nil
			st.Local.InsertVariable(v.Ident, details)
		}
	}
	return removed
}
