package expression

import (
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// AssignTargetKind enumerates assignment left-hand sides.
type AssignTargetKind uint8

const (
	// AssignNoop discards the assigned value.
	AssignNoop AssignTargetKind = iota
	// AssignInternal assigns a local variable, optionally at a path inside
	// its value.
	AssignInternal
	// AssignExternal assigns a path of the event or metadata.
	AssignExternal
)

// AssignTarget is one assignment left-hand side.
type AssignTarget struct {
	Kind   AssignTargetKind
	Ident  string      // for AssignInternal
	Prefix path.Prefix // for AssignExternal
	Path   path.Path
	Span   diagnostic.Span
}

// assign writes v to the target at runtime.
func (t AssignTarget) assign(ctx *Context, v value.Value) error {
	switch t.Kind {
	case AssignNoop:
		return nil
	case AssignInternal:
		if t.Path.IsRoot() {
			ctx.State().InsertVariable(t.Ident, v)
			return nil
		}
		root, ok := ctx.State().Variable(t.Ident)
		if !ok {
			root = value.Null{}
		}
		ctx.State().InsertVariable(t.Ident, value.Insert(root, t.Path, v))
		return nil
	default:
		return ctx.Target().TargetInsert(path.TargetPath{Prefix: t.Prefix, Path: t.Path}, v)
	}
}

// update records the assignment in the compile-time state. The stored kind
// upgrades undefined to null, since a missing right-hand side materializes
// as null once written.
func (t AssignTarget) update(st *state.TypeState, def types.TypeDef, constant value.Value) {
	def = def.Infallible().WithReturns(types.Never()).UpgradeUndefined()

	switch t.Kind {
	case AssignNoop:
	case AssignInternal:
		details := state.Details{Type: def, Value: constant}
		if !t.Path.IsRoot() {
			root := types.NullDef()
			if existing, ok := st.Local.Variable(t.Ident); ok {
				root = existing.Type
			}
			details = state.Details{Type: root.WithTypeInserted(t.Path, def)}
		}
		st.Local.InsertVariable(t.Ident, details)
	case AssignExternal:
		kind := st.External.Kind(t.Prefix).WithInserted(t.Path, def.Kind())
		switch t.Prefix {
		case path.PrefixMetadata:
			st.External.UpdateMetadata(kind)
		default:
			st.External.UpdateTarget(state.Details{Type: types.DefFromKind(kind)})
		}
	}
}

// SingleAssignment is `target = expr`. The right-hand side must be
// infallible; the compiler enforces that before constructing it.
type SingleAssignment struct {
	Target AssignTarget
	Expr   Expression
	Span   diagnostic.Span
}

// Resolve implements Expression.
func (a *SingleAssignment) Resolve(ctx *Context) (value.Value, error) {
	v, err := a.Expr.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.Target.assign(ctx, v); err != nil {
		return nil, NewError(a.Span, "couldn't assign to the external target: %s", err)
	}
	return v, nil
}

// TypeInfo implements Expression.
func (a *SingleAssignment) TypeInfo(st state.TypeState) state.TypeInfo {
	info := a.Expr.TypeInfo(st)
	out := info.State.Clone()

	constant, _ := ResolveConstant(a.Expr, st)
	a.Target.update(&out, info.Result, constant)

	return state.NewTypeInfo(out, info.Result.UpgradeUndefined())
}

// InfallibleAssignment is `ok, err = expr`. A failing right-hand side
// assigns null to the ok target and the error text to the err target
// instead of failing the program.
type InfallibleAssignment struct {
	Ok   AssignTarget
	Err  AssignTarget
	Expr Expression
	Span diagnostic.Span
}

// Resolve implements Expression.
func (a *InfallibleAssignment) Resolve(ctx *Context) (value.Value, error) {
	v, err := a.Expr.Resolve(ctx)
	if err != nil {
		if isTerminal(err) {
			return nil, err
		}
		msg := value.Bytes(err.Error())
		if err := a.Ok.assign(ctx, value.Null{}); err != nil {
			return nil, NewError(a.Span, "couldn't assign to the external target: %s", err)
		}
		if err := a.Err.assign(ctx, msg); err != nil {
			return nil, NewError(a.Span, "couldn't assign to the external target: %s", err)
		}
		return msg, nil
	}

	if err := a.Ok.assign(ctx, v); err != nil {
		return nil, NewError(a.Span, "couldn't assign to the external target: %s", err)
	}
	if err := a.Err.assign(ctx, value.Null{}); err != nil {
		return nil, NewError(a.Span, "couldn't assign to the external target: %s", err)
	}
	return v, nil
}

// TypeInfo implements Expression.
func (a *InfallibleAssignment) TypeInfo(st state.TypeState) state.TypeInfo {
	info := a.Expr.TypeInfo(st)
	out := info.State.Clone()

	okDef := info.Result.OrNull()
	errDef := types.BytesDef().OrNull()

	a.Ok.update(&out, okDef, nil)
	a.Err.update(&out, errDef, nil)

	result := okDef.Union(errDef).Infallible().WithReturns(info.Result.Returns())
	if !info.Result.IsPure() {
		result = result.Impure()
	}
	return state.NewTypeInfo(out, result)
}
