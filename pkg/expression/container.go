package expression

import (
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Block is a brace-delimited expression sequence with its own lexical
// scope. It resolves to the value of its last expression.
type Block struct {
	Exprs []Expression
}

// Resolve implements Expression.
func (b *Block) Resolve(ctx *Context) (value.Value, error) {
	var out value.Value = value.Null{}
	for _, expr := range b.Exprs {
		v, err := expr.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out = v
	}
	return out, nil
}

// TypeInfo implements Expression.
func (b *Block) TypeInfo(st state.TypeState) state.TypeInfo {
	parentLocal := st.Local.Clone()
	cur := st.Clone()

	result := types.NullDef()
	fallibility := types.CannotFail
	purity := types.Pure
	returns := types.Never()

	for _, expr := range b.Exprs {
		info := expr.TypeInfo(cur)
		cur = info.State
		result = info.Result
		fallibility = types.MergeFallibility(fallibility, info.Result.Fallibility())
		purity = types.MergePurity(purity, info.Result.Purity())
		returns = returns.Union(info.Result.Returns())
	}

	// Variables introduced inside the block do not escape it.
	cur.Local = parentLocal.ApplyChildScope(cur.Local)

	result = result.WithFallibility(fallibility).WithReturns(returns)
	if purity == types.Impure {
		result = result.Impure()
	}
	return state.NewTypeInfo(cur, result)
}

// Array is an array literal expression.
type Array struct {
	Items []Expression
}

// Resolve implements Expression.
func (a *Array) Resolve(ctx *Context) (value.Value, error) {
	items := make([]value.Value, len(a.Items))
	for i, item := range a.Items {
		v, err := item.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return &value.Array{Items: items}, nil
}

// ResolveConstant implements Constant.
func (a *Array) ResolveConstant(st state.TypeState) (value.Value, bool) {
	items := make([]value.Value, len(a.Items))
	for i, item := range a.Items {
		v, ok := ResolveConstant(item, st)
		if !ok {
			return nil, false
		}
		items[i] = v
	}
	return &value.Array{Items: items}, true
}

// TypeInfo implements Expression.
func (a *Array) TypeInfo(st state.TypeState) state.TypeInfo {
	cur := st
	collection := types.EmptyCollection[int]()
	def := types.DefFromKind(types.Never())

	for i, item := range a.Items {
		info := item.TypeInfo(cur)
		cur = info.State
		def = def.Union(info.Result)
		// Missing paths materialize as null once stored in a container.
		collection.Set(i, info.Result.Kind().UpgradeUndefined())
	}
	return state.NewTypeInfo(cur, def.WithKind(types.Array(collection)))
}

// Object is an object literal expression. Keys keep source order; duplicate
// keys resolve last-wins.
type Object struct {
	Keys   []string
	Values []Expression
}

// Resolve implements Expression.
func (o *Object) Resolve(ctx *Context) (value.Value, error) {
	out := value.NewObject()
	for i, key := range o.Keys {
		v, err := o.Values[i].Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	return out, nil
}

// ResolveConstant implements Constant.
func (o *Object) ResolveConstant(st state.TypeState) (value.Value, bool) {
	out := value.NewObject()
	for i, key := range o.Keys {
		v, ok := ResolveConstant(o.Values[i], st)
		if !ok {
			return nil, false
		}
		out.Set(key, v)
	}
	return out, true
}

// TypeInfo implements Expression.
func (o *Object) TypeInfo(st state.TypeState) state.TypeInfo {
	cur := st
	collection := types.EmptyCollection[string]()
	def := types.DefFromKind(types.Never())

	for i, key := range o.Keys {
		info := o.Values[i].TypeInfo(cur)
		cur = info.State
		def = def.Union(info.Result)
		collection.Set(key, info.Result.Kind().UpgradeUndefined())
	}
	return state.NewTypeInfo(cur, def.WithKind(types.Object(collection)))
}
