package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

func TestDetailsMerge(t *testing.T) {
	t.Run("types union", func(t *testing.T) {
		merged := Details{Type: types.BytesDef()}.Merge(Details{Type: types.IntegerDef()})
		assert.True(t, merged.Type.Kind().ContainsBytes())
		assert.True(t, merged.Type.Kind().ContainsInteger())
	})

	t.Run("constant survives only when equal", func(t *testing.T) {
		a := Details{Type: types.BytesDef(), Value: value.Bytes("x")}
		b := Details{Type: types.BytesDef(), Value: value.Bytes("x")}
		assert.NotNil(t, a.Merge(b).Value)

		c := Details{Type: types.BytesDef(), Value: value.Bytes("y")}
		assert.Nil(t, a.Merge(c).Value)
		assert.Nil(t, a.Merge(Details{Type: types.BytesDef()}).Value)
	})
}

func TestLocalEnvScoping(t *testing.T) {
	parent := NewLocalEnv()
	parent.InsertVariable("outer", Details{Type: types.BytesDef()})

	child := parent.Clone()
	child.InsertVariable("inner", Details{Type: types.IntegerDef()})
	child.InsertVariable("outer", Details{Type: types.IntegerDef()})

	out := parent.ApplyChildScope(child)

	// Reassignments of parent bindings leak out; new bindings do not.
	got, ok := out.Variable("outer")
	require.True(t, ok)
	assert.True(t, got.Type.Kind().IsInteger())

	_, ok = out.Variable("inner")
	assert.False(t, ok)
}

func TestLocalEnvMerge(t *testing.T) {
	left := NewLocalEnv()
	left.InsertVariable("both", Details{Type: types.BytesDef()})
	left.InsertVariable("only_left", Details{Type: types.NullDef()})

	right := NewLocalEnv()
	right.InsertVariable("both", Details{Type: types.IntegerDef()})

	out := left.Merge(right)

	both, ok := out.Variable("both")
	require.True(t, ok)
	assert.True(t, both.Type.Kind().ContainsBytes())
	assert.True(t, both.Type.Kind().ContainsInteger())

	_, ok = out.Variable("only_left")
	assert.True(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	st := NewTypeState()
	st.Local.InsertVariable("a", Details{Type: types.BytesDef()})

	clone := st.Clone()
	clone.Local.InsertVariable("b", Details{Type: types.IntegerDef()})

	_, ok := st.Local.Variable("b")
	assert.False(t, ok)
}

func TestExternalEnvKindDispatch(t *testing.T) {
	env := NewExternalEnvWithKind(types.AnyObject(), types.Object(types.CollectionFrom(map[string]types.Kind{
		"source": types.Bytes(),
	})))

	assert.True(t, env.Kind(path.PrefixEvent).IsSuperset(types.AnyObject()))

	meta := env.Kind(path.PrefixMetadata)
	coll, ok := meta.ObjectCollection()
	require.True(t, ok)
	got, known := coll.Known("source")
	require.True(t, known)
	assert.True(t, got.Equal(types.Bytes()))
}

func TestRuntimeStateSwap(t *testing.T) {
	st := NewRuntimeState()
	st.InsertVariable("x", value.Integer(1))

	prev, ok := st.SwapVariable("x", value.Integer(2))
	require.True(t, ok)
	assert.True(t, value.Equal(value.Integer(1), prev))

	got, _ := st.Variable("x")
	assert.True(t, value.Equal(value.Integer(2), got))

	_, ok = st.SwapVariable("fresh", value.Null{})
	assert.False(t, ok)

	st.Clear()
	assert.True(t, st.IsEmpty())
}
