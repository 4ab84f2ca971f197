package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vexlang/vex/pkg/path"
)

func scalarKinds() []Kind {
	return []Kind{
		Never(), Bytes(), Integer(), Float(), Boolean(),
		Timestamp(), Regex(), Null(), Undefined(),
		AnyObject(), AnyArray(), Any(),
	}
}

func TestKindUnionLaws(t *testing.T) {
	kinds := scalarKinds()

	t.Run("idempotent", func(t *testing.T) {
		for _, k := range kinds {
			assert.True(t, k.Union(k).Equal(k), "union of %s with itself", k)
		}
	})

	t.Run("commutative", func(t *testing.T) {
		for _, a := range kinds {
			for _, b := range kinds {
				assert.True(t, a.Union(b).Equal(b.Union(a)), "%s union %s", a, b)
			}
		}
	})

	t.Run("never is identity", func(t *testing.T) {
		for _, k := range kinds {
			assert.True(t, Never().Union(k).Equal(k), "never union %s", k)
		}
	})

	t.Run("union is superset of both operands", func(t *testing.T) {
		for _, a := range kinds {
			for _, b := range kinds {
				u := a.Union(b)
				assert.True(t, u.IsSuperset(a))
				assert.True(t, u.IsSuperset(b))
			}
		}
	})
}

func TestAnyKindTerminates(t *testing.T) {
	// Any contains any-member collections, whose members are in turn any:
	// the construction must bottom out instead of chasing that structure.
	any := Any()
	assert.True(t, any.IsAny())

	coll := AnyCollection[string]()
	assert.True(t, coll.IsAny())
	assert.True(t, coll.Unknown().IsAny())
	assert.True(t, coll.MemberKind("x").ContainsUndefined())

	// Lattice operations over Any must terminate too.
	assert.True(t, any.Union(any).IsAny())
	assert.True(t, any.IsSuperset(any))
	assert.True(t, any.Equal(any))
	assert.Equal(t, "any", any.String())

	// An explicit unknown of Any behaves like the any collection.
	stored := EmptyCollection[string]()
	stored.SetUnknown(Any())
	assert.True(t, stored.IsAny())
	assert.True(t, stored.Union(coll).IsAny())
	assert.True(t, coll.isSuperset(stored))
}

func TestKindSuperset(t *testing.T) {
	assert.True(t, Any().IsSuperset(Bytes()))
	assert.True(t, Bytes().OrNull().IsSuperset(Bytes()))
	assert.False(t, Bytes().IsSuperset(Bytes().OrNull()))
	assert.False(t, Integer().IsSuperset(Float()))

	// Collection containment considers member kinds.
	narrow := Object(CollectionFrom(map[string]Kind{"a": Integer()}))
	assert.True(t, AnyObject().IsSuperset(narrow))
	assert.False(t, narrow.IsSuperset(AnyObject()))
}

func TestKindAtPath(t *testing.T) {
	inner := CollectionFrom(map[string]Kind{"level": Integer()})
	event := Object(CollectionFrom(map[string]Kind{
		"message": Bytes(),
		"nested":  Object(inner),
	}))

	t.Run("known field", func(t *testing.T) {
		got := event.AtPath(path.MustParse(".message"))
		assert.True(t, got.Equal(Bytes()))
	})

	t.Run("nested field", func(t *testing.T) {
		got := event.AtPath(path.MustParse(".nested.level"))
		assert.True(t, got.Equal(Integer()))
	})

	t.Run("unknown field is undefined", func(t *testing.T) {
		got := event.AtPath(path.MustParse(".missing"))
		assert.True(t, got.ContainsUndefined())
	})

	t.Run("path into scalar is undefined", func(t *testing.T) {
		got := event.AtPath(path.MustParse(".message.inner"))
		assert.True(t, got.ContainsUndefined())
	})
}

func TestKindUpgradeUndefined(t *testing.T) {
	k := Bytes().OrUndefined().UpgradeUndefined()
	assert.False(t, k.ContainsUndefined())
	assert.True(t, k.ContainsNull())
	assert.True(t, k.ContainsBytes())

	// No undefined, no change.
	assert.True(t, Bytes().UpgradeUndefined().Equal(Bytes()))
}

func TestKindWithInsertedAndRemoved(t *testing.T) {
	event := Object(CollectionFrom(map[string]Kind{"keep": Bytes()}))

	inserted := event.WithInserted(path.MustParse(".added"), Integer())
	coll, ok := inserted.ObjectCollection()
	assert.True(t, ok)
	got, known := coll.Known("added")
	assert.True(t, known)
	assert.True(t, got.Equal(Integer()))

	removed := inserted.WithRemoved(path.MustParse(".added"), false)
	coll, ok = removed.ObjectCollection()
	assert.True(t, ok)
	_, known = coll.Known("added")
	assert.False(t, known)
}

func TestMergeFallibilityTotal(t *testing.T) {
	all := []Fallibility{CannotFail, MightFail, AlwaysFails}
	for _, a := range all {
		for _, b := range all {
			got := MergeFallibility(a, b)
			// Total: the result is always one of the three states and
			// dominates both inputs.
			assert.Contains(t, all, got)
			assert.GreaterOrEqual(t, uint8(got), uint8(a))
			assert.GreaterOrEqual(t, uint8(got), uint8(b))
			// Commutative.
			assert.Equal(t, got, MergeFallibility(b, a))
		}
	}
	// Identity.
	assert.Equal(t, MightFail, MergeFallibility(CannotFail, MightFail))
	assert.Equal(t, AlwaysFails, MergeFallibility(MightFail, AlwaysFails))
}

func TestTypeDefUnion(t *testing.T) {
	fallible := BytesDef().Fallible()
	infallible := IntegerDef()

	u := fallible.Union(infallible)
	assert.True(t, u.Kind().ContainsBytes())
	assert.True(t, u.Kind().ContainsInteger())
	assert.True(t, u.IsFallible())

	pure := BytesDef()
	impure := BytesDef().Impure()
	assert.False(t, pure.Union(impure).IsPure())
}

func TestTypeDefFallibleUnless(t *testing.T) {
	def := DefFromKind(Bytes().OrInteger()).Fallible()

	// The kind is not contained, so fallibility stays.
	assert.True(t, def.FallibleUnless(Bytes()).IsFallible())
}
