package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/path"
)

func testEvent() Value {
	return ObjectFrom(map[string]Value{
		"message": Bytes("hello"),
		"tags":    NewArray(Bytes("a"), Bytes("b"), Bytes("c")),
		"nested": ObjectFrom(map[string]Value{
			"level": Integer(3),
		}),
	})
}

func TestGet(t *testing.T) {
	event := testEvent()

	tests := []struct {
		name string
		path string
		want Value
	}{
		{name: "root", path: ".", want: event},
		{name: "field", path: ".message", want: Bytes("hello")},
		{name: "nested field", path: ".nested.level", want: Integer(3)},
		{name: "index", path: ".tags[1]", want: Bytes("b")},
		{name: "negative index wraps once", path: ".tags[-1]", want: Bytes("c")},
		{name: "negative index out of range", path: ".tags[-4]", want: nil},
		{name: "index out of range", path: ".tags[3]", want: nil},
		{name: "missing field", path: ".nope", want: nil},
		{name: "field through scalar", path: ".message.inner", want: nil},
		{name: "coalesce first present", path: ".(nope|message)", want: Bytes("hello")},
		{name: "coalesce all absent", path: ".(nope|still_nope)", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := path.MustParse(tc.path)
			got := Get(event, p)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.True(t, Equal(tc.want, got), "want %s, got %s", Format(tc.want), Format(got))
		})
	}
}

func TestInsert(t *testing.T) {
	t.Run("replaces root", func(t *testing.T) {
		got := Insert(NewObject(), path.Root(), Bytes("x"))
		assert.True(t, Equal(Bytes("x"), got))
	})

	t.Run("creates intermediate objects", func(t *testing.T) {
		got := Insert(NewObject(), path.MustParse(".a.b"), Integer(1))
		assert.True(t, Equal(Integer(1), Get(got, path.MustParse(".a.b"))))
	})

	t.Run("pads arrays with null", func(t *testing.T) {
		got := Insert(NewObject(), path.MustParse(".a[2]"), Bytes("x"))
		arr := Get(got, path.MustParse(".a"))
		require.IsType(t, &Array{}, arr)
		assert.Equal(t, 3, arr.(*Array).Len())
		assert.True(t, Equal(Null{}, Get(got, path.MustParse(".a[0]"))))
		assert.True(t, Equal(Bytes("x"), Get(got, path.MustParse(".a[2]"))))
	})

	t.Run("overwrites wrong shape", func(t *testing.T) {
		root := ObjectFrom(map[string]Value{"a": Bytes("scalar")})
		got := Insert(root, path.MustParse(".a.b"), Integer(1))
		assert.True(t, Equal(Integer(1), Get(got, path.MustParse(".a.b"))))
	})
}

func TestRemove(t *testing.T) {
	t.Run("removes field", func(t *testing.T) {
		removed, root := Remove(testEvent(), path.MustParse(".message"), false)
		assert.True(t, Equal(Bytes("hello"), removed))
		assert.Nil(t, Get(root, path.MustParse(".message")))
	})

	t.Run("absent path removes nothing", func(t *testing.T) {
		removed, root := Remove(testEvent(), path.MustParse(".nope"), false)
		assert.Nil(t, removed)
		assert.True(t, Equal(Bytes("hello"), Get(root, path.MustParse(".message"))))
	})

	t.Run("compact drops emptied containers", func(t *testing.T) {
		_, root := Remove(testEvent(), path.MustParse(".nested.level"), true)
		assert.Nil(t, Get(root, path.MustParse(".nested")))
	})

	t.Run("without compact keeps emptied containers", func(t *testing.T) {
		_, root := Remove(testEvent(), path.MustParse(".nested.level"), false)
		got := Get(root, path.MustParse(".nested"))
		require.IsType(t, &Object{}, got)
		assert.Equal(t, 0, got.(*Object).Len())
	})
}

func TestCloneDoesNotAlias(t *testing.T) {
	original := testEvent()
	clone := Clone(original).(*Object)

	Insert(clone, path.MustParse(".nested.level"), Integer(9))
	assert.True(t, Equal(Integer(3), Get(original, path.MustParse(".nested.level"))))
}

func TestJSONRoundTrip(t *testing.T) {
	v, err := FromJSON([]byte(`{"b":[1,2.5,"x"],"a":{"k":null},"ok":true}`))
	require.NoError(t, err)

	data, err := ToJSON(v)
	require.NoError(t, err)
	// Object keys serialize in sorted order.
	assert.Equal(t, `{"a":{"k":null},"b":[1,2.5,"x"],"ok":true}`, string(data))
}
