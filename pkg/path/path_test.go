package path

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Path
	}{
		{name: "root from empty", text: "", want: Root()},
		{name: "root from dot", text: ".", want: Root()},
		{name: "single field", text: "a", want: Field("a")},
		{name: "leading dot", text: ".a.b", want: New(FieldSegment("a"), FieldSegment("b"))},
		{name: "index", text: "a[0]", want: New(FieldSegment("a"), IndexSegment(0))},
		{name: "negative index", text: "a[-1]", want: New(FieldSegment("a"), IndexSegment(-1))},
		{name: "chained indexes", text: "a[0][1]", want: New(FieldSegment("a"), IndexSegment(0), IndexSegment(1))},
		{name: "coalesce", text: "(a|b).c", want: New(CoalesceSegment("a", "b"), FieldSegment("c"))},
		{name: "quoted field", text: `"a b".c`, want: New(FieldSegment("a b"), FieldSegment("c"))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.text)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("parsed path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, text := range []string{"a[", "a[x]", "(a|", "(|b)", `"unclosed`} {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)
			assert.Error(t, err)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, text := range []string{".a.b[0]", ".a[-1]", `."a b"`} {
		t.Run(text, func(t *testing.T) {
			p := MustParse(text)
			assert.Equal(t, text, EventPath(p).String())
		})
	}

	// Coalesce fields render with spaced separators.
	assert.Equal(t, ".(a | b).c", EventPath(MustParse("(a|b).c")).String())
}

func TestQuotedFieldString(t *testing.T) {
	// Fields that are not plain identifiers render quoted.
	p := New(FieldSegment("has space"), FieldSegment("plain"))
	assert.Equal(t, `."has space".plain`, EventPath(p).String())
}

func TestStartsWith(t *testing.T) {
	p := MustParse("a.b.c")

	assert.True(t, p.StartsWith(Root()))
	assert.True(t, p.StartsWith(MustParse("a.b")))
	assert.True(t, p.StartsWith(p))
	assert.False(t, p.StartsWith(MustParse("a.x")))
	assert.False(t, MustParse("a").StartsWith(p))
}

func TestParentAndConcat(t *testing.T) {
	p := MustParse("a.b")

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.True(t, parent.Equal(Field("a")))

	_, ok = Root().Parent()
	assert.False(t, ok)

	joined := Field("a").Concat(MustParse("b[0]"))
	assert.True(t, joined.Equal(MustParse("a.b[0]")))

	// Concat copies; extending the result must not alias the receiver.
	base := MustParse("x.y")
	_ = base.Concat(Field("z"))
	assert.True(t, base.Equal(MustParse("x.y")))
}

func TestTargetPath(t *testing.T) {
	ev, err := ParseTarget(".a.b")
	require.NoError(t, err)
	assert.Equal(t, PrefixEvent, ev.Prefix)

	meta, err := ParseTarget("%meta.x")
	require.NoError(t, err)
	assert.Equal(t, PrefixMetadata, meta.Prefix)
	assert.Equal(t, "%meta.x", meta.String())

	assert.Equal(t, ".", EventRoot().String())
	assert.Equal(t, "%", MetadataRoot().String())

	assert.True(t, ev.StartsWith(EventPath(Field("a"))))
	assert.False(t, ev.StartsWith(MetadataPath(Field("a"))))
}
