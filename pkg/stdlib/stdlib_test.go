package stdlib

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/compiler"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/parser"
	"github.com/vexlang/vex/pkg/runtime"
	"github.com/vexlang/vex/pkg/value"
)

// resolve compiles source against the full function registry and resolves it
// against event (an empty object when nil). The returned target exposes the
// event after mutation.
func resolve(t *testing.T, source string, event value.Value) (value.Value, *expression.TargetValue) {
	t.Helper()
	root, err := parser.Parse(source)
	require.NoError(t, err)

	result, diags := compiler.Compile(root, All())
	require.False(t, diags.HasErrors(), "compile: %s", diags.Error())

	if event == nil {
		event = value.NewObject()
	}
	target := expression.NewTargetValue(event)
	out, err := runtime.NewRuntime().Resolve(target, result.Program, time.UTC)
	require.NoError(t, err)
	return out, target
}

func assertResolves(t *testing.T, source string, want value.Value) {
	t.Helper()
	got, _ := resolve(t, source, nil)
	assert.True(t, value.Equal(want, got), "want %s, got %s", value.Format(want), value.Format(got))
}

func TestCoercions(t *testing.T) {
	tests := []struct {
		source string
		want   value.Value
	}{
		{source: `to_bool!("yes")`, want: value.Boolean(true)},
		{source: `to_bool!("0")`, want: value.Boolean(false)},
		{source: `to_bool(null)`, want: value.Boolean(false)},
		{source: `to_int!("42")`, want: value.Integer(42)},
		{source: `to_int(3.9)`, want: value.Integer(3)},
		{source: `to_int(true)`, want: value.Integer(1)},
		{source: `to_float(2)`, want: value.FromFloat64OrZero(2)},
		{source: `to_float!("1.5")`, want: value.FromFloat64OrZero(1.5)},
		{source: `to_string(3.5)`, want: value.Bytes("3.5")},
		{source: `to_string(true)`, want: value.Bytes("true")},
		{source: `to_string(null)`, want: value.Bytes("")},
	}

	for _, tc := range tests {
		t.Run(tc.source, func(t *testing.T) {
			assertResolves(t, tc.source, tc.want)
		})
	}
}

func TestCoercionFailureMessage(t *testing.T) {
	out, _ := resolve(t, "ok, err = to_bool(\"foobar\")\nerr", nil)
	msg, cerr := value.AsString(out)
	require.NoError(t, cerr)
	assert.Contains(t, msg, `Invalid boolean value "foobar"`)
}

func TestTypePredicates(t *testing.T) {
	assertResolves(t, `is_string("x")`, value.Boolean(true))
	assertResolves(t, `is_string(1)`, value.Boolean(false))
	assertResolves(t, `is_null(null)`, value.Boolean(true))
	assertResolves(t, `is_integer(1.0)`, value.Boolean(false))
	assertResolves(t, `is_object({"a": 1})`, value.Boolean(true))
	assertResolves(t, `is_timestamp(now())`, value.Boolean(true))
}

func TestTypeAssertions(t *testing.T) {
	assertResolves(t, `int(42)`, value.Integer(42))

	event := value.ObjectFrom(map[string]value.Value{"message": value.Bytes("hi")})
	out, _ := resolve(t, `string!(.message)`, event)
	assert.True(t, value.Equal(value.Bytes("hi"), out))

	out, _ = resolve(t, "ok, err = int(\"nope\")\nerr", nil)
	msg, cerr := value.AsString(out)
	require.NoError(t, cerr)
	assert.Contains(t, msg, "expected int value")
}

func TestParseTimestamp(t *testing.T) {
	want := value.NewTimestamp(time.Date(2021, 2, 11, 16, 0, 0, 0, time.UTC))

	assertResolves(t, `parse_timestamp!("11-Feb-2021 16:00 +00:00", format: "%v %R %z")`, want)
	assertResolves(t, `parse_timestamp!("2021-02-11 16:00:00", format: "%F %T", timezone: "UTC")`, want)
	assertResolves(t, `to_timestamp!("2021-02-11T16:00:00Z")`, want)
	assertResolves(t, `to_timestamp!(1613059200)`, want)
}

func TestFormatTimestamp(t *testing.T) {
	assertResolves(t, `format_timestamp!(t'2021-02-11T16:00:00Z', format: "%F")`, value.Bytes("2021-02-11"))
	assertResolves(t, `format_timestamp!(t'2021-02-11T16:00:00Z', format: "%d/%m/%Y %H:%M")`, value.Bytes("11/02/2021 16:00"))
}

func TestStrftimeLayout(t *testing.T) {
	tests := []struct {
		format string
		layout string
	}{
		{format: "%Y-%m-%dT%H:%M:%S", layout: "2006-01-02T15:04:05"},
		{format: "%v %R %z", layout: "_2-Jan-2006 15:04 Z07:00"},
		{format: "%a, %d %b %Y", layout: "Mon, 02 Jan 2006"},
		{format: "100%%", layout: "100%"},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			got, err := strftimeLayout(tc.format)
			require.NoError(t, err)
			assert.Equal(t, tc.layout, got)
		})
	}

	_, err := strftimeLayout("%Q")
	require.Error(t, err)
}

func TestStringFunctions(t *testing.T) {
	tests := []struct {
		source string
		want   value.Value
	}{
		{source: `truncate("foobarzoo", 3, suffix: "...")`, want: value.Bytes("foo...")},
		{source: `truncate("fo", limit: 3, suffix: "...")`, want: value.Bytes("fo")},
		{source: `truncate("héllo", limit: 2)`, want: value.Bytes("hé")},
		{source: `replace("id=123", r'id=(?P<num>\d+)', "$num")`, want: value.Bytes("123")},
		{source: `replace("aaa", "a", "b", count: 2)`, want: value.Bytes("bba")},
		{source: `upcase("vex")`, want: value.Bytes("VEX")},
		{source: `downcase("VEX")`, want: value.Bytes("vex")},
		{source: `contains("The Needle", "needle")`, want: value.Boolean(false)},
		{source: `contains("The Needle", "needle", case_sensitive: false)`, want: value.Boolean(true)},
		{source: `starts_with("foobar", "foo")`, want: value.Boolean(true)},
		{source: `ends_with("foobar", "foo")`, want: value.Boolean(false)},
		{source: `split("a,b,c", ",")`, want: value.NewArray(value.Bytes("a"), value.Bytes("b"), value.Bytes("c"))},
		{source: `join(split("a,b,c", ","), "-")`, want: value.Bytes("a-b-c")},
	}

	for _, tc := range tests {
		t.Run(tc.source, func(t *testing.T) {
			assertResolves(t, tc.source, tc.want)
		})
	}
}

func TestCollectionFunctions(t *testing.T) {
	assertResolves(t, `length([1, 2, 3])`, value.Integer(3))
	assertResolves(t, `length("abc")`, value.Integer(3))
	assertResolves(t, `length({"a": 1})`, value.Integer(1))
	assertResolves(t, `slice!("foobar", 1, 4)`, value.Bytes("oob"))
	assertResolves(t, `slice!([1, 2, 3], -2)`, value.NewArray(value.Integer(2), value.Integer(3)))
	assertResolves(t, `push([1, 2], 3)`, value.NewArray(value.Integer(1), value.Integer(2), value.Integer(3)))
}

func TestObjectFunctions(t *testing.T) {
	t.Run("merge shallow replaces nested objects", func(t *testing.T) {
		out, _ := resolve(t, `merge({"a": 1, "sub": {"x": 1}}, {"sub": {"y": 2}})`, nil)
		want := value.ObjectFrom(map[string]value.Value{
			"a":   value.Integer(1),
			"sub": value.ObjectFrom(map[string]value.Value{"y": value.Integer(2)}),
		})
		assert.True(t, value.Equal(want, out), "got %s", value.Format(out))
	})

	t.Run("merge deep recurses", func(t *testing.T) {
		out, _ := resolve(t, `merge({"a": 1, "sub": {"x": 1}}, {"sub": {"y": 2}}, deep: true)`, nil)
		want := value.ObjectFrom(map[string]value.Value{
			"a": value.Integer(1),
			"sub": value.ObjectFrom(map[string]value.Value{
				"x": value.Integer(1),
				"y": value.Integer(2),
			}),
		})
		assert.True(t, value.Equal(want, out), "got %s", value.Format(out))
	})

	t.Run("flatten joins keys with the separator", func(t *testing.T) {
		out, _ := resolve(t, `flatten({"p": {"c1": 1, "c2": 2}})`, nil)
		want := value.ObjectFrom(map[string]value.Value{
			"p.c1": value.Integer(1),
			"p.c2": value.Integer(2),
		})
		assert.True(t, value.Equal(want, out), "got %s", value.Format(out))

		out, _ = resolve(t, `flatten({"p": {"c": 1}}, separator: "_")`, nil)
		want = value.ObjectFrom(map[string]value.Value{"p_c": value.Integer(1)})
		assert.True(t, value.Equal(want, out), "got %s", value.Format(out))
	})

	t.Run("flatten splices nested arrays", func(t *testing.T) {
		assertResolves(t, `flatten([1, [2, [3]]])`,
			value.NewArray(value.Integer(1), value.Integer(2), value.Integer(3)))
	})

	t.Run("keys and values", func(t *testing.T) {
		assertResolves(t, `keys({"b": 1, "a": 2})`, value.NewArray(value.Bytes("a"), value.Bytes("b")))
		assertResolves(t, `values({"a": 1})`, value.NewArray(value.Integer(1)))
	})
}

func TestJSONFunctions(t *testing.T) {
	assertResolves(t, `parse_json!(s'{"a": 1}')`,
		value.ObjectFrom(map[string]value.Value{"a": value.Integer(1)}))
	assertResolves(t, `encode_json([1, null, "x"])`, value.Bytes(`[1,null,"x"]`))
	// Keys serialize sorted regardless of input order.
	assertResolves(t, `encode_json(parse_json!(s'{"b": 2, "a": 1}'))`, value.Bytes(`{"a":1,"b":2}`))
}

func TestExistsAndDel(t *testing.T) {
	event := value.ObjectFrom(map[string]value.Value{"message": value.Bytes("hi")})
	out, _ := resolve(t, `exists(.message)`, event)
	assert.True(t, value.Equal(value.Boolean(true), out))

	out, _ = resolve(t, `exists(.nope)`, value.NewObject())
	assert.True(t, value.Equal(value.Boolean(false), out))

	event = value.ObjectFrom(map[string]value.Value{"message": value.Bytes("hi")})
	out, target := resolve(t, `del(.message)`, event)
	assert.True(t, value.Equal(value.Bytes("hi"), out))
	assert.True(t, value.Equal(value.NewObject(), target.Value), "event still holds %s", value.Format(target.Value))
}

func TestEnumerationFunctions(t *testing.T) {
	t.Run("filter keeps matching items", func(t *testing.T) {
		assertResolves(t, `filter!([1, 2, 3]) -> |_i, v| { v > 1 }`,
			value.NewArray(value.Integer(2), value.Integer(3)))
	})

	t.Run("filter keeps matching entries", func(t *testing.T) {
		out, _ := resolve(t, `filter({"a": 1, "b": 2}) -> |k, _v| { k == "a" }`, nil)
		want := value.ObjectFrom(map[string]value.Value{"a": value.Integer(1)})
		assert.True(t, value.Equal(want, out), "got %s", value.Format(out))
	})

	t.Run("map_values transforms items", func(t *testing.T) {
		assertResolves(t, `map_values!([1, 2]) -> |v| { v * 2 }`,
			value.NewArray(value.Integer(2), value.Integer(4)))
	})

	t.Run("fold accumulates", func(t *testing.T) {
		assertResolves(t, `fold([1, 2, 3], 0) -> |acc, _i, v| { to_int!(acc) + to_int!(v) }`,
			value.Integer(6))
		assertResolves(t, `fold([], "seed") -> |acc, _i, _v| { acc }`, value.Bytes("seed"))
	})

	t.Run("for_each mutations persist", func(t *testing.T) {
		source := `sum = 0
for_each([1, 2, 3]) -> |_i, v| { sum = sum + to_int!(v) }
sum`
		assertResolves(t, source, value.Integer(6))
	})
}

func TestSystemFunctions(t *testing.T) {
	t.Run("get_env_var", func(t *testing.T) {
		t.Setenv("VEX_STDLIB_TEST", "1")
		assertResolves(t, `get_env_var!("VEX_STDLIB_TEST")`, value.Bytes("1"))

		out, _ := resolve(t, "ok, err = get_env_var(\"VEX_STDLIB_TEST_MISSING\")\nerr", nil)
		msg, cerr := value.AsString(out)
		require.NoError(t, cerr)
		assert.Contains(t, msg, "not found")
	})

	t.Run("uuid_v4", func(t *testing.T) {
		out, _ := resolve(t, `uuid_v4()`, nil)
		id, err := value.AsString(out)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`), id)
	})

	t.Run("assert", func(t *testing.T) {
		assertResolves(t, `assert!(1 == 1)`, value.Boolean(true))

		out, _ := resolve(t, "ok, err = assert(1 == 2, message: \"values diverged\")\nerr", nil)
		msg, cerr := value.AsString(out)
		require.NoError(t, cerr)
		assert.Contains(t, msg, "values diverged")
	})

	t.Run("secrets", func(t *testing.T) {
		source := `set_secret("token", "hunter2")
s = get_secret("token")
remove_secret("token")
if get_secret("token") != null { abort "secret survived removal" }
s`
		out, _ := resolve(t, source, nil)
		assert.True(t, value.Equal(value.Bytes("hunter2"), out))

		out, _ = resolve(t, `get_secret("missing")`, nil)
		assert.True(t, value.Equal(value.Null{}, out))
	})

	t.Run("log returns null", func(t *testing.T) {
		assertResolves(t, `log("checkpoint", level: "debug")`, value.Null{})
	})
}
