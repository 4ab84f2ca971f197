package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/path"
)

// parseOne parses a source expected to contain exactly one root expression.
func parseOne(t *testing.T, source string) Node {
	t.Helper()
	root, err := Parse(source)
	require.NoError(t, err)
	require.Len(t, root.Exprs, 1)
	return root.Exprs[0]
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(t *testing.T, n Node)
	}{
		{
			name:   "string with escapes",
			source: `"a\nb\"c"`,
			check: func(t *testing.T, n Node) {
				lit := n.(*StringLit)
				assert.Equal(t, "a\nb\"c", lit.Value)
			},
		},
		{
			name:   "raw string",
			source: `s'no \n escapes'`,
			check: func(t *testing.T, n Node) {
				lit := n.(*RawStringLit)
				assert.Equal(t, `no \n escapes`, lit.Value)
			},
		},
		{
			name:   "integer with separators",
			source: "1_000_000",
			check: func(t *testing.T, n Node) {
				assert.Equal(t, int64(1000000), n.(*IntegerLit).Value)
			},
		},
		{
			name:   "float",
			source: "3.25",
			check: func(t *testing.T, n Node) {
				assert.Equal(t, 3.25, n.(*FloatLit).Value)
			},
		},
		{
			name:   "exponent float",
			source: "1e3",
			check: func(t *testing.T, n Node) {
				assert.Equal(t, 1000.0, n.(*FloatLit).Value)
			},
		},
		{
			name:   "booleans",
			source: "true",
			check: func(t *testing.T, n Node) {
				assert.True(t, n.(*BooleanLit).Value)
			},
		},
		{
			name:   "null",
			source: "null",
			check: func(t *testing.T, n Node) {
				assert.IsType(t, &NullLit{}, n)
			},
		},
		{
			name:   "regex",
			source: `r'\d+'`,
			check: func(t *testing.T, n Node) {
				assert.Equal(t, `\d+`, n.(*RegexLit).Pattern)
			},
		},
		{
			name:   "timestamp",
			source: `t'2021-02-11T16:00:00Z'`,
			check: func(t *testing.T, n Node) {
				assert.Equal(t, "2021-02-11T16:00:00Z", n.(*TimestampLit).Value)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, parseOne(t, tc.source))
		})
	}
}

func TestParseNegativeLiterals(t *testing.T) {
	n := parseOne(t, "-42")
	assert.Equal(t, int64(-42), n.(*IntegerLit).Value)

	n = parseOne(t, "-1.5")
	assert.Equal(t, -1.5, n.(*FloatLit).Value)
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3).
	n := parseOne(t, "1 + 2 * 3")
	add := n.(*OpNode)
	require.Equal(t, OpAdd, add.Op)
	mul := add.Right.(*OpNode)
	assert.Equal(t, OpMul, mul.Op)

	// Comparison binds tighter than &&, which binds tighter than ||.
	n = parseOne(t, "a < 1 && b > 2 || c == 3")
	or := n.(*OpNode)
	require.Equal(t, OpOr, or.Op)
	and := or.Left.(*OpNode)
	require.Equal(t, OpAnd, and.Op)
	assert.Equal(t, OpLt, and.Left.(*OpNode).Op)

	// ?? binds loosest.
	n = parseOne(t, "a ?? b || c")
	errOp := n.(*OpNode)
	require.Equal(t, OpErr, errOp.Op)
	assert.Equal(t, OpOr, errOp.Right.(*OpNode).Op)
}

func TestParseQueries(t *testing.T) {
	t.Run("event root", func(t *testing.T) {
		q := parseOne(t, ".").(*QueryNode)
		assert.Equal(t, TargetExternal, q.Target)
		assert.True(t, q.Path.IsRoot())
	})

	t.Run("event path", func(t *testing.T) {
		q := parseOne(t, ".a.b[0]").(*QueryNode)
		assert.Equal(t, TargetExternal, q.Target)
		assert.Equal(t, path.PrefixEvent, q.Prefix)
		assert.True(t, q.Path.Equal(path.MustParse("a.b[0]")))
	})

	t.Run("metadata path", func(t *testing.T) {
		q := parseOne(t, "%meta.x").(*QueryNode)
		assert.Equal(t, path.PrefixMetadata, q.Prefix)
		assert.True(t, q.Path.Equal(path.MustParse("meta.x")))
	})

	t.Run("quoted field", func(t *testing.T) {
		q := parseOne(t, `."a b"`).(*QueryNode)
		assert.True(t, q.Path.Equal(path.New(path.FieldSegment("a b"))))
	})

	t.Run("coalesce", func(t *testing.T) {
		q := parseOne(t, ".(a|b).c").(*QueryNode)
		require.Equal(t, 2, q.Path.Len())
		assert.True(t, q.Path.Segments[0].IsCoalesce())
		assert.Equal(t, []string{"a", "b"}, q.Path.Segments[0].Coalesce)
	})

	t.Run("coalesce requires two fields", func(t *testing.T) {
		_, err := Parse(".(a)")
		require.Error(t, err)
	})

	t.Run("variable path", func(t *testing.T) {
		q := parseOne(t, "foo.bar").(*QueryNode)
		assert.Equal(t, TargetInternal, q.Target)
		assert.Equal(t, "foo", q.Ident)
	})

	t.Run("container path", func(t *testing.T) {
		q := parseOne(t, "[1, 2][0]").(*QueryNode)
		assert.Equal(t, TargetContainer, q.Target)
		assert.IsType(t, &ArrayLit{}, q.Container)
	})
}

func TestParseAssignment(t *testing.T) {
	t.Run("external single", func(t *testing.T) {
		a := parseOne(t, `.status = "ok"`).(*AssignmentNode)
		assert.Equal(t, AssignExternal, a.Target.Kind)
		assert.True(t, a.Target.Path.Equal(path.MustParse("status")))
		assert.Nil(t, a.Err)
	})

	t.Run("variable single", func(t *testing.T) {
		a := parseOne(t, "x = 1").(*AssignmentNode)
		assert.Equal(t, AssignInternal, a.Target.Kind)
		assert.Equal(t, "x", a.Target.Ident)
	})

	t.Run("variable with path", func(t *testing.T) {
		a := parseOne(t, "x.inner = 1").(*AssignmentNode)
		assert.Equal(t, AssignInternal, a.Target.Kind)
		assert.True(t, a.Target.Path.Equal(path.MustParse("inner")))
	})

	t.Run("infallible pair", func(t *testing.T) {
		a := parseOne(t, `ok, err = to_int("2")`).(*AssignmentNode)
		assert.Equal(t, "ok", a.Target.Ident)
		require.NotNil(t, a.Err)
		assert.Equal(t, "err", a.Err.Ident)
		assert.IsType(t, &CallNode{}, a.Expr)
	})

	t.Run("noop target", func(t *testing.T) {
		a := parseOne(t, "_ = 1").(*AssignmentNode)
		assert.Equal(t, AssignNoop, a.Target.Kind)
	})

	t.Run("equality is not assignment", func(t *testing.T) {
		n := parseOne(t, "x == 1")
		assert.Equal(t, OpEq, n.(*OpNode).Op)
	})
}

func TestParseCalls(t *testing.T) {
	t.Run("positional and named args", func(t *testing.T) {
		c := parseOne(t, `truncate("foobar", limit: 3)`).(*CallNode)
		assert.Equal(t, "truncate", c.Ident)
		assert.False(t, c.Abort)
		require.Len(t, c.Args, 2)
		assert.Equal(t, "", c.Args[0].Name)
		assert.Equal(t, "limit", c.Args[1].Name)
	})

	t.Run("abort variant", func(t *testing.T) {
		c := parseOne(t, `to_bool!("yes")`).(*CallNode)
		assert.True(t, c.Abort)
	})

	t.Run("bang is not abort without parens", func(t *testing.T) {
		n := parseOne(t, "a != b")
		assert.Equal(t, OpNe, n.(*OpNode).Op)
	})

	t.Run("trailing closure", func(t *testing.T) {
		c := parseOne(t, "for_each([1]) -> |i, v| { v }").(*CallNode)
		require.NotNil(t, c.Closure)
		assert.Equal(t, []string{"i", "v"}, c.Closure.Params)
	})

	t.Run("empty closure params", func(t *testing.T) {
		c := parseOne(t, "for_each([1]) -> || { 1 }").(*CallNode)
		require.NotNil(t, c.Closure)
		assert.Empty(t, c.Closure.Params)
	})
}

func TestParseControlFlow(t *testing.T) {
	t.Run("if else chain", func(t *testing.T) {
		n := parseOne(t, "if a { 1 } else if b { 2 } else { 3 }").(*IfNode)
		require.NotNil(t, n.Alternative)
		chained := n.Alternative.(*IfNode)
		assert.IsType(t, &Block{}, chained.Alternative)
	})

	t.Run("abort with message", func(t *testing.T) {
		n := parseOne(t, `abort "bad event"`).(*AbortNode)
		assert.IsType(t, &StringLit{}, n.Message)
	})

	t.Run("abort without message", func(t *testing.T) {
		root, err := Parse("abort\n1")
		require.NoError(t, err)
		require.Len(t, root.Exprs, 2)
		assert.Nil(t, root.Exprs[0].(*AbortNode).Message)
	})

	t.Run("return", func(t *testing.T) {
		n := parseOne(t, "return 42").(*ReturnNode)
		assert.Equal(t, int64(42), n.Expr.(*IntegerLit).Value)
	})
}

func TestParseContainers(t *testing.T) {
	t.Run("object keeps source order", func(t *testing.T) {
		o := parseOne(t, `{"b": 1, "a": 2}`).(*ObjectLit)
		require.Len(t, o.Entries, 2)
		assert.Equal(t, "b", o.Entries[0].Key)
		assert.Equal(t, "a", o.Entries[1].Key)
	})

	t.Run("block is not an object", func(t *testing.T) {
		n := parseOne(t, "{ 1 }")
		assert.IsType(t, &Block{}, n)
	})

	t.Run("empty braces are an empty object", func(t *testing.T) {
		o := parseOne(t, "{}").(*ObjectLit)
		assert.Empty(t, o.Entries)
	})

	t.Run("nested array", func(t *testing.T) {
		a := parseOne(t, "[1, [2, 3]]").(*ArrayLit)
		require.Len(t, a.Items, 2)
		assert.IsType(t, &ArrayLit{}, a.Items[1])
	})
}

func TestParseSeparators(t *testing.T) {
	root, err := Parse("1\n2;3\n\n\n4")
	require.NoError(t, err)
	assert.Len(t, root.Exprs, 4)

	root, err = Parse("# comment only\n1 # trailing\n")
	require.NoError(t, err)
	assert.Len(t, root.Exprs, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "unterminated string", source: `"abc`},
		{name: "unknown escape", source: `"\q"`},
		{name: "missing operand", source: "1 +"},
		{name: "unclosed block", source: "{ 1"},
		{name: "lone operator", source: "&&"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.source)
			require.Error(t, err)

			var syntax *SyntaxError
			require.ErrorAs(t, err, &syntax)
			assert.Equal(t, ErrSyntax, syntax.Code())
		})
	}
}
