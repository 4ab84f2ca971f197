package stdlib

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// truncate

type truncate struct{}

func (truncate) Identifier() string { return "truncate" }

func (truncate) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.Bytes(), true),
		param("limit", types.Integer(), true),
		param("suffix", types.Bytes(), false),
	}
}

func (truncate) Examples() []expression.Example {
	return []expression.Example{
		{Title: "with suffix", Source: `truncate("foobarzoo", 3, suffix: "...")`, Result: `"foo..."`},
	}
}

func (truncate) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	limit := args.Required("limit")
	suffix := optionalExpr(args, "suffix")

	return &fnExpr{
		def: types.BytesDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			s, err := resolveString(ctx, arg)
			if err != nil {
				return nil, err
			}
			max, err := resolveInt(ctx, limit)
			if err != nil {
				return nil, err
			}
			tail, err := resolveStringOr(ctx, suffix, "")
			if err != nil {
				return nil, err
			}
			if max < 0 {
				max = 0
			}

			// Truncation counts grapheme clusters, not bytes, so combining
			// sequences survive intact.
			end := 0
			truncated := false
			var n int64
			g := uniseg.NewGraphemes(s)
			for g.Next() {
				if n >= max {
					truncated = true
					break
				}
				_, end = g.Positions()
				n++
			}
			out := s[:end]
			if truncated {
				out += tail
			}
			return value.Bytes(out), nil
		},
	}, nil
}

// replace

type replace struct{}

func (replace) Identifier() string { return "replace" }

func (replace) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.Bytes(), true),
		param("pattern", types.Bytes().OrRegex(), true),
		param("with", types.Bytes(), true),
		param("count", types.Integer(), false),
	}
}

func (replace) Examples() []expression.Example {
	return []expression.Example{
		{
			Title:  "capture group reference",
			Source: `replace("id=123", r'id=(?P<num>\d+)', "$num")`,
			Result: `"123"`,
		},
	}
}

func (replace) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	pattern := args.Required("pattern")
	with := args.Required("with")
	count := optionalExpr(args, "count")

	return &fnExpr{
		def: types.BytesDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			s, err := resolveString(ctx, arg)
			if err != nil {
				return nil, err
			}
			pat, err := pattern.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			repl, err := resolveString(ctx, with)
			if err != nil {
				return nil, err
			}
			n, err := resolveIntOr(ctx, count, -1)
			if err != nil {
				return nil, err
			}

			switch p := pat.(type) {
			case value.Bytes:
				return value.Bytes(strings.Replace(s, string(p), repl, int(n))), nil
			case value.Regex:
				return value.Bytes(replaceRegex(p, s, repl, n)), nil
			}
			return nil, fmt.Errorf("replace pattern must be a string or regex, got %s", pat.Type())
		},
	}, nil
}

// replaceRegex substitutes up to count matches, expanding $name and ${name}
// capture references in the replacement.
func replaceRegex(re value.Regex, s, repl string, count int64) string {
	if count < 0 {
		return re.ReplaceAllString(s, repl)
	}
	var out []byte
	last := 0
	var done int64
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		if done >= count {
			break
		}
		out = append(out, s[last:m[0]]...)
		out = re.ExpandString(out, repl, s, m)
		last = m[1]
		done++
	}
	return string(append(out, s[last:]...))
}

// upcase / downcase

type upcase struct{}

func (upcase) Identifier() string { return "upcase" }

func (upcase) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.Bytes(), true)}
}

func (upcase) Examples() []expression.Example { return noExamples }

func (upcase) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	return compileStringMap(args, strings.ToUpper)
}

type downcase struct{}

func (downcase) Identifier() string { return "downcase" }

func (downcase) Parameters() []expression.Parameter {
	return []expression.Parameter{param("value", types.Bytes(), true)}
}

func (downcase) Examples() []expression.Example { return noExamples }

func (downcase) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	return compileStringMap(args, strings.ToLower)
}

func compileStringMap(args expression.ArgumentList, fn func(string) string) (expression.Expression, error) {
	arg := args.Required("value")
	return &fnExpr{
		def: types.BytesDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			s, err := resolveString(ctx, arg)
			if err != nil {
				return nil, err
			}
			return value.Bytes(fn(s)), nil
		},
	}, nil
}

// contains / starts_with / ends_with

type contains struct{}

func (contains) Identifier() string { return "contains" }

func (contains) Parameters() []expression.Parameter { return substringParams() }

func (contains) Examples() []expression.Example { return noExamples }

func (contains) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	return compileSubstringTest(args, strings.Contains)
}

type startsWith struct{}

func (startsWith) Identifier() string { return "starts_with" }

func (startsWith) Parameters() []expression.Parameter { return substringParams() }

func (startsWith) Examples() []expression.Example { return noExamples }

func (startsWith) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	return compileSubstringTest(args, strings.HasPrefix)
}

type endsWith struct{}

func (endsWith) Identifier() string { return "ends_with" }

func (endsWith) Parameters() []expression.Parameter { return substringParams() }

func (endsWith) Examples() []expression.Example { return noExamples }

func (endsWith) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	return compileSubstringTest(args, strings.HasSuffix)
}

func substringParams() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.Bytes(), true),
		param("substring", types.Bytes(), true),
		param("case_sensitive", types.Boolean(), false),
	}
}

func compileSubstringTest(args expression.ArgumentList, test func(s, sub string) bool) (expression.Expression, error) {
	arg := args.Required("value")
	substring := args.Required("substring")
	caseSensitive := optionalExpr(args, "case_sensitive")

	return &fnExpr{
		def: types.BooleanDef(),
		run: func(ctx *expression.Context) (value.Value, error) {
			s, err := resolveString(ctx, arg)
			if err != nil {
				return nil, err
			}
			sub, err := resolveString(ctx, substring)
			if err != nil {
				return nil, err
			}
			sensitive, err := resolveBoolOr(ctx, caseSensitive, true)
			if err != nil {
				return nil, err
			}
			if !sensitive {
				s = strings.ToLower(s)
				sub = strings.ToLower(sub)
			}
			return value.Boolean(test(s, sub)), nil
		},
	}, nil
}

// split

type split struct{}

func (split) Identifier() string { return "split" }

func (split) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.Bytes(), true),
		param("pattern", types.Bytes().OrRegex(), true),
		param("limit", types.Integer(), false),
	}
}

func (split) Examples() []expression.Example { return noExamples }

func (split) Compile(_ *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	pattern := args.Required("pattern")
	limit := optionalExpr(args, "limit")

	coll := types.EmptyCollection[int]()
	coll.SetUnknown(types.Bytes())

	return &fnExpr{
		def: types.ArrayDef(coll),
		run: func(ctx *expression.Context) (value.Value, error) {
			s, err := resolveString(ctx, arg)
			if err != nil {
				return nil, err
			}
			pat, err := pattern.Resolve(ctx)
			if err != nil {
				return nil, err
			}
			n, err := resolveIntOr(ctx, limit, -1)
			if err != nil {
				return nil, err
			}

			var parts []string
			switch p := pat.(type) {
			case value.Bytes:
				parts = strings.SplitN(s, string(p), int(n))
			case value.Regex:
				parts = p.Split(s, int(n))
			default:
				return nil, fmt.Errorf("split pattern must be a string or regex, got %s", pat.Type())
			}

			items := make([]value.Value, len(parts))
			for i, part := range parts {
				items[i] = value.Bytes(part)
			}
			return value.NewArray(items...), nil
		},
	}, nil
}

// join

type join struct{}

func (join) Identifier() string { return "join" }

func (join) Parameters() []expression.Parameter {
	return []expression.Parameter{
		param("value", types.AnyArray(), true),
		param("separator", types.Bytes(), false),
	}
}

func (join) Examples() []expression.Example { return noExamples }

func (join) Compile(st *state.TypeState, _ *expression.FunctionCompileContext, args expression.ArgumentList) (expression.Expression, error) {
	arg := args.Required("value")
	separator := optionalExpr(args, "separator")

	// Infallible only when every element is statically a string.
	fallible := true
	if coll, ok := argKind(st, arg).ArrayCollection(); ok {
		fallible = !types.Bytes().IsSuperset(coll.ReduceKind())
	}

	return &fnExpr{
		def: types.BytesDef().MaybeFallible(fallible),
		run: func(ctx *expression.Context) (value.Value, error) {
			arr, err := resolveArray(ctx, arg)
			if err != nil {
				return nil, err
			}
			sep, err := resolveStringOr(ctx, separator, "")
			if err != nil {
				return nil, err
			}

			parts := make([]string, len(arr.Items))
			for i, item := range arr.Items {
				s, err := value.AsString(item)
				if err != nil {
					return nil, fmt.Errorf("unable to join: array elements must be strings, got %s", item.Type())
				}
				parts[i] = s
			}
			return value.Bytes(strings.Join(parts, sep)), nil
		},
	}, nil
}
