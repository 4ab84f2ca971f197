package compiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/parser"
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/stdlib"
)

func compileSource(t *testing.T, source string) (*CompilationResult, diagnostic.DiagnosticList) {
	t.Helper()
	root, err := parser.Parse(source)
	require.NoError(t, err)
	return Compile(root, stdlib.All())
}

func codes(diags diagnostic.DiagnosticList) []int {
	out := make([]int, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestCompileOK(t *testing.T) {
	sources := []string{
		`.status = "ok"`,
		`x = 1; x + 2`,
		`if .a == 1 { .b = 2 }`,
		`ok, err = to_bool(.verbose)`,
		`to_bool("yes") ?? false`,
		`to_bool!("yes")`,
		`del(.field)`,
		`upcase!(.message)`,
		`upcase(string!(.message))`,
	}
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			result, diags := compileSource(t, source)
			require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())
			require.NotNil(t, result)
		})
	}
}

func TestCompileDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   int
	}{
		{name: "non-boolean predicate", source: "if 1 { 2 }", code: ErrNonBooleanPredicate},
		{name: "unhandled fallible statement", source: `to_bool("x")`, code: ErrUnhandledFallible},
		{name: "unhandled fallible argument", source: `is_null(to_bool("x"))`, code: ErrUnhandledFallible},
		{name: "unneeded error assignment", source: "ok, err = 1", code: ErrUnneededErrAssign},
		{name: "undefined function", source: "nope()", code: ErrUndefinedFunction},
		{name: "too many arguments", source: "is_null(1, 2)", code: ErrTooManyArguments},
		{name: "required argument missing", source: `truncate("x")`, code: ErrRequiredArgument},
		{name: "unknown keyword", source: `truncate("x", limit: 1, nope: 2)`, code: ErrUnknownKeyword},
		{name: "invalid argument type", source: "truncate(1, limit: 1)", code: ErrInvalidArgumentKind},
		{name: "missing required closure", source: "for_each([1])", code: ErrClosure},
		{name: "unexpected closure", source: "is_null(1) -> |x| { x }", code: ErrClosure},
		{name: "closure arity", source: "for_each([1]) -> |x| { x }", code: ErrClosure},
		{name: "abort message not a string", source: "abort 1", code: ErrAbortMessage},
		{name: "abort on infallible call", source: "is_null!(1)", code: ErrAbortInfallible},
		{name: "fallible return", source: `return to_bool("x")`, code: ErrFallibleReturn},
		{name: "non-boolean negation", source: "!1", code: ErrNonBooleanNegation},
		{name: "bitwise not operand", source: "~true", code: ErrBitwiseNotOperand},
		{name: "undefined variable", source: "foobaz", code: ErrUndefinedVariable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, diags := compileSource(t, tc.source)
			assert.Nil(t, result)
			require.True(t, diags.HasErrors())
			assert.Contains(t, codes(diags), tc.code)
		})
	}
}

func labelMessages(diags diagnostic.DiagnosticList) []string {
	var out []string
	for _, d := range diags {
		for _, l := range d.Labels {
			out = append(out, l.Message)
		}
	}
	return out
}

func TestUndefinedVariableSuggestion(t *testing.T) {
	_, diags := compileSource(t, "foobar = 1\nfoobaz")
	require.True(t, diags.HasErrors())

	assert.Contains(t, codes(diags), ErrUndefinedVariable)
	assert.Contains(t, labelMessages(diags), `did you mean "foobar"?`)
}

func TestUndefinedFunctionSuggestion(t *testing.T) {
	_, diags := compileSource(t, `lenth("x")`)
	require.True(t, diags.HasErrors())
	assert.Contains(t, labelMessages(diags), `did you mean "length"?`)
}

func TestUnusedResultWarning(t *testing.T) {
	result, diags := compileSource(t, "1\n2")
	require.False(t, diags.HasErrors())
	require.NotNil(t, result)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnUnusedResult, result.Warnings[0].Code)

	// The final statement is the program result; never flagged.
	result, diags = compileSource(t, "1")
	require.False(t, diags.HasErrors())
	assert.Empty(t, result.Warnings)
}

func TestGuardedArgumentFallibility(t *testing.T) {
	// .a is any-kinded: the call gains a runtime type check and must be
	// handled.
	_, diags := compileSource(t, "truncate(.a, limit: 3)")
	require.True(t, diags.HasErrors())
	assert.Contains(t, codes(diags), ErrUnhandledFallible)

	// The abort variant handles it.
	result, diags := compileSource(t, "truncate!(.a, limit: 3)")
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())
	require.NotNil(t, result)
}

func TestReadOnlyPaths(t *testing.T) {
	config := expression.NewCompileConfig()
	config.SetReadOnlyPath(path.EventPath(path.MustParse("locked")), true)

	compile := func(source string) diagnostic.DiagnosticList {
		root, err := parser.Parse(source)
		require.NoError(t, err)
		_, diags := CompileWithState(root, stdlib.All(), state.NewTypeState(), config)
		return diags
	}

	diags := compile(".locked = 1")
	assert.Contains(t, codes(diags), ErrReadOnlyAssignment)

	// Recursive read-only paths protect children too.
	diags = compile(".locked.inner = 1")
	assert.Contains(t, codes(diags), ErrReadOnlyAssignment)

	diags = compile(".open = 1")
	assert.False(t, diags.HasErrors())
}

func TestVariableTypeNarrowing(t *testing.T) {
	// After assignment the compiler knows x is a string, so upcase needs
	// no handling.
	result, diags := compileSource(t, `x = "str"
upcase(x)`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())
	require.NotNil(t, result)

	def := result.Program.TypeDef()
	assert.True(t, def.Kind().ContainsBytes())
	assert.False(t, def.IsFallible())
}

func TestBranchStateMerge(t *testing.T) {
	// x is a string in one branch, an integer in the other; its uses must
	// type as the union.
	source := `x = 0
if .flag == true { x = "s" } else { x = 1 }
x`
	result, diags := compileSource(t, source)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())

	def := result.Program.TypeDef()
	assert.True(t, def.Kind().ContainsBytes())
	assert.True(t, def.Kind().ContainsInteger())
}

func TestIfWithoutElseAddsNull(t *testing.T) {
	result, diags := compileSource(t, `if .flag == true { 1 }`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())

	def := result.Program.TypeDef()
	assert.True(t, def.Kind().ContainsInteger())
	assert.True(t, def.Kind().ContainsNull())
}

func TestReturnUnionsIntoTypeDef(t *testing.T) {
	source := `if .early == true { return "short" }
42`
	result, diags := compileSource(t, source)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())

	def := result.Program.TypeDef()
	assert.True(t, def.Kind().ContainsInteger())
	assert.True(t, def.Kind().ContainsBytes())
}

func TestInvalidRegexAndTimestampLiterals(t *testing.T) {
	_, diags := compileSource(t, "r'['")
	require.True(t, diags.HasErrors())

	_, diags = compileSource(t, "t'not a timestamp'")
	require.True(t, diags.HasErrors())
}

func TestEveryDiagnosticHasMessage(t *testing.T) {
	_, diags := compileSource(t, "if 1 { nope() }")
	require.True(t, diags.HasErrors())
	for i, d := range diags {
		assert.NotEmpty(t, d.Message, fmt.Sprintf("diagnostic %d", i))
	}
}
