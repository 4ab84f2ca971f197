package vex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/runtime"
	"github.com/vexlang/vex/pkg/value"
)

func resolve(t *testing.T, source string, event value.Value) (value.Value, *expression.TargetValue) {
	t.Helper()
	result, diags := vex.Compile(source)
	require.False(t, diags.HasErrors(), "compile: %s", diags.Error())

	if event == nil {
		event = value.NewObject()
	}
	target := expression.NewTargetValue(event)
	out, err := runtime.NewRuntime().Resolve(target, result.Program, time.UTC)
	require.NoError(t, err)
	return out, target
}

func TestCompileAndResolve(t *testing.T) {
	source := `.processed = true
.tag = upcase!(.source)
.`
	event := value.ObjectFrom(map[string]value.Value{"source": value.Bytes("syslog")})

	out, target := resolve(t, source, event)

	want := value.ObjectFrom(map[string]value.Value{
		"source":    value.Bytes("syslog"),
		"processed": value.Boolean(true),
		"tag":       value.Bytes("SYSLOG"),
	})
	assert.True(t, value.Equal(want, out), "got %s", value.Format(out))
	assert.True(t, value.Equal(want, target.Value))
}

func TestErrorCoalescing(t *testing.T) {
	out, _ := resolve(t, `to_bool("foobar") ?? "fallback"`, nil)
	assert.True(t, value.Equal(value.Bytes("fallback"), out))
}

func TestErrorAssignment(t *testing.T) {
	source := `parsed, err = to_int(.count)
if err != null { .invalid = err }
.`
	event := value.ObjectFrom(map[string]value.Value{"count": value.Bytes("not a number")})

	_, target := resolve(t, source, event)

	invalid := value.Get(target.Value, path.MustParse(".invalid"))
	require.NotNil(t, invalid)
	msg, err := value.AsString(invalid)
	require.NoError(t, err)
	assert.Contains(t, msg, `function call error for "to_int"`)
	assert.Contains(t, msg, `Invalid integer "not a number"`)
}

func TestAbort(t *testing.T) {
	result, diags := vex.Compile(`if .drop == true { abort "dropped" }
.`)
	require.False(t, diags.HasErrors())

	event := value.ObjectFrom(map[string]value.Value{"drop": value.Boolean(true)})
	_, err := runtime.NewRuntime().Resolve(expression.NewTargetValue(event), result.Program, time.UTC)
	require.Error(t, err)

	var term *runtime.Terminate
	require.ErrorAs(t, err, &term)
	assert.True(t, term.IsAbort())
}

func TestCompileDiagnostics(t *testing.T) {
	t.Run("compile errors", func(t *testing.T) {
		result, diags := vex.Compile("nope()")
		assert.Nil(t, result)
		assert.True(t, diags.HasErrors())
	})

	t.Run("parse errors surface as diagnostics", func(t *testing.T) {
		result, diags := vex.Compile("1 +")
		assert.Nil(t, result)
		require.True(t, diags.HasErrors())
		assert.Contains(t, diags.Error(), "syntax error")
	})
}

func TestCompileWithConfig(t *testing.T) {
	config := expression.NewCompileConfig()
	config.SetReadOnlyPath(path.EventPath(path.MustParse("host")), false)

	_, diags := vex.Compile(".host = \"other\"", vex.WithConfig(config))
	assert.True(t, diags.HasErrors())
}

func TestMustCompile(t *testing.T) {
	assert.NotPanics(t, func() { vex.MustCompile(".ok = true") })
	assert.Panics(t, func() { vex.MustCompile("nope()") })
}

func TestCompileCached(t *testing.T) {
	source := ".cached = true"

	first, err := vex.CompileCached(source)
	require.NoError(t, err)
	second, err := vex.CompileCached(source)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = vex.CompileCached("nope()")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, vex.Version())
}
