package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/compiler"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/parser"
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/stdlib"
	"github.com/vexlang/vex/pkg/value"
)

func compileProgram(t *testing.T, source string) *compiler.Program {
	t.Helper()
	root, err := parser.Parse(source)
	require.NoError(t, err)
	result, diags := compiler.Compile(root, stdlib.All())
	require.False(t, diags.HasErrors(), "compile: %s", diags.Error())
	return result.Program
}

func TestResolve(t *testing.T) {
	program := compileProgram(t, ".status = \"ok\"\n.status")
	target := expression.NewTargetValue(value.NewObject())

	out, err := NewRuntime().Resolve(target, program, time.UTC)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Bytes("ok"), out))
	assert.True(t, value.Equal(value.Bytes("ok"), value.Get(target.Value, path.MustParse(".status"))))
}

func TestAbortTermination(t *testing.T) {
	program := compileProgram(t, `if .drop == true { abort "dropped by filter" }
.`)
	event := value.ObjectFrom(map[string]value.Value{"drop": value.Boolean(true)})

	_, err := NewRuntime().Resolve(expression.NewTargetValue(event), program, time.UTC)
	require.Error(t, err)

	var term *Terminate
	require.ErrorAs(t, err, &term)
	assert.True(t, term.IsAbort())
	assert.Contains(t, term.Error(), "dropped by filter")

	// Without the flag the program runs to completion.
	out, err := NewRuntime().Resolve(expression.NewTargetValue(value.NewObject()), program, time.UTC)
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestMissingEventTerminatesWithError(t *testing.T) {
	program := compileProgram(t, ".")

	_, err := NewRuntime().Resolve(&expression.TargetValue{Metadata: value.NewObject()}, program, time.UTC)
	require.Error(t, err)

	var term *Terminate
	require.ErrorAs(t, err, &term)
	assert.False(t, term.IsAbort())
}

func TestVariablesPersistAcrossResolves(t *testing.T) {
	program := compileProgram(t, "x = 1\nx")
	r := NewRuntime()

	out, err := r.Resolve(expression.NewTargetValue(value.NewObject()), program, time.UTC)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Integer(1), out))

	// The runtime never empties the store on its own; isolation between
	// documents is the caller's call.
	assert.False(t, r.IsEmpty())

	_, err = r.Resolve(expression.NewTargetValue(value.NewObject()), program, time.UTC)
	require.NoError(t, err)
	assert.False(t, r.IsEmpty())

	r.Clear()
	assert.True(t, r.IsEmpty())
}
