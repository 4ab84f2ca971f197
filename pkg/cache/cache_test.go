package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vex/pkg/compiler"
)

func TestGetAndSet(t *testing.T) {
	c := New(4)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	program := &compiler.CompilationResult{}
	c.Set("a", program)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, program, got)
	assert.Equal(t, 1, c.Len())
}

func TestEvictionIsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	c.Set("a", &compiler.CompilationResult{})
	c.Set("b", &compiler.CompilationResult{})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", &compiler.CompilationResult{})

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestSetReplacesExisting(t *testing.T) {
	c := New(2)
	c.Set("a", &compiler.CompilationResult{})

	replacement := &compiler.CompilationResult{}
	c.Set("a", replacement)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCompile(t *testing.T) {
	c := New(4)

	calls := 0
	program := &compiler.CompilationResult{}
	compile := func() (*compiler.CompilationResult, error) {
		calls++
		return program, nil
	}

	got, err := c.GetOrCompile("a", compile)
	require.NoError(t, err)
	assert.Same(t, program, got)

	got, err = c.GetOrCompile("a", compile)
	require.NoError(t, err)
	assert.Same(t, program, got)
	assert.Equal(t, 1, calls)
}

func TestGetOrCompileDoesNotCacheFailures(t *testing.T) {
	c := New(4)

	calls := 0
	compile := func() (*compiler.CompilationResult, error) {
		calls++
		return nil, errors.New("bad program")
	}

	_, err := c.GetOrCompile("a", compile)
	require.Error(t, err)
	_, err = c.GetOrCompile("a", compile)
	require.Error(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidateAndClear(t *testing.T) {
	c := New(4)
	c.Set("a", &compiler.CompilationResult{})
	c.Set("b", &compiler.CompilationResult{})

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCapacityDefault(t *testing.T) {
	assert.Equal(t, 256, New(0).Capacity())
	assert.Equal(t, 8, New(8).Capacity())
}
