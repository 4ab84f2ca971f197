// Package vex implements the Vex expression language: a compiled, type-safe
// language for transforming structured events.
//
// A Vex program reads and mutates a single event (addressed with dot paths
// such as .message) and resolves to the value of its last expression. The
// compiler proves every program infallible before it runs: fallible
// operations must be handled with !, ?? or an ok/err assignment, and the
// result is a program that cannot crash at runtime.
//
// # Quick Start
//
//	// Compile once, resolve many times.
//	result, diags := vex.Compile(`.status = "ok"`)
//	if diags.HasErrors() {
//	    log.Fatal(diags.Error())
//	}
//
//	rt := runtime.NewRuntime()
//	event := expression.NewTargetValue(value.ObjectFrom(map[string]value.Value{
//	    "message": value.Bytes("hello"),
//	}))
//	out, err := rt.Resolve(event, result.Program, time.UTC)
//
// Programs are immutable once compiled and safe to share across goroutines;
// each goroutine needs its own Runtime.
package vex

import (
	"errors"
	"fmt"

	"github.com/vexlang/vex/pkg/cache"
	"github.com/vexlang/vex/pkg/compiler"
	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/parser"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/stdlib"
)

// Version returns the Vex language version.
func Version() string { return "0.1.0" }

// CompileOption customizes compilation.
type CompileOption func(*compileOptions)

type compileOptions struct {
	fns    []expression.Function
	st     state.TypeState
	config *expression.CompileConfig
}

// WithFunctions adds functions beyond the standard library.
func WithFunctions(fns ...expression.Function) CompileOption {
	return func(o *compileOptions) { o.fns = append(o.fns, fns...) }
}

// WithInitialState compiles against a known type state instead of an
// any-shaped event.
func WithInitialState(st state.TypeState) CompileOption {
	return func(o *compileOptions) { o.st = st }
}

// WithConfig sets the compilation config (read-only paths, lints).
func WithConfig(config *expression.CompileConfig) CompileOption {
	return func(o *compileOptions) { o.config = config }
}

// Compile parses and compiles a program against the standard library. The
// returned diagnostics always carry all errors and warnings found; the
// result is nil when any are errors.
func Compile(source string, opts ...CompileOption) (*compiler.CompilationResult, diagnostic.DiagnosticList) {
	o := compileOptions{
		fns:    stdlib.All(),
		st:     state.NewTypeState(),
		config: expression.NewCompileConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	root, err := parser.Parse(source)
	if err != nil {
		var diags diagnostic.DiagnosticList
		if msg, ok := err.(diagnostic.DiagnosticMessage); ok {
			diags = append(diags, diagnostic.FromMessage(diagnostic.SeverityError, msg))
		} else {
			diags = append(diags, diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Message:  err.Error(),
			})
		}
		return nil, diags
	}

	return compiler.CompileWithState(root, o.fns, o.st, o.config)
}

// MustCompile is Compile for programs known valid, such as tests and
// package-level defaults. It panics on any compilation error.
func MustCompile(source string, opts ...CompileOption) *compiler.CompilationResult {
	result, diags := Compile(source, opts...)
	if diags.HasErrors() {
		panic(fmt.Sprintf("vex: MustCompile(%q): %s", source, diags.Error()))
	}
	return result
}

var programCache = cache.New(256)

// CompileCached compiles through a process-wide LRU keyed by program source.
// Intended for callers that receive program sources repeatedly at runtime;
// compilation failures are not cached. Cached programs compile against the
// standard library and default options only.
func CompileCached(source string) (*compiler.CompilationResult, error) {
	return programCache.GetOrCompile(source, func() (*compiler.CompilationResult, error) {
		result, diags := Compile(source)
		if diags.HasErrors() {
			return nil, errors.New(diags.Error())
		}
		return result, nil
	})
}
