// Package compiler lowers the parsed AST into a resolvable Program,
// enforcing the language's compile-time guarantees: fallibility handling,
// boolean predicates, defined variables and functions, and read-only paths.
package compiler

import (
	"errors"

	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Program is a compiled Vex program, ready for repeated resolution.
type Program struct {
	exprs []expression.Expression
	info  state.TypeInfo
}

// Resolve runs the program against the given context, returning the value
// of its last expression. An early return completes the program with the
// returned value.
func (p *Program) Resolve(ctx *expression.Context) (value.Value, error) {
	var out value.Value = value.Null{}
	for _, expr := range p.exprs {
		v, err := expr.Resolve(ctx)
		if err != nil {
			var ret *expression.ReturnSignal
			if errors.As(err, &ret) {
				return ret.Value, nil
			}
			return nil, err
		}
		out = v
	}
	return out, nil
}

// FinalTypeInfo returns the type state and result type after the last
// expression.
func (p *Program) FinalTypeInfo() state.TypeInfo { return p.info }

// TypeDef returns the type definition of the program's result.
func (p *Program) TypeDef() types.TypeDef {
	def := p.info.Result
	// Early returns surface as the program result.
	if !def.Returns().IsNever() {
		def = def.WithKind(def.Kind().Union(def.Returns()))
	}
	return def
}

// CompilationResult is a successful compilation: the program plus any
// non-fatal warnings.
type CompilationResult struct {
	Program  *Program
	Warnings diagnostic.DiagnosticList
}
