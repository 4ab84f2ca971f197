package expression

import (
	"fmt"

	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Parameter describes one argument a function accepts.
type Parameter struct {
	// Keyword names the parameter; arguments may be passed positionally or
	// by keyword.
	Keyword string
	// Kind is the set of value kinds the parameter accepts.
	Kind types.Kind
	// Required marks parameters without a default.
	Required bool
}

// ClosureSpec describes the closure a function accepts, if any.
type ClosureSpec struct {
	// Variables is the number of variables the closure binds.
	Variables int
	// Required marks functions that cannot be called without a closure.
	Required bool
}

// Example documents one usage of a function.
type Example struct {
	Title  string
	Source string
	Result string
}

// Function is the capability interface every callable implements. Compile
// validates static arguments and returns the expression that performs the
// call.
type Function interface {
	// Identifier returns the function name used in programs.
	Identifier() string
	// Parameters returns the accepted parameters in positional order.
	Parameters() []Parameter
	// Examples returns documentation examples.
	Examples() []Example
	// Compile builds the call expression from its compiled arguments.
	Compile(st *state.TypeState, ctx *FunctionCompileContext, args ArgumentList) (Expression, error)
}

// ClosureFunction is implemented by functions that accept a trailing
// closure.
type ClosureFunction interface {
	Function
	ClosureSpec() ClosureSpec
}

// FunctionCompileContext carries the compile-time surroundings of one call.
type FunctionCompileContext struct {
	Span   diagnostic.Span
	Config *CompileConfig
}

// ArgumentList gives Function.Compile access to the call's compiled
// arguments, keyed by parameter keyword.
type ArgumentList struct {
	arguments map[string]Expression
	closure   *Closure
	state     state.TypeState
}

// NewArgumentList constructs an argument list. The state is the type state
// at the call site, used to resolve constant arguments.
func NewArgumentList(args map[string]Expression, closure *Closure, st state.TypeState) ArgumentList {
	return ArgumentList{arguments: args, closure: closure, state: st}
}

// Required returns the expression bound to a required parameter. The
// compiler validates presence before Compile runs, so a missing argument is
// a bug.
func (a ArgumentList) Required(keyword string) Expression {
	expr, ok := a.arguments[keyword]
	if !ok {
		panic(fmt.Sprintf("required argument %q missing after validation", keyword))
	}
	return expr
}

// Optional returns the expression bound to an optional parameter.
func (a ArgumentList) Optional(keyword string) (Expression, bool) {
	expr, ok := a.arguments[keyword]
	return expr, ok
}

// RequiredConstant returns the compile-time value of a required parameter,
// failing when the argument is not constant.
func (a ArgumentList) RequiredConstant(keyword string) (value.Value, error) {
	v, err := a.OptionalConstant(keyword)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("required argument %q missing", keyword)
	}
	return v, nil
}

// OptionalConstant returns the compile-time value of an optional parameter,
// or nil when absent. A present but non-constant argument is an error.
func (a ArgumentList) OptionalConstant(keyword string) (value.Value, error) {
	expr, ok := a.arguments[keyword]
	if !ok {
		return nil, nil
	}
	v, ok := ResolveConstant(expr, a.state)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a constant expression", keyword)
	}
	return v, nil
}

// OptionalEnum returns the compile-time string value of an optional
// parameter, validated against the allowed variants.
func (a ArgumentList) OptionalEnum(keyword string, variants []string) (string, error) {
	v, err := a.OptionalConstant(keyword)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	s, err := value.AsString(v)
	if err != nil {
		return "", fmt.Errorf("argument %q must be a string", keyword)
	}
	for _, variant := range variants {
		if s == variant {
			return s, nil
		}
	}
	return "", fmt.Errorf("argument %q must be one of %v", keyword, variants)
}

// RequiredQuery returns a required parameter that must be a path query,
// giving functions such as del and exists access to the path itself.
func (a ArgumentList) RequiredQuery(keyword string) (*Query, error) {
	expr := a.Required(keyword)
	q, ok := expr.(*Query)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a path query", keyword)
	}
	return q, nil
}

// RequiredClosure returns the trailing closure.
func (a ArgumentList) RequiredClosure() (*Closure, error) {
	if a.closure == nil {
		return nil, fmt.Errorf("this function requires a closure")
	}
	return a.closure, nil
}

// OptionalClosure returns the trailing closure, if given.
func (a ArgumentList) OptionalClosure() *Closure { return a.closure }

// FunctionCall wraps the expression a function compiled to, carrying the
// call-site metadata the runtime reports errors with.
type FunctionCall struct {
	Ident string
	Abort bool // the ! variant
	Expr  Expression
	Def   types.TypeDef
	Span  diagnostic.Span
}

// Resolve implements Expression.
func (f *FunctionCall) Resolve(ctx *Context) (value.Value, error) {
	v, err := f.Expr.Resolve(ctx)
	if err != nil {
		if isTerminal(err) {
			return nil, err
		}
		return nil, &FunctionCallError{Ident: f.Ident, Err: err, Span: f.Span}
	}
	return v, nil
}

// TypeInfo implements Expression.
func (f *FunctionCall) TypeInfo(st state.TypeState) state.TypeInfo {
	return state.NewTypeInfo(st, f.Def)
}
