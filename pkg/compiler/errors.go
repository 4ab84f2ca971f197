package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/types"
)

// Diagnostic codes emitted by the compiler.
const (
	ErrNonBooleanPredicate = 102
	ErrUnhandledFallible   = 103
	ErrUnneededErrAssign   = 104
	ErrUndefinedFunction   = 105
	ErrTooManyArguments    = 106
	ErrRequiredArgument    = 107
	ErrUnknownKeyword      = 108
	ErrInvalidArgumentKind = 110
	ErrClosure             = 120
	ErrAbortMessage        = 300
	ErrReadOnlyAssignment  = 315
	ErrFunctionCompile     = 610
	ErrAbortInfallible     = 620
	ErrFallibleReturn      = 631
	ErrNonBooleanNegation  = 660
	ErrBitwiseNotOperand   = 670
	ErrUndefinedVariable   = 701
	WarnUnusedResult       = 801
)

// compileError is a coded compilation diagnostic.
type compileError struct {
	code    int
	message string
	labels  []diagnostic.Label
	notes   []diagnostic.Note
}

func (e *compileError) Error() string              { return e.message }
func (e *compileError) Code() int                  { return e.code }
func (e *compileError) Message() string            { return e.message }
func (e *compileError) Labels() []diagnostic.Label { return e.labels }
func (e *compileError) Notes() []diagnostic.Note   { return e.notes }

func errNonBooleanPredicate(kind types.Kind, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrNonBooleanPredicate,
		message: "if-statement predicate must be a boolean",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "this expression resolves to %s", kind),
		},
		notes: []diagnostic.Note{diagnostic.CoerceValue()},
	}
}

func errUnhandledFallible(span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrUnhandledFallible,
		message: "unhandled fallible expression",
		labels: []diagnostic.Label{
			diagnostic.NewPrimaryLabel("this expression can fail", span),
			diagnostic.NewContextLabel("handle the error case to ensure the program can't fail", span),
		},
		notes: []diagnostic.Note{diagnostic.SeeErrorDocs()},
	}
}

func errUnneededErrAssign(span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrUnneededErrAssign,
		message: "unneeded error assignment",
		labels: []diagnostic.Label{
			diagnostic.NewPrimaryLabel("this expression can't fail", span),
			diagnostic.NewContextLabel("assign to a single target instead", span),
		},
		notes: []diagnostic.Note{diagnostic.SeeErrorDocs()},
	}
}

func errUndefinedFunction(ident string, idents []string, span diagnostic.Span) *compileError {
	e := &compileError{
		code:    ErrUndefinedFunction,
		message: "call to undefined function",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "undefined function %q", ident),
		},
	}
	if suggestion, ok := suggest(ident, idents); ok {
		e.labels = append(e.labels, diagnostic.Contextf(span, "did you mean %q?", suggestion))
	}
	return e
}

func errTooManyArguments(ident string, max int, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrTooManyArguments,
		message: "function argument arity mismatch",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "%q accepts at most %d arguments", ident, max),
		},
		notes: []diagnostic.Note{diagnostic.SeeFunctionDocs(ident)},
	}
}

func errRequiredArgument(ident, keyword string, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrRequiredArgument,
		message: "required function argument missing",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "%q requires the %q argument", ident, keyword),
		},
		notes: []diagnostic.Note{diagnostic.SeeFunctionDocs(ident)},
	}
}

func errUnknownKeyword(ident, keyword string, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrUnknownKeyword,
		message: "unknown function argument keyword",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "%q has no %q argument", ident, keyword),
		},
		notes: []diagnostic.Note{diagnostic.SeeFunctionDocs(ident)},
	}
}

func errInvalidArgumentKind(ident, keyword string, accepts, got types.Kind, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrInvalidArgumentKind,
		message: "invalid argument type",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "argument %q must be %s, got %s", keyword, accepts, got),
		},
		notes: []diagnostic.Note{diagnostic.CoerceValue(), diagnostic.SeeFunctionDocs(ident)},
	}
}

func errClosure(ident, reason string, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrClosure,
		message: "function closure error",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "%s", reason),
		},
		notes: []diagnostic.Note{diagnostic.SeeFunctionDocs(ident)},
	}
}

func errAbortMessage(kind types.Kind, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrAbortMessage,
		message: "abort message must be a string",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "this expression resolves to %s", kind),
		},
		notes: []diagnostic.Note{diagnostic.CoerceValue()},
	}
}

func errReadOnlyAssignment(pathText string, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrReadOnlyAssignment,
		message: "mutation of read-only value",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "%s is read-only and can't be mutated", pathText),
		},
	}
}

func errFunctionCompile(ident string, err error, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrFunctionCompile,
		message: fmt.Sprintf("function compilation error: error[E%d] invalid argument", ErrFunctionCompile),
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "%s", err),
		},
		notes: []diagnostic.Note{diagnostic.SeeFunctionDocs(ident)},
	}
}

func errAbortInfallible(ident string, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrAbortInfallible,
		message: "can't abort function",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "%q can't fail, remove the !", ident),
		},
		notes: []diagnostic.Note{diagnostic.SeeErrorDocs()},
	}
}

func errFallibleReturn(span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrFallibleReturn,
		message: "fallible expression in return statement",
		labels: []diagnostic.Label{
			diagnostic.NewPrimaryLabel("this expression can fail", span),
			diagnostic.NewContextLabel("handle the error before returning it", span),
		},
		notes: []diagnostic.Note{diagnostic.SeeErrorDocs()},
	}
}

func errNonBooleanNegation(kind types.Kind, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrNonBooleanNegation,
		message: "non-boolean negation",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "this expression resolves to %s, not a boolean", kind),
		},
		notes: []diagnostic.Note{diagnostic.CoerceValue()},
	}
}

func errBitwiseNotOperand(kind types.Kind, span diagnostic.Span) *compileError {
	return &compileError{
		code:    ErrBitwiseNotOperand,
		message: "bitwise-not requires an integer",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "this expression resolves to %s", kind),
		},
		notes: []diagnostic.Note{diagnostic.CoerceValue()},
	}
}

func errUndefinedVariable(ident string, idents []string, span diagnostic.Span) *compileError {
	e := &compileError{
		code:    ErrUndefinedVariable,
		message: "call to undefined variable",
		labels: []diagnostic.Label{
			diagnostic.Primaryf(span, "undefined variable %q", ident),
		},
	}
	candidates := append([]string{"null", "true", "false"}, idents...)
	if suggestion, ok := suggest(ident, candidates); ok {
		e.labels = append(e.labels, diagnostic.Contextf(span, "did you mean %q?", suggestion))
	}
	return e
}

func warnUnusedResult(span diagnostic.Span) *compileError {
	return &compileError{
		code:    WarnUnusedResult,
		message: "unused result value",
		labels: []diagnostic.Label{
			diagnostic.NewPrimaryLabel("the result of this expression is unused", span),
			diagnostic.NewContextLabel("assign it to a variable or remove it", span),
		},
	}
}

// suggest returns the candidate closest to ident, when close enough to be a
// plausible typo.
func suggest(ident string, candidates []string) (string, bool) {
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	best := ""
	bestDist := -1
	for _, candidate := range sorted {
		d := levenshtein.Distance(strings.ToLower(ident), strings.ToLower(candidate), nil)
		if bestDist < 0 || d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	if bestDist < 0 || bestDist > len(ident)/2+1 {
		return "", false
	}
	return best, true
}
