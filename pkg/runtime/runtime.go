// Package runtime executes compiled programs against a target value.
package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vexlang/vex/pkg/compiler"
	"github.com/vexlang/vex/pkg/expression"
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/value"
)

// TerminationKind distinguishes why a program stopped early.
type TerminationKind uint8

const (
	// TerminateAbort means the program chose to discard the event.
	TerminateAbort TerminationKind = iota
	// TerminateError means an expression failed.
	TerminateError
)

// Terminate is the error a failed or aborted resolution returns.
type Terminate struct {
	Kind TerminationKind
	Err  error
}

// Error implements the error interface.
func (t *Terminate) Error() string { return t.Err.Error() }

// Unwrap returns the underlying expression error.
func (t *Terminate) Unwrap() error { return t.Err }

// IsAbort reports whether the program stopped through an abort expression.
func (t *Terminate) IsAbort() bool { return t.Kind == TerminateAbort }

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger attaches a structured logger; resolution failures log at debug
// level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

// Runtime resolves programs. It owns the variable store, which survives
// across resolutions: callers processing a stream of events call
// [Runtime.Clear] between documents when they need isolation. It is not safe for concurrent
// use; give each goroutine its own.
type Runtime struct {
	state  *state.RuntimeState
	logger *slog.Logger
}

// NewRuntime constructs a runtime with an empty variable store.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{state: state.NewRuntimeState()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsEmpty reports whether the variable store holds no values.
func (r *Runtime) IsEmpty() bool { return r.state.IsEmpty() }

// Clear empties the variable store.
func (r *Runtime) Clear() { r.state.Clear() }

// Resolve runs a program against the target. The timezone applies to time
// functions without an explicit zone argument; nil means UTC.
func (r *Runtime) Resolve(target expression.Target, program *compiler.Program, timezone *time.Location) (value.Value, error) {
	// Programs assume an event to operate on.
	root, err := target.TargetGet(path.EventRoot())
	if err != nil {
		return nil, &Terminate{
			Kind: TerminateError,
			Err:  fmt.Errorf("error querying target object: %s", err),
		}
	}
	if root == nil {
		return nil, &Terminate{
			Kind: TerminateError,
			Err:  errors.New("expected target object, got nothing"),
		}
	}

	ctx := expression.NewContext(target, r.state, timezone)
	out, err := program.Resolve(ctx)
	if err != nil {
		return nil, r.terminate(err)
	}
	return out, nil
}

func (r *Runtime) terminate(err error) *Terminate {
	kind := TerminateError
	var abort *expression.AbortError
	if errors.As(err, &abort) {
		kind = TerminateAbort
	}
	if r.logger != nil {
		r.logger.Debug("program terminated",
			slog.Bool("abort", kind == TerminateAbort),
			slog.String("error", err.Error()))
	}
	return &Terminate{Kind: kind, Err: err}
}
