package expression

import (
	"time"

	"github.com/vexlang/vex/pkg/state"
)

// Context carries everything an expression needs to resolve: the external
// target, the variable store, and the timezone used by time functions that
// have no explicit zone argument.
type Context struct {
	target   Target
	state    *state.RuntimeState
	timezone *time.Location
}

// NewContext constructs a resolution context.
func NewContext(target Target, st *state.RuntimeState, timezone *time.Location) *Context {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Context{target: target, state: st, timezone: timezone}
}

// Target returns the external target.
func (c *Context) Target() Target { return c.target }

// State returns the runtime variable store.
func (c *Context) State() *state.RuntimeState { return c.state }

// Timezone returns the default timezone.
func (c *Context) Timezone() *time.Location { return c.timezone }
