// Package state implements the type state threaded through compilation —
// local variable bindings, external (event/metadata) root kinds — and the
// variable store mutated at runtime.
package state

import (
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// Details is what the compiler knows about one binding: its type definition
// and, when it proved a constant, the literal value.
type Details struct {
	Type  types.TypeDef
	Value value.Value
}

// Merge returns the union of two possible binding states: type definitions
// union, and the known constant survives only when both sides agree on it.
func (d Details) Merge(other Details) Details {
	merged := Details{Type: d.Type.Union(other.Type)}
	if d.Value != nil && other.Value != nil && value.Equal(d.Value, other.Value) {
		merged.Value = d.Value
	}
	return merged
}

// LocalEnv is the compile-time local variable environment, limited to a
// lexical scope.
type LocalEnv struct {
	bindings map[string]Details
}

// NewLocalEnv returns an empty local environment.
func NewLocalEnv() LocalEnv {
	return LocalEnv{bindings: make(map[string]Details)}
}

// Variable returns the binding details for ident.
func (e LocalEnv) Variable(ident string) (Details, bool) {
	d, ok := e.bindings[ident]
	return d, ok
}

// VariableIdents returns the identifiers currently bound, in unspecified
// order.
func (e LocalEnv) VariableIdents() []string {
	idents := make([]string, 0, len(e.bindings))
	for ident := range e.bindings {
		idents = append(idents, ident)
	}
	return idents
}

// InsertVariable binds ident to details, replacing any previous binding.
func (e *LocalEnv) InsertVariable(ident string, details Details) {
	if e.bindings == nil {
		e.bindings = make(map[string]Details)
	}
	e.bindings[ident] = details
}

// RemoveVariable drops the binding for ident, returning it if present.
func (e *LocalEnv) RemoveVariable(ident string) (Details, bool) {
	d, ok := e.bindings[ident]
	delete(e.bindings, ident)
	return d, ok
}

// Clone returns an independent copy of the environment.
func (e LocalEnv) Clone() LocalEnv {
	out := LocalEnv{bindings: make(map[string]Details, len(e.bindings))}
	for ident, details := range e.bindings {
		out.bindings[ident] = details
	}
	return out
}

// ApplyChildScope copies back only the child's mutations to bindings that
// already existed in the parent. Bindings introduced inside the child scope
// do not leak out; reassignments of parent bindings do.
func (e LocalEnv) ApplyChildScope(child LocalEnv) LocalEnv {
	out := e.Clone()
	for ident, childDetails := range child.bindings {
		if _, ok := out.bindings[ident]; ok {
			out.bindings[ident] = childDetails
		}
	}
	return out
}

// Merge combines two environments at a control-flow join point. A binding
// present in only one branch is kept (the variable is defined whichever
// branch executed); conflicting bindings combine via [Details.Merge].
func (e LocalEnv) Merge(other LocalEnv) LocalEnv {
	out := e.Clone()
	for ident, otherDetails := range other.bindings {
		if selfDetails, ok := out.bindings[ident]; ok {
			out.bindings[ident] = selfDetails.Merge(otherDetails)
		} else {
			out.bindings[ident] = otherDetails
		}
	}
	return out
}

// ExternalEnv is the compile-time view of the external target: the event
// root's binding details and the metadata root's kind.
type ExternalEnv struct {
	target   Details
	metadata types.Kind
}

// NewExternalEnv returns the default external environment: both roots are
// objects about whose contents nothing is known.
func NewExternalEnv() ExternalEnv {
	return NewExternalEnvWithKind(types.AnyObject(), types.AnyObject())
}

// NewExternalEnvWithKind returns an external environment starting from the
// given event and metadata root kinds.
func NewExternalEnvWithKind(target, metadata types.Kind) ExternalEnv {
	return ExternalEnv{
		target:   Details{Type: types.DefFromKind(target)},
		metadata: metadata,
	}
}

// Target returns the event root's binding details.
func (e ExternalEnv) Target() Details { return e.target }

// TargetKind returns the event root's kind.
func (e ExternalEnv) TargetKind() types.Kind { return e.target.Type.Kind() }

// MetadataKind returns the metadata root's kind.
func (e ExternalEnv) MetadataKind() types.Kind { return e.metadata }

// Kind dispatches between the event and metadata root kinds. Every query
// against an external path goes through here.
func (e ExternalEnv) Kind(prefix path.Prefix) types.Kind {
	if prefix == path.PrefixMetadata {
		return e.metadata
	}
	return e.TargetKind()
}

// UpdateTarget replaces the event root's binding details.
func (e *ExternalEnv) UpdateTarget(details Details) { e.target = details }

// UpdateMetadata replaces the metadata root's kind.
func (e *ExternalEnv) UpdateMetadata(kind types.Kind) { e.metadata = kind }

// Merge unions two external environments.
func (e ExternalEnv) Merge(other ExternalEnv) ExternalEnv {
	return ExternalEnv{
		target:   e.target.Merge(other.target),
		metadata: e.metadata.Union(other.metadata),
	}
}

// TypeState is the full type state at a program point.
type TypeState struct {
	Local    LocalEnv
	External ExternalEnv
}

// NewTypeState returns the default type state.
func NewTypeState() TypeState {
	return TypeState{Local: NewLocalEnv(), External: NewExternalEnv()}
}

// Clone returns an independent copy of the state.
func (s TypeState) Clone() TypeState {
	return TypeState{Local: s.Local.Clone(), External: s.External}
}

// Merge combines two states at a control-flow join point.
func (s TypeState) Merge(other TypeState) TypeState {
	return TypeState{
		Local:    s.Local.Merge(other.Local),
		External: s.External.Merge(other.External),
	}
}

// TypeInfo pairs the type state after an expression resolves with the type
// of the expression's own result.
type TypeInfo struct {
	State  TypeState
	Result types.TypeDef
}

// NewTypeInfo constructs a TypeInfo.
func NewTypeInfo(state TypeState, result types.TypeDef) TypeInfo {
	return TypeInfo{State: state, Result: result}
}

// MapResult returns a copy with the result transformed by fn.
func (i TypeInfo) MapResult(fn func(types.TypeDef) types.TypeDef) TypeInfo {
	i.Result = fn(i.Result)
	return i
}

// RuntimeState is the concrete variable store mutated while a program
// resolves.
type RuntimeState struct {
	variables map[string]value.Value
}

// NewRuntimeState returns an empty variable store.
func NewRuntimeState() *RuntimeState {
	return &RuntimeState{variables: make(map[string]value.Value)}
}

// IsEmpty reports whether no variables are bound.
func (s *RuntimeState) IsEmpty() bool { return len(s.variables) == 0 }

// Clear removes all variables.
func (s *RuntimeState) Clear() {
	for ident := range s.variables {
		delete(s.variables, ident)
	}
}

// Variable returns the value bound to ident.
func (s *RuntimeState) Variable(ident string) (value.Value, bool) {
	v, ok := s.variables[ident]
	return v, ok
}

// InsertVariable binds ident to v.
func (s *RuntimeState) InsertVariable(ident string, v value.Value) {
	if s.variables == nil {
		s.variables = make(map[string]value.Value)
	}
	s.variables[ident] = v
}

// RemoveVariable drops the binding for ident.
func (s *RuntimeState) RemoveVariable(ident string) {
	delete(s.variables, ident)
}

// SwapVariable binds ident to v and returns the previous value, if any.
// Closure runners use the returned value to restore shadowed bindings.
func (s *RuntimeState) SwapVariable(ident string, v value.Value) (value.Value, bool) {
	prev, ok := s.variables[ident]
	s.InsertVariable(ident, v)
	return prev, ok
}
