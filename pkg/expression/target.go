package expression

import (
	"github.com/vexlang/vex/pkg/path"
	"github.com/vexlang/vex/pkg/value"
)

// Target is the external data a program reads and mutates: the event being
// processed and its metadata.
type Target interface {
	// TargetInsert writes v at the given path, creating intermediate
	// containers as needed.
	TargetInsert(p path.TargetPath, v value.Value) error
	// TargetGet reads the value at the given path. A nil value means the
	// path is absent.
	TargetGet(p path.TargetPath) (value.Value, error)
	// TargetRemove deletes the value at the given path, returning it. With
	// compact set, containers emptied by the removal are deleted too.
	TargetRemove(p path.TargetPath, compact bool) (value.Value, error)
}

// SecretTarget is implemented by targets carrying a secret store alongside
// the event.
type SecretTarget interface {
	GetSecret(key string) (string, bool)
	InsertSecret(key, secret string)
	RemoveSecret(key string)
}

// TargetValue is the standard in-memory target: a value plus metadata and
// secrets.
type TargetValue struct {
	Value    value.Value
	Metadata value.Value
	Secrets  map[string]string
}

// NewTargetValue returns a target over v with empty object metadata.
func NewTargetValue(v value.Value) *TargetValue {
	return &TargetValue{Value: v, Metadata: value.NewObject()}
}

// TargetInsert implements Target.
func (t *TargetValue) TargetInsert(p path.TargetPath, v value.Value) error {
	switch p.Prefix {
	case path.PrefixMetadata:
		t.Metadata = value.Insert(t.Metadata, p.Path, v)
	default:
		t.Value = value.Insert(t.Value, p.Path, v)
	}
	return nil
}

// TargetGet implements Target.
func (t *TargetValue) TargetGet(p path.TargetPath) (value.Value, error) {
	switch p.Prefix {
	case path.PrefixMetadata:
		return value.Get(t.Metadata, p.Path), nil
	default:
		return value.Get(t.Value, p.Path), nil
	}
}

// TargetRemove implements Target.
func (t *TargetValue) TargetRemove(p path.TargetPath, compact bool) (value.Value, error) {
	switch p.Prefix {
	case path.PrefixMetadata:
		removed, root := value.Remove(t.Metadata, p.Path, compact)
		t.Metadata = root
		return removed, nil
	default:
		removed, root := value.Remove(t.Value, p.Path, compact)
		t.Value = root
		return removed, nil
	}
}

// GetSecret implements SecretTarget.
func (t *TargetValue) GetSecret(key string) (string, bool) {
	secret, ok := t.Secrets[key]
	return secret, ok
}

// InsertSecret implements SecretTarget.
func (t *TargetValue) InsertSecret(key, secret string) {
	if t.Secrets == nil {
		t.Secrets = make(map[string]string)
	}
	t.Secrets[key] = secret
}

// RemoveSecret implements SecretTarget.
func (t *TargetValue) RemoveSecret(key string) {
	delete(t.Secrets, key)
}

// String returns the event value's source notation, for REPL display.
func (t *TargetValue) String() string {
	return value.Format(t.Value)
}
