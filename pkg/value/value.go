// Package value implements the dynamic runtime value model of the Vex
// language: null, boolean, integer, float, string, timestamp, regex, array
// and object values, together with the fallible arithmetic, comparison and
// path-navigation operations defined over them.
//
// Two invariants hold for every value produced by this package:
//   - a Float never holds NaN (see [FromFloat64OrZero])
//   - an Object iterates its fields in sorted key order
package value

import (
	"math"
	"regexp"
	"time"

	"github.com/tidwall/btree"
)

// Type identifies the runtime type of a [Value].
type Type uint8

const (
	// TypeNull is the type of the null value.
	TypeNull Type = iota
	// TypeBoolean is the type of true and false.
	TypeBoolean
	// TypeInteger is the type of 64-bit signed integers.
	TypeInteger
	// TypeFloat is the type of 64-bit floats (never NaN).
	TypeFloat
	// TypeBytes is the type of byte strings.
	TypeBytes
	// TypeTimestamp is the type of timezone-aware timestamps.
	TypeTimestamp
	// TypeRegex is the type of compiled regular expressions.
	TypeRegex
	// TypeArray is the type of ordered value sequences.
	TypeArray
	// TypeObject is the type of ordered string-keyed maps.
	TypeObject
)

// String returns the user-facing name of the type. Byte strings render as
// "string", matching the language documentation.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBytes:
		return "string"
	case TypeTimestamp:
		return "timestamp"
	case TypeRegex:
		return "regex"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	}
	return "unknown"
}

// Value is the dynamic runtime value. A nil Value denotes absence (a path
// miss), which is distinct from the null value.
type Value interface {
	// Type returns the runtime type tag of the value.
	Type() Type
}

// Null is the null value.
type Null struct{}

// Type implements [Value].
func (Null) Type() Type { return TypeNull }

// Boolean is a true/false value.
type Boolean bool

// Type implements [Value].
func (Boolean) Type() Type { return TypeBoolean }

// Integer is a 64-bit signed integer value.
type Integer int64

// Type implements [Value].
func (Integer) Type() Type { return TypeInteger }

// Float is a 64-bit float value. Invariant: never NaN. Construct suspect
// floats through [FromFloat64OrZero].
type Float float64

// Type implements [Value].
func (Float) Type() Type { return TypeFloat }

// Bytes is a byte-string value. Vex strings are byte strings; they are not
// required to be valid UTF-8.
type Bytes []byte

// Type implements [Value].
func (Bytes) Type() Type { return TypeBytes }

// Timestamp is a timezone-aware point in time.
type Timestamp struct {
	time.Time
}

// Type implements [Value].
func (Timestamp) Type() Type { return TypeTimestamp }

// NewTimestamp returns a Timestamp value for t.
func NewTimestamp(t time.Time) Timestamp { return Timestamp{t} }

// Regex is a compiled regular expression value.
type Regex struct {
	*regexp.Regexp
}

// Type implements [Value].
func (Regex) Type() Type { return TypeRegex }

// NewRegex returns a Regex value wrapping re.
func NewRegex(re *regexp.Regexp) Regex { return Regex{re} }

// Array is an ordered sequence of values. Arrays are navigated and mutated
// through a pointer so that nested path writes are visible in the parent.
type Array struct {
	Items []Value
}

// Type implements [Value].
func (*Array) Type() Type { return TypeArray }

// NewArray returns an array over items.
func NewArray(items ...Value) *Array {
	return &Array{Items: items}
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Items) }

// Object is an ordered map from string keys to values. Iteration order is
// sorted key order, regardless of insertion order.
type Object struct {
	entries btree.Map[string, Value]
}

// Type implements [Value].
func (*Object) Type() Type { return TypeObject }

// NewObject returns an empty object.
func NewObject() *Object { return &Object{} }

// ObjectFrom returns an object populated from the given map.
func ObjectFrom(fields map[string]Value) *Object {
	o := NewObject()
	for k, v := range fields {
		o.Set(k, v)
	}
	return o
}

// Set stores v under key.
func (o *Object) Set(key string, v Value) { o.entries.Set(key, v) }

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) { return o.entries.Get(key) }

// Delete removes key, returning the previous value if present.
func (o *Object) Delete(key string) (Value, bool) { return o.entries.Delete(key) }

// Len returns the number of fields.
func (o *Object) Len() int { return o.entries.Len() }

// Keys returns the keys in sorted order.
func (o *Object) Keys() []string { return o.entries.Keys() }

// Scan iterates the fields in sorted key order until fn returns false.
func (o *Object) Scan(fn func(key string, v Value) bool) { o.entries.Scan(fn) }

// Clear removes all fields.
func (o *Object) Clear() { o.entries = btree.Map[string, Value]{} }

// FromFloat64OrZero converts f to a Float, collapsing NaN to 0.0. This is
// the only sanctioned way to build a Float from arithmetic whose result may
// be NaN.
func FromFloat64OrZero(f float64) Float {
	if math.IsNaN(f) {
		return Float(0)
	}
	return Float(f)
}

// IsFalsy reports whether v is null or false, the only two falsy values in
// the language.
func IsFalsy(v Value) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case Null:
		return true
	case Boolean:
		return !bool(t)
	}
	return false
}

// Clone returns a deep copy of v. Scalars are returned as-is; arrays and
// objects are copied recursively so mutations of the clone never alias the
// original.
func Clone(v Value) Value {
	switch t := v.(type) {
	case *Array:
		items := make([]Value, len(t.Items))
		for i, item := range t.Items {
			items[i] = Clone(item)
		}
		return &Array{Items: items}
	case *Object:
		o := NewObject()
		t.Scan(func(key string, item Value) bool {
			o.Set(key, Clone(item))
			return true
		})
		return o
	case Bytes:
		b := make(Bytes, len(t))
		copy(b, t)
		return b
	default:
		return v
	}
}

// Equal reports strict deep equality: same type and same contents. Integer
// and float never compare equal to each other here; see [EqualLossy] for the
// numeric-coercing comparison.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch lhs := a.(type) {
	case Null:
		return true
	case Boolean:
		return lhs == b.(Boolean)
	case Integer:
		return lhs == b.(Integer)
	case Float:
		return lhs == b.(Float)
	case Bytes:
		return string(lhs) == string(b.(Bytes))
	case Timestamp:
		return lhs.Time.Equal(b.(Timestamp).Time)
	case Regex:
		return lhs.String() == b.(Regex).String()
	case *Array:
		rhs := b.(*Array)
		if len(lhs.Items) != len(rhs.Items) {
			return false
		}
		for i, item := range lhs.Items {
			if !Equal(item, rhs.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		rhs := b.(*Object)
		if lhs.Len() != rhs.Len() {
			return false
		}
		equal := true
		lhs.Scan(func(key string, item Value) bool {
			other, ok := rhs.Get(key)
			if !ok || !Equal(item, other) {
				equal = false
				return false
			}
			return true
		})
		return equal
	}
	return false
}
