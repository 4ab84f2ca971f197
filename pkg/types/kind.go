// Package types implements the compile-time type representation of the Vex
// compiler: the [Kind] lattice describing the set of possible runtime value
// shapes at a program point, and the [TypeDef] wrapper carrying fallibility,
// purity and early-return metadata.
//
// A Kind is a conservative over-approximation: the true runtime value's
// shape is always a member of the statically computed set. It is sound for
// a Kind to be too broad, never too narrow.
package types

import (
	"sort"
	"strings"
)

type kindBits uint16

const (
	bitBytes kindBits = 1 << iota
	bitInteger
	bitFloat
	bitBoolean
	bitTimestamp
	bitRegex
	bitNull
	bitUndefined

	allScalarBits = bitBytes | bitInteger | bitFloat | bitBoolean | bitTimestamp | bitRegex | bitNull | bitUndefined
)

// Kind describes the set of possible shapes a value may take at a program
// point: independent flags for each scalar variant plus optional collection
// descriptors for object and array shapes.
//
// A Kind with no flags and no collections is "never" (the bottom type).
// Kinds are immutable: all mutators return new values.
type Kind struct {
	bits   kindBits
	object *Collection[string]
	array  *Collection[int]
}

// Never returns the bottom kind: no possible shapes.
func Never() Kind { return Kind{} }

// Any returns the top kind: every possible shape.
func Any() Kind {
	objects := AnyCollection[string]()
	arrays := AnyCollection[int]()
	return Kind{bits: allScalarBits &^ bitUndefined, object: &objects, array: &arrays}
}

// Bytes returns the string kind.
func Bytes() Kind { return Kind{bits: bitBytes} }

// Integer returns the integer kind.
func Integer() Kind { return Kind{bits: bitInteger} }

// Float returns the float kind.
func Float() Kind { return Kind{bits: bitFloat} }

// Boolean returns the boolean kind.
func Boolean() Kind { return Kind{bits: bitBoolean} }

// Timestamp returns the timestamp kind.
func Timestamp() Kind { return Kind{bits: bitTimestamp} }

// Regex returns the regex kind.
func Regex() Kind { return Kind{bits: bitRegex} }

// Null returns the null kind.
func Null() Kind { return Kind{bits: bitNull} }

// Undefined returns the undefined pseudo-kind: a path statically known to be
// absent.
func Undefined() Kind { return Kind{bits: bitUndefined} }

// Object returns an object kind over the given collection.
func Object(collection Collection[string]) Kind {
	return Kind{object: &collection}
}

// AnyObject returns an object kind with fully unknown contents.
func AnyObject() Kind {
	c := AnyCollection[string]()
	return Kind{object: &c}
}

// Array returns an array kind over the given collection.
func Array(collection Collection[int]) Kind {
	return Kind{array: &collection}
}

// AnyArray returns an array kind with fully unknown contents.
func AnyArray() Kind {
	c := AnyCollection[int]()
	return Kind{array: &c}
}

// Or-style adders. Each returns a new Kind with the extra shape included.

// OrBytes includes the string shape.
func (k Kind) OrBytes() Kind { k.bits |= bitBytes; return k }

// OrInteger includes the integer shape.
func (k Kind) OrInteger() Kind { k.bits |= bitInteger; return k }

// OrFloat includes the float shape.
func (k Kind) OrFloat() Kind { k.bits |= bitFloat; return k }

// OrBoolean includes the boolean shape.
func (k Kind) OrBoolean() Kind { k.bits |= bitBoolean; return k }

// OrTimestamp includes the timestamp shape.
func (k Kind) OrTimestamp() Kind { k.bits |= bitTimestamp; return k }

// OrRegex includes the regex shape.
func (k Kind) OrRegex() Kind { k.bits |= bitRegex; return k }

// OrNull includes the null shape.
func (k Kind) OrNull() Kind { k.bits |= bitNull; return k }

// OrUndefined includes the undefined pseudo-shape.
func (k Kind) OrUndefined() Kind { k.bits |= bitUndefined; return k }

// OrObject includes an object shape, unioning with any existing one.
func (k Kind) OrObject(collection Collection[string]) Kind {
	if k.object != nil {
		merged := k.object.Union(collection)
		k.object = &merged
	} else {
		k.object = &collection
	}
	return k
}

// OrArray includes an array shape, unioning with any existing one.
func (k Kind) OrArray(collection Collection[int]) Kind {
	if k.array != nil {
		merged := k.array.Union(collection)
		k.array = &merged
	} else {
		k.array = &collection
	}
	return k
}

// Predicates.

// IsNever reports whether no shape is possible.
func (k Kind) IsNever() bool { return k.bits == 0 && k.object == nil && k.array == nil }

// IsAny reports whether every shape is possible (modulo undefined).
func (k Kind) IsAny() bool {
	return k.bits&(allScalarBits&^bitUndefined) == allScalarBits&^bitUndefined &&
		k.object != nil && k.object.IsAny() &&
		k.array != nil && k.array.IsAny()
}

// ContainsBytes reports whether the string shape is possible.
func (k Kind) ContainsBytes() bool { return k.bits&bitBytes != 0 }

// ContainsInteger reports whether the integer shape is possible.
func (k Kind) ContainsInteger() bool { return k.bits&bitInteger != 0 }

// ContainsFloat reports whether the float shape is possible.
func (k Kind) ContainsFloat() bool { return k.bits&bitFloat != 0 }

// ContainsBoolean reports whether the boolean shape is possible.
func (k Kind) ContainsBoolean() bool { return k.bits&bitBoolean != 0 }

// ContainsTimestamp reports whether the timestamp shape is possible.
func (k Kind) ContainsTimestamp() bool { return k.bits&bitTimestamp != 0 }

// ContainsRegex reports whether the regex shape is possible.
func (k Kind) ContainsRegex() bool { return k.bits&bitRegex != 0 }

// ContainsNull reports whether the null shape is possible.
func (k Kind) ContainsNull() bool { return k.bits&bitNull != 0 }

// ContainsUndefined reports whether the undefined pseudo-shape is possible.
func (k Kind) ContainsUndefined() bool { return k.bits&bitUndefined != 0 }

// ContainsObject reports whether an object shape is possible.
func (k Kind) ContainsObject() bool { return k.object != nil }

// ContainsArray reports whether an array shape is possible.
func (k Kind) ContainsArray() bool { return k.array != nil }

// IsExactly reports whether k allows exactly the shapes of other and nothing
// else, ignoring collection contents.
func (k Kind) IsExactly(other Kind) bool {
	return k.bits == other.bits &&
		(k.object != nil) == (other.object != nil) &&
		(k.array != nil) == (other.array != nil)
}

// IsBytes reports whether the string shape is the only possible one.
func (k Kind) IsBytes() bool { return k.bits == bitBytes && k.object == nil && k.array == nil }

// IsInteger reports whether the integer shape is the only possible one.
func (k Kind) IsInteger() bool { return k.bits == bitInteger && k.object == nil && k.array == nil }

// IsBoolean reports whether the boolean shape is the only possible one.
func (k Kind) IsBoolean() bool { return k.bits == bitBoolean && k.object == nil && k.array == nil }

// IsObject reports whether an object is the only possible shape.
func (k Kind) IsObject() bool { return k.bits == 0 && k.object != nil && k.array == nil }

// IsArray reports whether an array is the only possible shape.
func (k Kind) IsArray() bool { return k.bits == 0 && k.array != nil && k.object == nil }

// ObjectCollection returns the object collection descriptor, if any.
func (k Kind) ObjectCollection() (Collection[string], bool) {
	if k.object == nil {
		return Collection[string]{}, false
	}
	return *k.object, true
}

// ArrayCollection returns the array collection descriptor, if any.
func (k Kind) ArrayCollection() (Collection[int], bool) {
	if k.array == nil {
		return Collection[int]{}, false
	}
	return *k.array, true
}

// Union returns the kind allowing every shape allowed by k or other.
// Union is commutative and idempotent.
func (k Kind) Union(other Kind) Kind {
	out := Kind{bits: k.bits | other.bits}
	switch {
	case k.object != nil && other.object != nil:
		merged := k.object.Union(*other.object)
		out.object = &merged
	case k.object != nil:
		c := k.object.clone()
		out.object = &c
	case other.object != nil:
		c := other.object.clone()
		out.object = &c
	}
	switch {
	case k.array != nil && other.array != nil:
		merged := k.array.Union(*other.array)
		out.array = &merged
	case k.array != nil:
		c := k.array.clone()
		out.array = &c
	case other.array != nil:
		c := other.array.clone()
		out.array = &c
	}
	return out
}

// IsSuperset reports whether every shape allowed by other is allowed by k.
func (k Kind) IsSuperset(other Kind) bool {
	if other.bits&^k.bits != 0 {
		return false
	}
	if other.object != nil {
		if k.object == nil || !k.object.isSuperset(*other.object) {
			return false
		}
	}
	if other.array != nil {
		if k.array == nil || !k.array.isSuperset(*other.array) {
			return false
		}
	}
	return true
}

// Equal reports structural equality of the two kinds.
func (k Kind) Equal(other Kind) bool {
	return k.IsSuperset(other) && other.IsSuperset(k)
}

// UpgradeUndefined converts the undefined pseudo-shape into null, encoding
// the language rule that reading a genuinely-missing path yields null.
func (k Kind) UpgradeUndefined() Kind {
	if k.bits&bitUndefined == 0 {
		return k
	}
	k.bits = (k.bits &^ bitUndefined) | bitNull
	return k
}

// WithoutUndefined drops the undefined pseudo-shape.
func (k Kind) WithoutUndefined() Kind {
	k.bits &^= bitUndefined
	return k
}

// String renders the kind for diagnostics, e.g. "string", "integer or
// string", "any" or "never".
func (k Kind) String() string {
	if k.IsNever() {
		return "never"
	}
	if k.IsAny() {
		return "any"
	}
	var names []string
	if k.ContainsBytes() {
		names = append(names, "string")
	}
	if k.ContainsInteger() {
		names = append(names, "integer")
	}
	if k.ContainsFloat() {
		names = append(names, "float")
	}
	if k.ContainsBoolean() {
		names = append(names, "boolean")
	}
	if k.ContainsTimestamp() {
		names = append(names, "timestamp")
	}
	if k.ContainsRegex() {
		names = append(names, "regex")
	}
	if k.ContainsNull() {
		names = append(names, "null")
	}
	if k.ContainsUndefined() {
		names = append(names, "undefined")
	}
	if k.ContainsArray() {
		names = append(names, "array")
	}
	if k.ContainsObject() {
		names = append(names, "object")
	}
	sort.Strings(names)
	switch len(names) {
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}
