package types

import "cmp"

// Collection describes the contents of an object (K = string field names) or
// array (K = int indexes) shape: a mapping of statically known members to
// their kinds, plus one "unknown" kind covering members not statically known
// (for example indexes written from inside a loop).
//
// An unknown of "never" means no members beyond the known ones exist. A
// fully-unknown collection ("members may be anything") is stored as a
// sentinel flag rather than an unknown of Any(), because Any() itself
// contains any-member collections; materializing that kind eagerly would
// recurse forever.
type Collection[K cmp.Ordered] struct {
	known   map[K]Kind
	unknown Kind
	any     bool
}

// EmptyCollection returns a collection with no known members and no unknown
// members: the empty object/array.
func EmptyCollection[K cmp.Ordered]() Collection[K] {
	return Collection[K]{}
}

// AnyCollection returns a collection about whose members nothing is known.
func AnyCollection[K cmp.Ordered]() Collection[K] {
	return Collection[K]{any: true}
}

// CollectionFrom returns a collection with the given known members and no
// unknown members.
func CollectionFrom[K cmp.Ordered](known map[K]Kind) Collection[K] {
	c := Collection[K]{}
	for key, kind := range known {
		c.Set(key, kind)
	}
	return c
}

// Set records the kind of a known member, replacing any previous entry.
func (c *Collection[K]) Set(key K, kind Kind) {
	if c.known == nil {
		c.known = make(map[K]Kind)
	}
	c.known[key] = kind
}

// Remove drops a known member.
func (c *Collection[K]) Remove(key K) {
	delete(c.known, key)
}

// Known returns the kind of a known member.
func (c Collection[K]) Known(key K) (Kind, bool) {
	kind, ok := c.known[key]
	return kind, ok
}

// KnownKeys returns the known member keys in unspecified order.
func (c Collection[K]) KnownKeys() []K {
	keys := make([]K, 0, len(c.known))
	for key := range c.known {
		keys = append(keys, key)
	}
	return keys
}

// KnownLen returns the number of known members.
func (c Collection[K]) KnownLen() int { return len(c.known) }

// Unknown returns the kind of members not statically known. A "never"
// result means no such members exist.
func (c Collection[K]) Unknown() Kind { return c.unknownKind() }

// unknownKind materializes the unknown-member kind, expanding the
// any-members sentinel lazily.
func (c Collection[K]) unknownKind() Kind {
	if c.any {
		return Any()
	}
	return c.unknown
}

// SetUnknown replaces the unknown-member kind.
func (c *Collection[K]) SetUnknown(kind Kind) {
	c.unknown = kind
	c.any = false
}

// IsAny reports whether nothing is known about the collection's members.
func (c Collection[K]) IsAny() bool {
	return len(c.known) == 0 && (c.any || c.unknown.IsAny())
}

// IsEmpty reports whether the collection is provably empty.
func (c Collection[K]) IsEmpty() bool {
	return len(c.known) == 0 && !c.any && c.unknown.IsNever()
}

// MemberKind returns the kind a member lookup yields: the known kind when
// present, else the unknown kind widened with undefined (the member may be
// absent).
func (c Collection[K]) MemberKind(key K) Kind {
	if kind, ok := c.known[key]; ok {
		return kind
	}
	unknown := c.unknownKind()
	if unknown.IsNever() {
		return Undefined()
	}
	return unknown.OrUndefined()
}

// ReduceKind returns the union of every possible member kind, known and
// unknown, plus undefined. Used for lookups whose key is not statically
// known.
func (c Collection[K]) ReduceKind() Kind {
	out := c.unknownKind()
	for _, kind := range c.known {
		out = out.Union(kind)
	}
	return out.OrUndefined()
}

// Anonymize folds all known member kinds into the unknown kind, forgetting
// which keys they belonged to.
func (c *Collection[K]) Anonymize() {
	unknown := c.unknownKind()
	for _, kind := range c.known {
		unknown = unknown.Union(kind)
	}
	c.known = nil
	c.any = false
	c.unknown = unknown
}

// Union merges two collections: the known kinds of keys present in either
// side union together, a key absent on one side falling back to that side's
// unknown kind, and the two unknown kinds union.
func (c Collection[K]) Union(other Collection[K]) Collection[K] {
	// An any-members side absorbs everything: every member of the result
	// unions with Any. Short-circuiting here also keeps unions of Any kinds
	// from descending through the sentinel without end.
	if c.isAnyMembers() || other.isAnyMembers() {
		return AnyCollection[K]()
	}

	cu, ou := c.unknownKind(), other.unknownKind()
	out := Collection[K]{unknown: cu.Union(ou)}
	for key, kind := range c.known {
		if otherKind, ok := other.known[key]; ok {
			out.Set(key, kind.Union(otherKind))
		} else if ou.IsNever() {
			out.Set(key, kind.OrUndefined())
		} else {
			out.Set(key, kind.Union(ou))
		}
	}
	for key, otherKind := range other.known {
		if _, ok := c.known[key]; ok {
			continue
		}
		if cu.IsNever() {
			out.Set(key, otherKind.OrUndefined())
		} else {
			out.Set(key, otherKind.Union(cu))
		}
	}
	return out
}

// isAnyMembers reports whether every member, known key or not, may be any
// shape.
func (c Collection[K]) isAnyMembers() bool {
	return c.any && len(c.known) == 0
}

func (c Collection[K]) isSuperset(other Collection[K]) bool {
	if c.isAnyMembers() {
		return true
	}
	for key, otherKind := range other.known {
		if !c.MemberKind(key).Union(Undefined()).IsSuperset(otherKind) {
			return false
		}
	}
	cu, ou := c.unknownKind(), other.unknownKind()
	if !cu.IsNever() || !ou.IsNever() {
		if !cu.OrUndefined().IsSuperset(ou) {
			return false
		}
	}
	return true
}

func (c Collection[K]) clone() Collection[K] {
	out := Collection[K]{unknown: c.unknown, any: c.any}
	for key, kind := range c.known {
		out.Set(key, kind)
	}
	return out
}
