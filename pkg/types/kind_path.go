package types

import "github.com/vexlang/vex/pkg/path"

// Path navigation over the kind lattice, mirroring the segment walk the
// value model performs at runtime.

// AtPath returns the kind of the value found at p. Field segments look up
// the known member kind, falling back to the collection's unknown kind; a
// coalesce segment unions the kinds of all candidate fields, since any one
// of them might be chosen at runtime. Shapes through which the path cannot
// descend contribute undefined.
func (k Kind) AtPath(p path.Path) Kind {
	cur := k
	for _, seg := range p.Segments {
		cur = cur.atSegment(seg)
	}
	return cur
}

func (k Kind) atSegment(seg path.Segment) Kind {
	out := Never()

	switch seg.Kind {
	case path.KindField:
		if k.object != nil {
			out = out.Union(k.object.MemberKind(seg.Field))
		}
		if k.bits != 0 || k.array != nil {
			// A field access on a non-object shape is absent.
			out = out.OrUndefined()
		}
	case path.KindIndex:
		if k.array != nil {
			if seg.Index >= 0 {
				out = out.Union(k.array.MemberKind(seg.Index))
			} else {
				// Negative indexes depend on the runtime length, which the
				// lattice does not track.
				out = out.Union(k.array.ReduceKind())
			}
		}
		if k.bits != 0 || k.object != nil {
			out = out.OrUndefined()
		}
	case path.KindCoalesce:
		for _, field := range seg.Coalesce {
			out = out.Union(k.atSegment(path.FieldSegment(field)))
		}
	}

	if out.IsNever() {
		return Undefined()
	}
	return out
}

// WithInserted returns the kind after writing a value of the given kind at
// p. Intermediate levels are forced to the container shape the runtime
// insert would create: objects for field segments, arrays for index
// segments.
func (k Kind) WithInserted(p path.Path, kind Kind) Kind {
	if p.IsRoot() {
		return kind
	}
	return k.insertSegments(p.Segments, kind)
}

func (k Kind) insertSegments(segments []path.Segment, kind Kind) Kind {
	seg := segments[0]

	switch seg.Kind {
	case path.KindField, path.KindCoalesce:
		field := seg.Field
		if seg.Kind == path.KindCoalesce {
			// The runtime picks the first present candidate; statically we
			// cannot know which, so any candidate may now hold the value.
			out := k
			for _, f := range seg.Coalesce {
				rest := append([]path.Segment{path.FieldSegment(f)}, segments[1:]...)
				out = out.Union(k.insertSegments(rest, kind))
			}
			return out
		}
		var collection Collection[string]
		if k.object != nil {
			collection = k.object.clone()
		}
		child := Never()
		if existing, ok := collection.Known(field); ok {
			child = existing
		} else if !collection.Unknown().IsNever() {
			child = collection.Unknown()
		}
		if len(segments) == 1 {
			collection.Set(field, kind)
		} else {
			collection.Set(field, child.insertSegments(segments[1:], kind))
		}
		return Object(collection)
	case path.KindIndex:
		var collection Collection[int]
		if k.array != nil {
			collection = k.array.clone()
		}
		if seg.Index < 0 {
			// Unknown final position: widen both the unknown kind and every
			// known entry.
			inserted := kind
			if len(segments) > 1 {
				inserted = Never().insertSegments(segments[1:], kind)
			}
			for _, key := range collection.KnownKeys() {
				existing, _ := collection.Known(key)
				collection.Set(key, existing.Union(inserted))
			}
			collection.SetUnknown(collection.Unknown().Union(inserted))
			return Array(collection)
		}
		child := Never()
		if existing, ok := collection.Known(seg.Index); ok {
			child = existing
		} else if !collection.Unknown().IsNever() {
			child = collection.Unknown()
		}
		if len(segments) == 1 {
			collection.Set(seg.Index, kind)
		} else {
			collection.Set(seg.Index, child.insertSegments(segments[1:], kind))
		}
		// Preceding holes are null-padded by the runtime insert.
		for i := 0; i < seg.Index; i++ {
			if _, ok := collection.Known(i); !ok && collection.Unknown().IsNever() {
				collection.Set(i, Null())
			}
		}
		return Array(collection)
	}
	return k
}

// WithRemoved returns the kind after deleting the value at p, keeping the
// compile-time model in sync with the runtime remove. With compact set,
// ancestor members may also have been removed, so they additionally gain
// the undefined shape.
func (k Kind) WithRemoved(p path.Path, compact bool) Kind {
	if p.IsRoot() {
		// Removing the root empties the container; the shape flags survive.
		out := k
		if out.object != nil {
			empty := EmptyCollection[string]()
			out.object = &empty
		}
		if out.array != nil {
			empty := EmptyCollection[int]()
			out.array = &empty
		}
		return out
	}
	return k.removeSegments(p.Segments, compact)
}

func (k Kind) removeSegments(segments []path.Segment, compact bool) Kind {
	seg := segments[0]
	out := k

	switch seg.Kind {
	case path.KindField, path.KindCoalesce:
		if out.object == nil {
			return out
		}
		collection := out.object.clone()
		fields := []string{seg.Field}
		if seg.Kind == path.KindCoalesce {
			fields = seg.Coalesce
		}
		for _, field := range fields {
			if len(segments) == 1 {
				if seg.Kind == path.KindCoalesce {
					// Statically unknown which candidate is removed.
					if existing, ok := collection.Known(field); ok {
						collection.Set(field, existing.OrUndefined())
					}
				} else {
					collection.Remove(field)
				}
				continue
			}
			existing, ok := collection.Known(field)
			if !ok {
				continue
			}
			child := existing.removeSegments(segments[1:], compact)
			if compact {
				child = child.OrUndefined()
			}
			collection.Set(field, child)
		}
		out.object = &collection
	case path.KindIndex:
		if out.array == nil {
			return out
		}
		collection := out.array.clone()
		// Removal splices the array, shifting later indexes; statically the
		// safest model is to forget per-index knowledge.
		collection.Anonymize()
		collection.SetUnknown(collection.Unknown().OrUndefined())
		out.array = &collection
	}
	return out
}
