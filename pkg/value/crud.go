package value

import (
	"github.com/vexlang/vex/pkg/path"
)

// Path navigation over values. Get, Insert and Remove walk the same segment
// sequence the compile-time kind lattice walks, so runtime behavior and
// inferred types stay in lockstep.

// Get returns the value at p inside v, or nil when the path is absent.
// Negative array indexes wrap once from the end; an index out of range is
// absent, not an error. A coalesce segment resolves to the first field
// present in the object.
func Get(v Value, p path.Path) Value {
	cur := v
	for _, seg := range p.Segments {
		if cur == nil {
			return nil
		}
		switch seg.Kind {
		case path.KindField:
			obj, ok := cur.(*Object)
			if !ok {
				return nil
			}
			child, ok := obj.Get(seg.Field)
			if !ok {
				return nil
			}
			cur = child
		case path.KindIndex:
			arr, ok := cur.(*Array)
			if !ok {
				return nil
			}
			i, ok := resolveIndex(seg.Index, len(arr.Items))
			if !ok {
				return nil
			}
			cur = arr.Items[i]
		case path.KindCoalesce:
			obj, ok := cur.(*Object)
			if !ok {
				return nil
			}
			var child Value
			found := false
			for _, field := range seg.Coalesce {
				if c, ok := obj.Get(field); ok {
					child = c
					found = true
					break
				}
			}
			if !found {
				return nil
			}
			cur = child
		}
	}
	return cur
}

// resolveIndex maps a possibly-negative index onto [0, length). Indexes
// whose magnitude exceeds the length are out of range.
func resolveIndex(i, length int) (int, bool) {
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

// Insert writes newValue at p inside root, creating intermediate containers
// as needed (objects for field segments, null-padded arrays for index
// segments) and overwriting containers of the wrong shape. It returns the
// new root, which differs from root only when the root itself had to be
// replaced.
func Insert(root Value, p path.Path, newValue Value) Value {
	if p.IsRoot() {
		return newValue
	}
	return insertSegments(root, p.Segments, newValue)
}

func insertSegments(cur Value, segments []path.Segment, newValue Value) Value {
	seg := segments[0]
	switch seg.Kind {
	case path.KindField:
		return insertField(cur, seg.Field, segments[1:], newValue)
	case path.KindCoalesce:
		obj, _ := cur.(*Object)
		field := seg.Coalesce[0]
		if obj != nil {
			for _, candidate := range seg.Coalesce {
				if _, ok := obj.Get(candidate); ok {
					field = candidate
					break
				}
			}
		}
		return insertField(cur, field, segments[1:], newValue)
	case path.KindIndex:
		arr, ok := cur.(*Array)
		if !ok {
			arr = NewArray()
		}
		i := seg.Index
		if i < 0 {
			i += len(arr.Items)
			if i < 0 {
				// Pad the front so the new element lands at index 0.
				pad := make([]Value, -i)
				for j := range pad {
					pad[j] = Null{}
				}
				arr.Items = append(pad, arr.Items...)
				i = 0
			}
		}
		for len(arr.Items) <= i {
			arr.Items = append(arr.Items, Null{})
		}
		if len(segments) == 1 {
			arr.Items[i] = newValue
		} else {
			arr.Items[i] = insertSegments(arr.Items[i], segments[1:], newValue)
		}
		return arr
	}
	return cur
}

func insertField(cur Value, field string, rest []path.Segment, newValue Value) Value {
	obj, ok := cur.(*Object)
	if !ok {
		obj = NewObject()
	}
	if len(rest) == 0 {
		obj.Set(field, newValue)
		return obj
	}
	child, _ := obj.Get(field)
	obj.Set(field, insertSegments(child, rest, newValue))
	return obj
}

// Remove deletes the value at p inside root. It returns the removed value
// (nil when the path was absent) and the new root.
//
// Removing the root path does not remove "nothing": it empties the root
// container in place (or replaces a scalar root with null) and returns the
// previous contents. With compact set, parent arrays and objects left empty
// by the removal are themselves removed, checked level by level up the path.
func Remove(root Value, p path.Path, compact bool) (removed, newRoot Value) {
	if p.IsRoot() {
		switch t := root.(type) {
		case *Object:
			prev := NewObject()
			t.Scan(func(key string, v Value) bool {
				prev.Set(key, v)
				return true
			})
			t.Clear()
			return prev, t
		case *Array:
			prev := &Array{Items: t.Items}
			t.Items = nil
			return prev, t
		default:
			return root, Null{}
		}
	}
	removed = removeSegments(root, p.Segments, compact)
	return removed, root
}

func removeSegments(cur Value, segments []path.Segment, compact bool) Value {
	seg := segments[0]
	last := len(segments) == 1

	switch seg.Kind {
	case path.KindField, path.KindCoalesce:
		obj, ok := cur.(*Object)
		if !ok {
			return nil
		}
		field := seg.Field
		if seg.Kind == path.KindCoalesce {
			found := false
			for _, candidate := range seg.Coalesce {
				if _, ok := obj.Get(candidate); ok {
					field = candidate
					found = true
					break
				}
			}
			if !found {
				return nil
			}
		}
		if last {
			removed, _ := obj.Delete(field)
			return removed
		}
		child, ok := obj.Get(field)
		if !ok {
			return nil
		}
		removed := removeSegments(child, segments[1:], compact)
		if compact && removed != nil && isEmptyCollection(child) {
			obj.Delete(field)
		}
		return removed
	case path.KindIndex:
		arr, ok := cur.(*Array)
		if !ok {
			return nil
		}
		i, ok := resolveIndex(seg.Index, len(arr.Items))
		if !ok {
			return nil
		}
		if last {
			removed := arr.Items[i]
			arr.Items = append(arr.Items[:i], arr.Items[i+1:]...)
			return removed
		}
		child := arr.Items[i]
		removed := removeSegments(child, segments[1:], compact)
		if compact && removed != nil && isEmptyCollection(child) {
			arr.Items = append(arr.Items[:i], arr.Items[i+1:]...)
		}
		return removed
	}
	return nil
}

func isEmptyCollection(v Value) bool {
	switch t := v.(type) {
	case *Object:
		return t.Len() == 0
	case *Array:
		return len(t.Items) == 0
	}
	return false
}
