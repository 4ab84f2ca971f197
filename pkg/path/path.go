// Package path implements the segment-based addressing model used to read
// and write into deeply nested event values.
//
// A path is an ordered sequence of segments:
//   - Field: a named object field
//   - Index: an array index (negative indexes count from the end)
//   - Coalesce: a list of candidate field names, resolving to the first
//     one present in the object
//
// A [TargetPath] pairs a path with the root it addresses: the event itself
// or its metadata.
package path

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix identifies which root of the external target a path addresses.
type Prefix uint8

const (
	// PrefixEvent addresses the event root (".").
	PrefixEvent Prefix = iota
	// PrefixMetadata addresses the metadata root ("%").
	PrefixMetadata
)

// String returns the source notation for the prefix.
func (p Prefix) String() string {
	if p == PrefixMetadata {
		return "%"
	}
	return "."
}

// SegmentKind discriminates the segment variants.
type SegmentKind uint8

const (
	// KindField is a named object field segment.
	KindField SegmentKind = iota
	// KindIndex is an array index segment.
	KindIndex
	// KindCoalesce is a first-of-N field segment.
	KindCoalesce
)

// Segment is a single step of a path.
//
// Exactly one of the variant fields is meaningful, selected by Kind.
type Segment struct {
	Kind     SegmentKind
	Field    string
	Index    int
	Coalesce []string
}

// FieldSegment returns a field segment for name.
func FieldSegment(name string) Segment {
	return Segment{Kind: KindField, Field: name}
}

// IndexSegment returns an index segment. Negative indexes address elements
// from the end of the array.
func IndexSegment(i int) Segment {
	return Segment{Kind: KindIndex, Index: i}
}

// CoalesceSegment returns a coalesce segment over the given field names.
// The field list must not be empty.
func CoalesceSegment(fields ...string) Segment {
	if len(fields) == 0 {
		panic("path: coalesce segment with no fields")
	}
	return Segment{Kind: KindCoalesce, Coalesce: fields}
}

// IsField reports whether the segment is a field segment.
func (s Segment) IsField() bool { return s.Kind == KindField }

// IsIndex reports whether the segment is an index segment.
func (s Segment) IsIndex() bool { return s.Kind == KindIndex }

// IsCoalesce reports whether the segment is a coalesce segment.
func (s Segment) IsCoalesce() bool { return s.Kind == KindCoalesce }

// Equal reports segment equality.
func (s Segment) Equal(other Segment) bool {
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case KindField:
		return s.Field == other.Field
	case KindIndex:
		return s.Index == other.Index
	case KindCoalesce:
		if len(s.Coalesce) != len(other.Coalesce) {
			return false
		}
		for i, f := range s.Coalesce {
			if other.Coalesce[i] != f {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the source notation for the segment, without a leading dot.
func (s Segment) String() string {
	switch s.Kind {
	case KindField:
		return quoteField(s.Field)
	case KindIndex:
		return "[" + strconv.Itoa(s.Index) + "]"
	case KindCoalesce:
		quoted := make([]string, len(s.Coalesce))
		for i, f := range s.Coalesce {
			quoted[i] = quoteField(f)
		}
		return "(" + strings.Join(quoted, " | ") + ")"
	}
	return ""
}

func quoteField(name string) string {
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '@' {
			return strconv.Quote(name)
		}
	}
	if name == "" {
		return `""`
	}
	return name
}

// Path is an ordered sequence of segments addressing a location inside a
// value. The empty path addresses the value itself (the root).
type Path struct {
	Segments []Segment
}

// Root returns the empty (root) path.
func Root() Path { return Path{} }

// New returns a path over the given segments.
func New(segments ...Segment) Path {
	return Path{Segments: segments}
}

// Field returns a single-field path.
func Field(name string) Path { return New(FieldSegment(name)) }

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool { return len(p.Segments) == 0 }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.Segments) }

// With returns a copy of p with segment appended.
func (p Path) With(segment Segment) Path {
	segments := make([]Segment, 0, len(p.Segments)+1)
	segments = append(segments, p.Segments...)
	segments = append(segments, segment)
	return Path{Segments: segments}
}

// Concat returns the concatenation of p and other.
func (p Path) Concat(other Path) Path {
	segments := make([]Segment, 0, len(p.Segments)+len(other.Segments))
	segments = append(segments, p.Segments...)
	segments = append(segments, other.Segments...)
	return Path{Segments: segments}
}

// Parent returns the path without its final segment, and false when the path
// is already the root.
func (p Path) Parent() (Path, bool) {
	if p.IsRoot() {
		return Path{}, false
	}
	return Path{Segments: p.Segments[:len(p.Segments)-1]}, true
}

// Equal reports path equality.
func (p Path) Equal(other Path) bool {
	if len(p.Segments) != len(other.Segments) {
		return false
	}
	for i, s := range p.Segments {
		if !s.Equal(other.Segments[i]) {
			return false
		}
	}
	return true
}

// StartsWith reports whether prefix is a leading sub-path of p.
func (p Path) StartsWith(prefix Path) bool {
	if len(prefix.Segments) > len(p.Segments) {
		return false
	}
	for i, s := range prefix.Segments {
		if !s.Equal(p.Segments[i]) {
			return false
		}
	}
	return true
}

// String returns the source notation for the path, without a root prefix.
// The root path renders as ".".
func (p Path) String() string {
	if p.IsRoot() {
		return "."
	}
	var b strings.Builder
	for i, s := range p.Segments {
		if i > 0 && s.Kind != KindIndex {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// TargetPath pairs a path with the external root it addresses.
type TargetPath struct {
	Prefix Prefix
	Path   Path
}

// EventPath returns a target path into the event root.
func EventPath(p Path) TargetPath { return TargetPath{Prefix: PrefixEvent, Path: p} }

// MetadataPath returns a target path into the metadata root.
func MetadataPath(p Path) TargetPath { return TargetPath{Prefix: PrefixMetadata, Path: p} }

// EventRoot returns the target path addressing the whole event.
func EventRoot() TargetPath { return EventPath(Root()) }

// MetadataRoot returns the target path addressing the whole metadata root.
func MetadataRoot() TargetPath { return MetadataPath(Root()) }

// IsRoot reports whether the target path addresses its root directly.
func (t TargetPath) IsRoot() bool { return t.Path.IsRoot() }

// Equal reports target-path equality.
func (t TargetPath) Equal(other TargetPath) bool {
	return t.Prefix == other.Prefix && t.Path.Equal(other.Path)
}

// StartsWith reports whether prefix addresses the same root and is a leading
// sub-path of t.
func (t TargetPath) StartsWith(prefix TargetPath) bool {
	return t.Prefix == prefix.Prefix && t.Path.StartsWith(prefix.Path)
}

// String returns the source notation for the target path.
func (t TargetPath) String() string {
	if t.Path.IsRoot() {
		if t.Prefix == PrefixMetadata {
			return "%"
		}
		return "."
	}
	return t.Prefix.String() + t.Path.String()
}

// Parse parses relative path text such as "a.b[0].(x|y)" into a [Path].
// An empty string or "." yields the root path.
func Parse(text string) (Path, error) {
	p := &pathParser{input: text}
	return p.parse()
}

// MustParse is like [Parse] but panics on malformed input. It simplifies
// static path construction in tests and builtins.
func MustParse(text string) Path {
	p, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("path: MustParse(%q): %v", text, err))
	}
	return p
}

// ParseTarget parses target path text such as ".a.b" or "%meta.x".
func ParseTarget(text string) (TargetPath, error) {
	prefix := PrefixEvent
	switch {
	case strings.HasPrefix(text, "%"):
		prefix = PrefixMetadata
		text = text[1:]
	case strings.HasPrefix(text, "."):
		text = text[1:]
	}
	p, err := Parse(text)
	if err != nil {
		return TargetPath{}, err
	}
	return TargetPath{Prefix: prefix, Path: p}, nil
}

type pathParser struct {
	input string
	pos   int
}

func (p *pathParser) parse() (Path, error) {
	if p.input == "" || p.input == "." {
		return Root(), nil
	}
	var segments []Segment
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == '.':
			p.pos++
		case c == '[':
			seg, err := p.index()
			if err != nil {
				return Path{}, err
			}
			segments = append(segments, seg)
		case c == '(':
			seg, err := p.coalesce()
			if err != nil {
				return Path{}, err
			}
			segments = append(segments, seg)
		default:
			field, err := p.field()
			if err != nil {
				return Path{}, err
			}
			segments = append(segments, FieldSegment(field))
		}
	}
	if len(segments) == 0 {
		return Path{}, fmt.Errorf("invalid path %q", p.input)
	}
	return Path{Segments: segments}, nil
}

func (p *pathParser) index() (Segment, error) {
	close := strings.IndexByte(p.input[p.pos:], ']')
	if close < 0 {
		return Segment{}, fmt.Errorf("unclosed index at offset %d", p.pos)
	}
	raw := p.input[p.pos+1 : p.pos+close]
	i, err := strconv.Atoi(raw)
	if err != nil {
		return Segment{}, fmt.Errorf("invalid index %q at offset %d", raw, p.pos)
	}
	p.pos += close + 1
	return IndexSegment(i), nil
}

func (p *pathParser) coalesce() (Segment, error) {
	close := strings.IndexByte(p.input[p.pos:], ')')
	if close < 0 {
		return Segment{}, fmt.Errorf("unclosed coalesce at offset %d", p.pos)
	}
	raw := p.input[p.pos+1 : p.pos+close]
	parts := strings.Split(raw, "|")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		field := strings.TrimSpace(part)
		if field == "" {
			return Segment{}, fmt.Errorf("empty coalesce field at offset %d", p.pos)
		}
		fields = append(fields, unquoteField(field))
	}
	p.pos += close + 1
	return CoalesceSegment(fields...), nil
}

func (p *pathParser) field() (string, error) {
	if p.input[p.pos] == '"' {
		end := strings.IndexByte(p.input[p.pos+1:], '"')
		if end < 0 {
			return "", fmt.Errorf("unclosed quoted field at offset %d", p.pos)
		}
		field := p.input[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
		return field, nil
	}
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '.' || c == '[' || c == '(' {
			break
		}
		p.pos++
	}
	field := p.input[start:p.pos]
	if field == "" {
		return "", fmt.Errorf("empty field at offset %d", start)
	}
	return field, nil
}

func unquoteField(field string) string {
	if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
		return field[1 : len(field)-1]
	}
	return field
}
