package types

import "github.com/vexlang/vex/pkg/path"

// Fallibility states whether evaluating an expression can fail.
type Fallibility uint8

const (
	// CannotFail marks expressions whose evaluation never errors.
	CannotFail Fallibility = iota
	// MightFail marks expressions whose evaluation may error.
	MightFail
	// AlwaysFails marks expressions whose evaluation always errors.
	AlwaysFails
)

// MergeFallibility combines the fallibility of two sub-expressions:
// AlwaysFails dominates MightFail dominates CannotFail. The operation is
// total, associative and commutative, with CannotFail as identity.
func MergeFallibility(left, right Fallibility) Fallibility {
	if left == AlwaysFails || right == AlwaysFails {
		return AlwaysFails
	}
	if left == MightFail || right == MightFail {
		return MightFail
	}
	return CannotFail
}

// String returns a short description of the fallibility.
func (f Fallibility) String() string {
	switch f {
	case CannotFail:
		return "infallible"
	case MightFail:
		return "fallible"
	case AlwaysFails:
		return "always fails"
	}
	return "unknown"
}

// Purity states whether an expression is idempotent and free of side
// effects outside the program's own state.
type Purity uint8

const (
	// Pure marks idempotent, side-effect-free expressions (the vast
	// majority).
	Pure Purity = iota
	// Impure marks the rest, such as reading the environment or the clock.
	Impure
)

// MergePurity combines two purities: Impure dominates Pure.
func MergePurity(left, right Purity) Purity {
	if left == Impure || right == Impure {
		return Impure
	}
	return Pure
}

// TypeDef is the expected outcome of evaluating an expression: the kind of
// its result, whether evaluation can fail, whether it is pure, and the
// union of kinds an early return nested anywhere inside it could produce.
type TypeDef struct {
	fallibility Fallibility
	kind        Kind
	purity      Purity
	returns     Kind
}

// DefFromKind returns an infallible, pure TypeDef over kind with no return
// paths.
func DefFromKind(kind Kind) TypeDef {
	return TypeDef{fallibility: CannotFail, kind: kind, purity: Pure, returns: Never()}
}

// Shorthand constructors mirroring the Kind constructors.

// AnyDef returns the TypeDef over any kind.
func AnyDef() TypeDef { return DefFromKind(Any()) }

// BytesDef returns the TypeDef over the string kind.
func BytesDef() TypeDef { return DefFromKind(Bytes()) }

// IntegerDef returns the TypeDef over the integer kind.
func IntegerDef() TypeDef { return DefFromKind(Integer()) }

// FloatDef returns the TypeDef over the float kind.
func FloatDef() TypeDef { return DefFromKind(Float()) }

// BooleanDef returns the TypeDef over the boolean kind.
func BooleanDef() TypeDef { return DefFromKind(Boolean()) }

// TimestampDef returns the TypeDef over the timestamp kind.
func TimestampDef() TypeDef { return DefFromKind(Timestamp()) }

// RegexDef returns the TypeDef over the regex kind.
func RegexDef() TypeDef { return DefFromKind(Regex()) }

// NullDef returns the TypeDef over the null kind.
func NullDef() TypeDef { return DefFromKind(Null()) }

// UndefinedDef returns the TypeDef over the undefined pseudo-kind.
func UndefinedDef() TypeDef { return DefFromKind(Undefined()) }

// NeverDef returns the TypeDef over the bottom kind.
func NeverDef() TypeDef { return DefFromKind(Never()) }

// ObjectDef returns the TypeDef over an object kind.
func ObjectDef(collection Collection[string]) TypeDef { return DefFromKind(Object(collection)) }

// ArrayDef returns the TypeDef over an array kind.
func ArrayDef(collection Collection[int]) TypeDef { return DefFromKind(Array(collection)) }

// Kind returns the result kind.
func (t TypeDef) Kind() Kind { return t.kind }

// Fallibility returns the fallibility state.
func (t TypeDef) Fallibility() Fallibility { return t.fallibility }

// Purity returns the purity state.
func (t TypeDef) Purity() Purity { return t.purity }

// Returns returns the union of kinds that can be produced by an early
// return nested inside the expression.
func (t TypeDef) Returns() Kind { return t.returns }

// IsFallible reports whether evaluation may or always fails.
func (t TypeDef) IsFallible() bool { return t.fallibility != CannotFail }

// IsInfallible reports whether evaluation never fails.
func (t TypeDef) IsInfallible() bool { return t.fallibility == CannotFail }

// IsPure reports whether the expression is pure.
func (t TypeDef) IsPure() bool { return t.purity == Pure }

// Fallible returns a copy marked MightFail.
func (t TypeDef) Fallible() TypeDef { t.fallibility = MightFail; return t }

// Infallible returns a copy marked CannotFail.
func (t TypeDef) Infallible() TypeDef { t.fallibility = CannotFail; return t }

// AlwaysFailing returns a copy marked AlwaysFails.
func (t TypeDef) AlwaysFailing() TypeDef { t.fallibility = AlwaysFails; return t }

// WithFallibility returns a copy with the given fallibility.
func (t TypeDef) WithFallibility(f Fallibility) TypeDef { t.fallibility = f; return t }

// MaybeFallible returns a copy marked MightFail or CannotFail.
func (t TypeDef) MaybeFallible(mightFail bool) TypeDef {
	if mightFail {
		t.fallibility = MightFail
	} else {
		t.fallibility = CannotFail
	}
	return t
}

// Impure returns a copy marked impure.
func (t TypeDef) Impure() TypeDef { t.purity = Impure; return t }

// WithKind returns a copy with the given result kind.
func (t TypeDef) WithKind(kind Kind) TypeDef { t.kind = kind; return t }

// WithReturns returns a copy with the given returns kind.
func (t TypeDef) WithReturns(returns Kind) TypeDef { t.returns = returns; return t }

// OrNull returns a copy whose kind additionally allows null.
func (t TypeDef) OrNull() TypeDef { t.kind = t.kind.OrNull(); return t }

// OrUndefined returns a copy whose kind additionally allows undefined.
func (t TypeDef) OrUndefined() TypeDef { t.kind = t.kind.OrUndefined(); return t }

// AddReturns returns a copy whose returns kind additionally allows returns.
func (t TypeDef) AddReturns(returns Kind) TypeDef {
	t.returns = t.returns.Union(returns)
	return t
}

// AtPath returns a copy whose kind descends to p, keeping the fallibility,
// purity and returns metadata.
func (t TypeDef) AtPath(p path.Path) TypeDef {
	t.kind = t.kind.AtPath(p)
	return t
}

// WithTypeInserted returns a copy modelling a write of other's kind at p,
// merging the fallibility and purity of both sides.
func (t TypeDef) WithTypeInserted(p path.Path, other TypeDef) TypeDef {
	return TypeDef{
		fallibility: MergeFallibility(t.fallibility, other.fallibility),
		kind:        t.kind.WithInserted(p, other.kind),
		purity:      MergePurity(t.purity, other.purity),
		returns:     t.returns,
	}
}

// FallibleUnless returns a copy marked MightFail unless the current kind is
// a subset of the given kind. Type-narrowing functions use this to flag that
// non-matching runtime values will error.
func (t TypeDef) FallibleUnless(kind Kind) TypeDef {
	if !kind.IsSuperset(t.kind) {
		t.fallibility = MightFail
	}
	return t
}

// UpgradeUndefined converts the undefined pseudo-kind into null; applied at
// object/array construction boundaries where missing paths materialize as
// null.
func (t TypeDef) UpgradeUndefined() TypeDef {
	t.kind = t.kind.UpgradeUndefined()
	return t
}

// RestrictArray narrows the kind to its array shape, keeping fallibility.
// If no array shape is present, an "any" array is assumed: this models a
// passed runtime check, not static knowledge.
func (t TypeDef) RestrictArray() TypeDef {
	collection, ok := t.kind.ArrayCollection()
	if !ok {
		collection = AnyCollection[int]()
	}
	t.kind = Array(collection)
	return t
}

// RestrictObject narrows the kind to its object shape, keeping fallibility.
func (t TypeDef) RestrictObject() TypeDef {
	collection, ok := t.kind.ObjectCollection()
	if !ok {
		collection = AnyCollection[string]()
	}
	t.kind = Object(collection)
	return t
}

// Union returns the worst-case combination of two type definitions:
// fallibility and purity merge by dominance, kinds and returns union.
func (t TypeDef) Union(other TypeDef) TypeDef {
	return TypeDef{
		fallibility: MergeFallibility(t.fallibility, other.fallibility),
		kind:        t.kind.Union(other.kind),
		purity:      MergePurity(t.purity, other.purity),
		returns:     t.returns.Union(other.returns),
	}
}

// Equal reports structural equality of the two type definitions.
func (t TypeDef) Equal(other TypeDef) bool {
	return t.fallibility == other.fallibility &&
		t.purity == other.purity &&
		t.kind.Equal(other.kind) &&
		t.returns.Equal(other.returns)
}
