package value

import (
	"math"
	"strconv"
)

// Arithmetic, comparison and logic over values. Every operation is total
// over its declared domain: it returns a typed error for any other operand
// combination and never panics on user-supplied values.

// Add adds two values:
//   - integer + integer wraps on overflow (two's complement)
//   - integer + float promotes to float, collapsing NaN to 0
//   - string + string concatenates
//   - string + null and null + string are identity
func Add(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Integer:
		switch r := rhs.(type) {
		case Integer:
			return Integer(int64(l) + int64(r)), nil
		case Float:
			return FromFloat64OrZero(float64(l) + float64(r)), nil
		}
	case Float:
		switch r := rhs.(type) {
		case Integer:
			return FromFloat64OrZero(float64(l) + float64(r)), nil
		case Float:
			return FromFloat64OrZero(float64(l) + float64(r)), nil
		}
	case Bytes:
		switch r := rhs.(type) {
		case Bytes:
			out := make(Bytes, 0, len(l)+len(r))
			out = append(out, l...)
			out = append(out, r...)
			return out, nil
		case Null:
			return l, nil
		}
	case Null:
		if r, ok := rhs.(Bytes); ok {
			return r, nil
		}
	}
	return nil, &OpError{Op: OpAdd, Left: typeOf(lhs), Right: typeOf(rhs)}
}

// Sub subtracts rhs from lhs. Unlike [Add], a NaN float result (such as
// inf - inf) is an error rather than being collapsed to zero.
func Sub(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Integer:
		switch r := rhs.(type) {
		case Integer:
			return Integer(int64(l) - int64(r)), nil
		case Float:
			return safeSub(float64(l), float64(r))
		}
	case Float:
		switch r := rhs.(type) {
		case Integer:
			return safeSub(float64(l), float64(r))
		case Float:
			return safeSub(float64(l), float64(r))
		}
	}
	return nil, &OpError{Op: OpSub, Left: typeOf(lhs), Right: typeOf(rhs)}
}

// safeSub maps a NaN result to an error instead of silently zeroing it.
func safeSub(l, r float64) (Value, error) {
	f := l - r
	if math.IsNaN(f) {
		return nil, &NaNError{Op: OpSub}
	}
	return Float(f), nil
}

// Mul multiplies two values. integer * string (either order) repeats the
// string, clamping a negative count to zero.
func Mul(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Integer:
		switch r := rhs.(type) {
		case Integer:
			return Integer(int64(l) * int64(r)), nil
		case Float:
			return FromFloat64OrZero(float64(l) * float64(r)), nil
		case Bytes:
			return repeatBytes(r, int64(l)), nil
		}
	case Float:
		switch r := rhs.(type) {
		case Integer:
			return FromFloat64OrZero(float64(l) * float64(r)), nil
		case Float:
			return FromFloat64OrZero(float64(l) * float64(r)), nil
		}
	case Bytes:
		if r, ok := rhs.(Integer); ok {
			return repeatBytes(l, int64(r)), nil
		}
	}
	return nil, &OpError{Op: OpMul, Left: typeOf(lhs), Right: typeOf(rhs)}
}

func repeatBytes(b Bytes, n int64) Bytes {
	if n < 0 {
		n = 0
	}
	out := make(Bytes, 0, int(n)*len(b))
	for i := int64(0); i < n; i++ {
		out = append(out, b...)
	}
	return out
}

// Div divides lhs by rhs, always producing a float. A zero divisor is an
// error, checked before the division is performed.
func Div(lhs, rhs Value) (Value, error) {
	rhv, ok := numeric(rhs)
	if !ok {
		return nil, &OpError{Op: OpDiv, Left: typeOf(lhs), Right: typeOf(rhs)}
	}
	if rhv == 0.0 {
		return nil, &DivideByZeroError{}
	}
	switch l := lhs.(type) {
	case Integer:
		return FromFloat64OrZero(float64(l) / rhv), nil
	case Float:
		return FromFloat64OrZero(float64(l) / rhv), nil
	}
	return nil, &OpError{Op: OpDiv, Left: typeOf(lhs), Right: typeOf(rhs)}
}

// Rem computes the remainder of lhs divided by rhs. A zero divisor is an
// error, checked before the division is performed.
func Rem(lhs, rhs Value) (Value, error) {
	rhv, ok := numeric(rhs)
	if !ok {
		return nil, &OpError{Op: OpRem, Left: typeOf(lhs), Right: typeOf(rhs)}
	}
	if rhv == 0.0 {
		return nil, &DivideByZeroError{}
	}
	switch l := lhs.(type) {
	case Integer:
		if r, ok := rhs.(Integer); ok {
			return Integer(int64(l) % int64(r)), nil
		}
		return FromFloat64OrZero(math.Mod(float64(l), rhv)), nil
	case Float:
		return FromFloat64OrZero(math.Mod(float64(l), rhv)), nil
	}
	return nil, &OpError{Op: OpRem, Left: typeOf(lhs), Right: typeOf(rhs)}
}

// Or implements short-circuit "or" at the value layer. If lhs is falsy
// (null or false) the lazily-invoked rhs is evaluated and returned; an rhs
// error is wrapped in [*OrError]. Otherwise lhs is returned and rhs is never
// evaluated.
func Or(lhs Value, rhs func() (Value, error)) (Value, error) {
	if IsFalsy(lhs) {
		v, err := rhs()
		if err != nil {
			return nil, &OrError{Err: err}
		}
		return v, nil
	}
	return lhs, nil
}

// And implements logical "and". A null operand on either side is treated as
// false; non-boolean operands are an error.
func And(lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case Null:
		return Boolean(false), nil
	case Boolean:
		switch r := rhs.(type) {
		case Null:
			return Boolean(false), nil
		case Boolean:
			return Boolean(bool(l) && bool(r)), nil
		}
	}
	return nil, &OpError{Op: OpAnd, Left: typeOf(lhs), Right: typeOf(rhs)}
}

// Gt reports lhs > rhs.
func Gt(lhs, rhs Value) (Value, error) { return compare(lhs, rhs, OpGt, func(c int) bool { return c > 0 }) }

// Ge reports lhs >= rhs.
func Ge(lhs, rhs Value) (Value, error) { return compare(lhs, rhs, OpGe, func(c int) bool { return c >= 0 }) }

// Lt reports lhs < rhs.
func Lt(lhs, rhs Value) (Value, error) { return compare(lhs, rhs, OpLt, func(c int) bool { return c < 0 }) }

// Le reports lhs <= rhs.
func Le(lhs, rhs Value) (Value, error) { return compare(lhs, rhs, OpLe, func(c int) bool { return c <= 0 }) }

// compare orders two values. Integer and float promote to a numeric
// comparison, strings compare lexicographically, timestamps chronologically.
// Everything else is an error.
func compare(lhs, rhs Value, op Op, accept func(int) bool) (Value, error) {
	fail := func() (Value, error) {
		return nil, &OpError{Op: op, Left: typeOf(lhs), Right: typeOf(rhs)}
	}
	switch l := lhs.(type) {
	case Integer, Float:
		lhv, _ := numeric(lhs)
		rhv, ok := numeric(rhs)
		if !ok {
			return fail()
		}
		switch {
		case lhv < rhv:
			return Boolean(accept(-1)), nil
		case lhv > rhv:
			return Boolean(accept(1)), nil
		default:
			return Boolean(accept(0)), nil
		}
	case Bytes:
		r, ok := rhs.(Bytes)
		if !ok {
			return fail()
		}
		switch {
		case string(l) < string(r):
			return Boolean(accept(-1)), nil
		case string(l) > string(r):
			return Boolean(accept(1)), nil
		default:
			return Boolean(accept(0)), nil
		}
	case Timestamp:
		r, ok := rhs.(Timestamp)
		if !ok {
			return fail()
		}
		switch {
		case l.Time.Before(r.Time):
			return Boolean(accept(-1)), nil
		case l.Time.After(r.Time):
			return Boolean(accept(1)), nil
		default:
			return Boolean(accept(0)), nil
		}
	}
	return fail()
}

// Merge shallow-merges two objects, right-hand fields winning on collision.
func Merge(lhs, rhs Value) (Value, error) {
	l, lok := lhs.(*Object)
	r, rok := rhs.(*Object)
	if !lok || !rok {
		return nil, &OpError{Op: OpMerge, Left: typeOf(lhs), Right: typeOf(rhs)}
	}
	out := NewObject()
	l.Scan(func(key string, v Value) bool {
		out.Set(key, v)
		return true
	})
	r.Scan(func(key string, v Value) bool {
		out.Set(key, v)
		return true
	})
	return out, nil
}

// BitwiseNot negates all bits of an integer. A string operand is first
// parsed as a base-10 integer; failure to parse is an error.
func BitwiseNot(v Value) (Value, error) {
	switch t := v.(type) {
	case Integer:
		return Integer(^int64(t)), nil
	case Bytes:
		i, err := strconv.ParseInt(string(t), 10, 64)
		if err != nil {
			return nil, &OpError{Op: OpBitwiseNot, Left: typeOf(v), Right: TypeInteger}
		}
		return Integer(^i), nil
	}
	return nil, &OpError{Op: OpBitwiseNot, Left: typeOf(v), Right: TypeInteger}
}

// EqualLossy is the language's "==" comparison: integer/float pairs compare
// numerically (1 == 1.0), all other type pairs fall back to strict equality.
func EqualLossy(lhs, rhs Value) bool {
	switch l := lhs.(type) {
	case Integer:
		rhv, ok := numeric(rhs)
		return ok && float64(l) == rhv
	case Float:
		rhv, ok := numeric(rhs)
		return ok && float64(l) == rhv
	}
	return Equal(lhs, rhs)
}

// numeric returns the float64 view of an integer or float value.
func numeric(v Value) (float64, bool) {
	switch t := v.(type) {
	case Integer:
		return float64(t), true
	case Float:
		return float64(t), true
	}
	return 0, false
}

// typeOf is like Value.Type but tolerates a nil (absent) value, reporting it
// as null for error messages.
func typeOf(v Value) Type {
	if v == nil {
		return TypeNull
	}
	return v.Type()
}
