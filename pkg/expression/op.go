package expression

import (
	"errors"

	"github.com/vexlang/vex/pkg/diagnostic"
	"github.com/vexlang/vex/pkg/state"
	"github.com/vexlang/vex/pkg/types"
	"github.com/vexlang/vex/pkg/value"
)

// BinaryOp enumerates the binary operators.
type BinaryOp uint8

const (
	OpMul BinaryOp = iota
	OpDiv
	OpRem
	OpAdd
	OpSub
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpErr
)

// Op is a binary operation.
type Op struct {
	Op   BinaryOp
	Lhs  Expression
	Rhs  Expression
	Span diagnostic.Span
}

// Resolve implements Expression.
func (o *Op) Resolve(ctx *Context) (value.Value, error) {
	// The error-coalescing and logical operators are lazy in their right
	// operand; everything else is strict.
	switch o.Op {
	case OpErr:
		lhs, err := o.Lhs.Resolve(ctx)
		if err == nil {
			return lhs, nil
		}
		if isTerminal(err) {
			return nil, err
		}
		return o.Rhs.Resolve(ctx)
	case OpOr:
		lhs, err := o.Lhs.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		return value.Or(lhs, func() (value.Value, error) {
			return o.Rhs.Resolve(ctx)
		})
	case OpAnd:
		lhs, err := o.Lhs.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		if value.IsFalsy(lhs) {
			return value.Boolean(false), nil
		}
		rhs, err := o.Rhs.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		return value.And(lhs, rhs)
	}

	lhs, err := o.Lhs.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := o.Rhs.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	switch o.Op {
	case OpMul:
		return value.Mul(lhs, rhs)
	case OpDiv:
		return value.Div(lhs, rhs)
	case OpRem:
		return value.Rem(lhs, rhs)
	case OpAdd:
		return value.Add(lhs, rhs)
	case OpSub:
		return value.Sub(lhs, rhs)
	case OpLt:
		return value.Lt(lhs, rhs)
	case OpLe:
		return value.Le(lhs, rhs)
	case OpGt:
		return value.Gt(lhs, rhs)
	case OpGe:
		return value.Ge(lhs, rhs)
	case OpEq:
		return value.Boolean(value.EqualLossy(lhs, rhs)), nil
	case OpNe:
		return value.Boolean(!value.EqualLossy(lhs, rhs)), nil
	}
	return nil, NewError(o.Span, "unknown operator")
}

// isTerminal reports whether an error must not be swallowed by ??: program
// aborts and early returns are control flow, not operation failures.
func isTerminal(err error) bool {
	var abort *AbortError
	var ret *ReturnSignal
	return errors.As(err, &abort) || errors.As(err, &ret)
}

// TypeInfo implements Expression.
func (o *Op) TypeInfo(st state.TypeState) state.TypeInfo {
	lhsInfo := o.Lhs.TypeInfo(st)

	switch o.Op {
	case OpErr, OpOr, OpAnd:
		// The right operand may never run; states merge.
		rhsInfo := o.Rhs.TypeInfo(lhsInfo.State.Clone())
		merged := lhsInfo.State.Merge(rhsInfo.State)
		return state.NewTypeInfo(merged, o.lazyDef(lhsInfo.Result, rhsInfo.Result))
	}

	rhsInfo := o.Rhs.TypeInfo(lhsInfo.State)
	def := o.strictDef(lhsInfo.Result, rhsInfo.Result)
	return state.NewTypeInfo(rhsInfo.State, def)
}

func (o *Op) lazyDef(lhs, rhs types.TypeDef) types.TypeDef {
	base := types.TypeDef{}
	switch o.Op {
	case OpErr:
		// ?? handles the left side's error; only the right side's
		// fallibility remains.
		base = types.DefFromKind(lhs.Kind().Union(rhs.Kind())).
			MaybeFallible(rhs.IsFallible())
	case OpOr:
		kind := lhs.Kind().WithoutUndefined()
		if kind.ContainsNull() || kind.ContainsBoolean() {
			kind = kind.Union(rhs.Kind())
		}
		base = types.DefFromKind(kind).
			MaybeFallible(lhs.IsFallible() || rhs.IsFallible())
	case OpAnd:
		boolish := types.Boolean().OrNull()
		fallible := lhs.IsFallible() || rhs.IsFallible() ||
			!boolish.IsSuperset(lhs.Kind()) || !boolish.IsSuperset(rhs.Kind())
		base = types.BooleanDef().MaybeFallible(fallible)
	}
	if !lhs.IsPure() || !rhs.IsPure() {
		base = base.Impure()
	}
	return base.WithReturns(lhs.Returns().Union(rhs.Returns()))
}

func (o *Op) strictDef(lhs, rhs types.TypeDef) types.TypeDef {
	lk, rk := lhs.Kind(), rhs.Kind()
	var kind types.Kind
	fallible := true

	numeric := types.Integer().OrFloat()
	switch o.Op {
	case OpMul:
		kind = numericResult(lk, rk)
		if lk.ContainsBytes() || rk.ContainsBytes() {
			kind = kind.OrBytes()
		}
		fallible = !(numeric.IsSuperset(lk) && numeric.IsSuperset(rk))
	case OpDiv, OpRem:
		// Division by zero keeps these fallible even over pure numbers.
		kind = types.Float()
		if o.Op == OpRem {
			kind = numericResult(lk, rk)
		}
	case OpAdd:
		kind = numericResult(lk, rk)
		if lk.ContainsBytes() || rk.ContainsBytes() {
			kind = kind.OrBytes()
		}
		safeBytes := lk.IsBytes() && (rk.IsBytes() || rk.IsExactly(types.Null()))
		fallible = !(numeric.IsSuperset(lk) && numeric.IsSuperset(rk)) && !safeBytes
	case OpSub:
		kind = numericResult(lk, rk)
		fallible = !(numeric.IsSuperset(lk) && numeric.IsSuperset(rk))
	case OpLt, OpLe, OpGt, OpGe:
		kind = types.Boolean()
		comparable := numeric.IsSuperset(lk) && numeric.IsSuperset(rk) ||
			lk.IsBytes() && rk.IsBytes() ||
			lk.IsExactly(types.Timestamp()) && rk.IsExactly(types.Timestamp())
		fallible = !comparable
	case OpEq, OpNe:
		kind = types.Boolean()
		fallible = false
	}

	def := types.DefFromKind(kind).
		MaybeFallible(fallible || lhs.IsFallible() || rhs.IsFallible())
	if !lhs.IsPure() || !rhs.IsPure() {
		def = def.Impure()
	}
	return def.WithReturns(lhs.Returns().Union(rhs.Returns()))
}

// numericResult returns the numeric result kind of an arithmetic operation:
// integer when both operands can only be integers, float when either can
// only be a float, otherwise both.
func numericResult(lk, rk types.Kind) types.Kind {
	if lk.IsInteger() && rk.IsInteger() {
		return types.Integer()
	}
	if lk.IsExactly(types.Float()) || rk.IsExactly(types.Float()) {
		return types.Float()
	}
	return types.Integer().OrFloat()
}
