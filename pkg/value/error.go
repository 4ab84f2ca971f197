package value

import "fmt"

// Op names a fallible value operation for error reporting.
type Op string

// Operations that can appear in an [*OpError].
const (
	OpAdd        Op = "add"
	OpSub        Op = "subtract"
	OpMul        Op = "multiply"
	OpDiv        Op = "divide"
	OpRem        Op = "remainder"
	OpAnd        Op = "AND"
	OpGt         Op = "compare"
	OpGe         Op = "compare"
	OpLt         Op = "compare"
	OpLe         Op = "compare"
	OpMerge      Op = "merge"
	OpBitwiseNot Op = "bitwise-negate"
)

// OpError is returned when a value operation is applied to operand types
// outside its declared domain, carrying both operand types for diagnostics.
type OpError struct {
	Op    Op
	Left  Type
	Right Type
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("can't %s %s and %s", e.Op, e.Left, e.Right)
}

// DivideByZeroError is returned by division and remainder when the divisor
// resolves to zero.
type DivideByZeroError struct{}

// Error implements the error interface.
func (*DivideByZeroError) Error() string { return "can't divide by zero" }

// NaNError is returned when an operation would produce a NaN float that is
// not collapsed to zero (see [FromFloat64OrZero] for the collapsing cases).
type NaNError struct {
	Op Op
}

// Error implements the error interface.
func (e *NaNError) Error() string {
	return fmt.Sprintf("can't %s: result is NaN", e.Op)
}

// OrError wraps the error produced by the right-hand side of a short-circuit
// "or" operation.
type OrError struct {
	Err error
}

// Error implements the error interface.
func (e *OrError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *OrError) Unwrap() error { return e.Err }

// CoercionError is returned when a value cannot be coerced to the requested
// type.
type CoercionError struct {
	From Type
	Into Type
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Into, e.From)
}
