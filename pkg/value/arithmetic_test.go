package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		name    string
		lhs     Value
		rhs     Value
		want    Value
		wantErr bool
	}{
		{name: "integers", lhs: Integer(1), rhs: Integer(2), want: Integer(3)},
		{name: "integer overflow wraps", lhs: Integer(math.MaxInt64), rhs: Integer(1), want: Integer(math.MinInt64)},
		{name: "integer and float promote", lhs: Integer(1), rhs: Float(0.5), want: Float(1.5)},
		{name: "floats", lhs: Float(1.5), rhs: Float(2.5), want: Float(4)},
		{name: "strings concatenate", lhs: Bytes("foo"), rhs: Bytes("bar"), want: Bytes("foobar")},
		{name: "string plus null", lhs: Bytes("foo"), rhs: Null{}, want: Bytes("foo")},
		{name: "null plus string", lhs: Null{}, rhs: Bytes("bar"), want: Bytes("bar")},
		{name: "nan collapses to zero", lhs: Float(math.Inf(1)), rhs: Float(math.Inf(-1)), want: Float(0)},
		{name: "boolean operand", lhs: Boolean(true), rhs: Integer(1), wantErr: true},
		{name: "string plus integer", lhs: Bytes("foo"), rhs: Integer(1), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Add(tc.lhs, tc.rhs)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, Equal(tc.want, got), "want %s, got %s", Format(tc.want), Format(got))
		})
	}
}

func TestSubNaNIsError(t *testing.T) {
	_, err := Sub(Float(math.Inf(1)), Float(math.Inf(1)))
	require.Error(t, err)
	assert.IsType(t, &NaNError{}, err)
}

func TestMul(t *testing.T) {
	tests := []struct {
		name    string
		lhs     Value
		rhs     Value
		want    Value
		wantErr bool
	}{
		{name: "integers", lhs: Integer(3), rhs: Integer(4), want: Integer(12)},
		{name: "string repetition", lhs: Bytes("ab"), rhs: Integer(3), want: Bytes("ababab")},
		{name: "repetition commutes", lhs: Integer(2), rhs: Bytes("xy"), want: Bytes("xyxy")},
		{name: "negative count clamps", lhs: Bytes("ab"), rhs: Integer(-1), want: Bytes("")},
		{name: "string times string", lhs: Bytes("a"), rhs: Bytes("b"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Mul(tc.lhs, tc.rhs)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, Equal(tc.want, got), "want %s, got %s", Format(tc.want), Format(got))
		})
	}
}

func TestDiv(t *testing.T) {
	got, err := Div(Integer(5), Integer(2))
	require.NoError(t, err)
	assert.True(t, Equal(Float(2.5), got))

	_, err = Div(Integer(1), Integer(0))
	require.Error(t, err)
	assert.IsType(t, &DivideByZeroError{}, err)

	_, err = Div(Integer(1), Float(0))
	require.Error(t, err)
	assert.IsType(t, &DivideByZeroError{}, err)
}

func TestRem(t *testing.T) {
	got, err := Rem(Integer(7), Integer(3))
	require.NoError(t, err)
	assert.True(t, Equal(Integer(1), got))

	_, err = Rem(Integer(7), Integer(0))
	require.Error(t, err)
	assert.IsType(t, &DivideByZeroError{}, err)
}

func TestOr(t *testing.T) {
	rhs := func() (Value, error) { return Bytes("fallback"), nil }

	got, err := Or(Null{}, rhs)
	require.NoError(t, err)
	assert.True(t, Equal(Bytes("fallback"), got))

	got, err = Or(Boolean(false), rhs)
	require.NoError(t, err)
	assert.True(t, Equal(Bytes("fallback"), got))

	// A truthy lhs never evaluates the rhs.
	got, err = Or(Integer(0), func() (Value, error) {
		t.Fatal("rhs evaluated")
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, Equal(Integer(0), got))
}

func TestAnd(t *testing.T) {
	got, err := And(Boolean(true), Boolean(true))
	require.NoError(t, err)
	assert.True(t, Equal(Boolean(true), got))

	got, err = And(Null{}, Boolean(true))
	require.NoError(t, err)
	assert.True(t, Equal(Boolean(false), got))

	_, err = And(Boolean(true), Integer(1))
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	earlier := NewTimestamp(time.Date(2021, 2, 11, 0, 0, 0, 0, time.UTC))
	later := NewTimestamp(time.Date(2021, 2, 12, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name    string
		op      func(Value, Value) (Value, error)
		lhs     Value
		rhs     Value
		want    bool
		wantErr bool
	}{
		{name: "int lt float", op: Lt, lhs: Integer(1), rhs: Float(1.5), want: true},
		{name: "float ge int", op: Ge, lhs: Float(2), rhs: Integer(2), want: true},
		{name: "strings lexicographic", op: Gt, lhs: Bytes("b"), rhs: Bytes("a"), want: true},
		{name: "timestamps chronological", op: Le, lhs: earlier, rhs: later, want: true},
		{name: "mixed string and int", op: Lt, lhs: Bytes("1"), rhs: Integer(2), wantErr: true},
		{name: "booleans not ordered", op: Gt, lhs: Boolean(true), rhs: Boolean(false), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.op(tc.lhs, tc.rhs)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, Equal(Boolean(tc.want), got))
		})
	}
}

func TestEqualLossy(t *testing.T) {
	assert.True(t, EqualLossy(Integer(1), Float(1.0)))
	assert.True(t, EqualLossy(Float(2.0), Integer(2)))
	assert.False(t, EqualLossy(Integer(1), Bytes("1")))
	assert.True(t, EqualLossy(Bytes("a"), Bytes("a")))
	assert.False(t, EqualLossy(Null{}, Boolean(false)))
}

func TestBitwiseNot(t *testing.T) {
	got, err := BitwiseNot(Integer(0))
	require.NoError(t, err)
	assert.True(t, Equal(Integer(-1), got))

	got, err = BitwiseNot(Bytes("5"))
	require.NoError(t, err)
	assert.True(t, Equal(Integer(-6), got))

	_, err = BitwiseNot(Bytes("abc"))
	require.Error(t, err)
}

func TestIsFalsy(t *testing.T) {
	assert.True(t, IsFalsy(Null{}))
	assert.True(t, IsFalsy(Boolean(false)))
	assert.False(t, IsFalsy(Boolean(true)))
	assert.False(t, IsFalsy(Integer(0)))
	assert.False(t, IsFalsy(Bytes("")))
}
