package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryArithmetic(t *testing.T) {
	tests := []struct {
		name  string
		op    BinaryOp
		left  Value
		right Value
		want  Value
	}{
		{"int add", OpAdd, Int(2), Int(3), Int(5)},
		{"int sub", OpSub, Int(5), Int(3), Int(2)},
		{"int mul widened by float", OpMul, Int(2), Float(1.5), Float(3)},
		{"float div", OpDiv, Float(7), Float(2), Float(3.5)},
		{"int mod", OpMod, Int(7), Int(3), Int(1)},
		{"bitwise and", OpAnd, Int(0b1100), Int(0b1010), Int(0b1000)},
		{"shift left", OpShl, Int(1), Int(4), Int(16)},
		{"string concat", OpAdd, String("foo"), String("bar"), String("foobar")},
		{"byte widens to int", OpAdd, Byte(1), Int(2), Int(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Binary(tt.op, tt.left, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBinaryDivisionByZero(t *testing.T) {
	_, err := Binary(OpDiv, Int(1), Int(0))
	assert.Error(t, err)

	_, err = Binary(OpMod, Float(1), Float(0))
	assert.Error(t, err)
}

func TestBinaryBitwiseRejectsFloat(t *testing.T) {
	_, err := Binary(OpAnd, Float(1), Int(2))
	assert.Error(t, err)
}

func TestUnary(t *testing.T) {
	got, err := Unary(OpNeg, Int(5))
	require.NoError(t, err)
	assert.Equal(t, Int(-5), got)

	got, err = Unary(OpNot, Bool(false))
	require.NoError(t, err)
	assert.Equal(t, Bool(true), got)

	got, err = Unary(OpBitwiseNot, Int(0))
	require.NoError(t, err)
	assert.Equal(t, Int(-1), got)
}

func TestEqualCrossNumericType(t *testing.T) {
	assert.True(t, Equal(Int(1), Float(1)))
	assert.True(t, Equal(Byte(65), Int(65)))
	assert.False(t, Equal(Int(1), String("1")))
}

func TestEqualArraysByContent(t *testing.T) {
	a := Array{Elems: []Value{Int(1), Int(2)}}
	b := Array{Elems: []Value{Int(1), Int(2)}}
	c := Array{Elems: []Value{Int(1), Int(3)}}
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestCompareOrdersNumbersAndStrings(t *testing.T) {
	cmp, err := Compare(Int(1), Int(2))
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = Compare(String("a"), String("b"))
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	_, err = Compare(Array{}, Int(1))
	assert.Error(t, err)
}

func TestIsFalsey(t *testing.T) {
	assert.True(t, IsFalsey(NullValue))
	assert.True(t, IsFalsey(Bool(false)))
	assert.True(t, IsFalsey(Int(0)))
	assert.True(t, IsFalsey(String("")))
	assert.True(t, IsFalsey(Array{}))
	assert.True(t, IsFalsey(NewMap(1)))
	assert.False(t, IsFalsey(String("x")))
	assert.False(t, IsFalsey(Int(1)))
}
