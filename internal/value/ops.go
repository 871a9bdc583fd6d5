package value

import (
	"fmt"
	"math"
)

// BinaryOp identifies an arithmetic or bitwise operator for dispatch by
// Binary.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
)

// Binary applies a numeric or string operator to a pair of values, following
// the language's cross-type promotion rule: if either operand is a Float,
// both are widened to Float and the result is a Float; otherwise both must
// be Int (or Byte/Char, widened to Int) and the result is an Int. String
// concatenation is the sole exception, handled by OpAdd on two Strings.
func Binary(op BinaryOp, left, right Value) (Value, error) {
	if op == OpAdd {
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
	}

	lf, lIsFloat, lok := asNumber(left)
	rf, rIsFloat, rok := asNumber(right)
	if !lok || !rok {
		return nil, fmt.Errorf("unsupported operand types for binary op: %s and %s", left.Type(), right.Type())
	}

	if lIsFloat || rIsFloat {
		if isBitwise(op) {
			return nil, fmt.Errorf("bitwise operator not supported on float operands")
		}
		result, err := floatOp(op, lf, rf)
		if err != nil {
			return nil, err
		}
		return Float(result), nil
	}

	li, _, _ := asInteger(left)
	ri, _, _ := asInteger(right)
	result, err := intOp(op, li, ri)
	if err != nil {
		return nil, err
	}
	return Int(result), nil
}

func isBitwise(op BinaryOp) bool {
	switch op {
	case OpAnd, OpOr, OpXor, OpShl, OpShr:
		return true
	default:
		return false
	}
}

func floatOp(op BinaryOp, l, r float64) (float64, error) {
	switch op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case OpMod:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return math.Mod(l, r), nil
	default:
		return 0, fmt.Errorf("unsupported float operator")
	}
}

func intOp(op BinaryOp, l, r int64) (int64, error) {
	switch op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case OpMod:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l % r, nil
	case OpAnd:
		return l & r, nil
	case OpOr:
		return l | r, nil
	case OpXor:
		return l ^ r, nil
	case OpShl:
		return l << uint64(r), nil
	case OpShr:
		return l >> uint64(r), nil
	default:
		return 0, fmt.Errorf("unsupported integer operator")
	}
}

// asNumber reports whether v is numeric, widening Byte/Char/Int to float64
// for a uniform comparison while flagging whether it was natively a Float.
func asNumber(v Value) (f float64, isFloat bool, ok bool) {
	switch vv := v.(type) {
	case Float:
		return float64(vv), true, true
	case Int:
		return float64(vv), false, true
	case Byte:
		return float64(vv), false, true
	case Char:
		return float64(vv), false, true
	default:
		return 0, false, false
	}
}

func asInteger(v Value) (int64, bool, bool) {
	switch vv := v.(type) {
	case Int:
		return int64(vv), false, true
	case Byte:
		return int64(vv), false, true
	case Char:
		return int64(vv), false, true
	default:
		return 0, false, false
	}
}

// UnaryOp identifies a prefix operator for Unary.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitwiseNot
)

// Unary applies a prefix operator to v.
func Unary(op UnaryOp, v Value) (Value, error) {
	switch op {
	case OpNot:
		return Bool(IsFalsey(v)), nil
	case OpNeg:
		switch vv := v.(type) {
		case Int:
			return -vv, nil
		case Float:
			return -vv, nil
		case Byte:
			return Int(-int64(vv)), nil
		case Char:
			return Int(-int64(vv)), nil
		default:
			return nil, fmt.Errorf("unsupported operand type for negation: %s", v.Type())
		}
	case OpBitwiseNot:
		i, _, ok := asInteger(v)
		if !ok {
			return nil, fmt.Errorf("unsupported operand type for bitwise not: %s", v.Type())
		}
		return Int(^i), nil
	default:
		return nil, fmt.Errorf("unsupported unary operator")
	}
}

// Equal reports whether a and b are equal under the language's equality
// rules: numeric types compare by value across Int/Float/Byte/Char, Arrays
// compare element-wise, Maps compare by content, Strings, Bools and Null by
// value; any other pair (functions, files, errors, packets) is unequal.
func Equal(a, b Value) bool {
	af, aIsFloat, aok := asNumber(a)
	bf, bIsFloat, bok := asNumber(b)
	if aok && bok {
		if aIsFloat || bIsFloat {
			return af == bf
		}
		ai, _, _ := asInteger(a)
		bi, _, _ := asInteger(b)
		return ai == bi
	}

	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			v1, _ := av.Get(k)
			v2, ok := bv.Get(k)
			if !ok || !Equal(v1, v2) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare reports whether a is less than, equal to, or greater than b
// (-1, 0, 1), for the subset of types that support ordering: numbers and
// strings. It returns an error for types with no natural order.
func Compare(a, b Value) (int, error) {
	af, aIsFloat, aok := asNumber(a)
	bf, bIsFloat, bok := asNumber(b)
	if aok && bok {
		if aIsFloat || bIsFloat {
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			default:
				return 0, nil
			}
		}
		ai, _, _ := asInteger(a)
		bi, _, _ := asInteger(b)
		switch {
		case ai < bi:
			return -1, nil
		case ai > bi:
			return 1, nil
		default:
			return 0, nil
		}
	}

	as, aok := a.(String)
	bs, bok := b.(String)
	if aok && bok {
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		default:
			return 0, nil
		}
	}

	return 0, fmt.Errorf("unsupported operand types for comparison: %s and %s", a.Type(), b.Type())
}
