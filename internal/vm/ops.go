package vm

import (
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/code"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

var binaryOps = map[code.Opcode]value.BinaryOp{
	code.Add:        value.OpAdd,
	code.Sub:        value.OpSub,
	code.Mul:        value.OpMul,
	code.Div:        value.OpDiv,
	code.Mod:        value.OpMod,
	code.And:        value.OpAnd,
	code.Or:         value.OpOr,
	code.Xor:        value.OpXor,
	code.ShiftLeft:  value.OpShl,
	code.ShiftRight: value.OpShr,
}

func (vm *VM) execBinary(op code.Opcode) error {
	right := vm.pop()
	left := vm.pop()
	result, err := value.Binary(binaryOps[op], left, right)
	if err != nil {
		return err
	}
	return vm.push(result)
}

func (vm *VM) execComparison(op code.Opcode) error {
	right := vm.pop()
	left := vm.pop()

	switch op {
	case code.Equal:
		return vm.push(value.Bool(value.Equal(left, right)))
	case code.NotEqual:
		return vm.push(value.Bool(!value.Equal(left, right)))
	case code.Greater:
		cmp, err := value.Compare(left, right)
		if err != nil {
			return err
		}
		return vm.push(value.Bool(cmp > 0))
	case code.GreaterEq:
		cmp, err := value.Compare(left, right)
		if err != nil {
			return err
		}
		return vm.push(value.Bool(cmp >= 0))
	default:
		return fmt.Errorf("unknown comparison opcode %d", op)
	}
}

func (vm *VM) execUnary(op code.Opcode) error {
	operand := vm.pop()
	switch op {
	case code.Minus:
		result, err := value.Unary(value.OpNeg, operand)
		if err != nil {
			return err
		}
		return vm.push(result)
	case code.Bang:
		return vm.push(value.Bool(value.IsFalsey(operand)))
	case code.Not:
		result, err := value.Unary(value.OpBitwiseNot, operand)
		if err != nil {
			return err
		}
		return vm.push(result)
	default:
		return fmt.Errorf("unknown unary opcode %d", op)
	}
}

func execIndexGet(left, index value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Array:
		i, ok := index.(value.Int)
		if !ok {
			return nil, fmt.Errorf("array index must be an integer, got %s", index.Type())
		}
		if int64(i) < 0 || int(i) >= len(l.Elems) {
			return nil, fmt.Errorf("array index out of range: %d", i)
		}
		return l.Elems[i], nil
	case *value.Map:
		v, ok := l.Get(index)
		if !ok {
			return value.NullValue, nil
		}
		return v, nil
	case value.String:
		i, ok := index.(value.Int)
		if !ok {
			return nil, fmt.Errorf("string index must be an integer, got %s", index.Type())
		}
		runes := []rune(string(l))
		if int64(i) < 0 || int(i) >= len(runes) {
			return nil, fmt.Errorf("string index out of range: %d", i)
		}
		return value.Char(runes[i]), nil
	default:
		return nil, fmt.Errorf("index operator not supported for type %s", left.Type())
	}
}

func execIndexSet(left, index, val value.Value) error {
	switch l := left.(type) {
	case value.Array:
		i, ok := index.(value.Int)
		if !ok {
			return fmt.Errorf("array index must be an integer, got %s", index.Type())
		}
		if int64(i) < 0 || int(i) >= len(l.Elems) {
			return fmt.Errorf("array index out of range: %d", i)
		}
		l.Elems[i] = val
		return nil
	case *value.Map:
		return l.Set(index, val)
	default:
		return fmt.Errorf("index assignment not supported for type %s", left.Type())
	}
}
