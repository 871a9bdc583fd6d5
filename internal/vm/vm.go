// Package vm implements the stack-based bytecode interpreter: it executes
// the instructions internal/compiler produces against a constants pool, a
// fixed-size globals array, and a growable value stack, dispatching
// property access through internal/property and built-in calls through the
// tables internal/builtins installs.
package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/code"
	"github.com/binoyjayan/p2sh-go/internal/property"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

const (
	StackSize   = 4096
	GlobalsSize = 65536
	MaxFrames   = 1024
)

// True and False are shared instances so boolean opcodes never allocate.
var (
	True  = value.Bool(true)
	False = value.Bool(false)
	Null  = value.NullValue
)

// VM executes a single compiled program. Globals and the call-frame stack
// persist across Run calls on the same VM, which is how the REPL keeps
// variables defined on one line visible to the next.
type VM struct {
	constants []value.Value
	globals   []value.Value

	stack []value.Value
	sp    int

	frames      []*frame
	framesIndex int

	builtinFns  []*value.BuiltinFunction
	builtinVars []value.Value

	// MaxSteps bounds the number of instructions executed before Run aborts
	// with an error, guarding against runaway or malicious scripts. Zero
	// means unlimited.
	MaxSteps int

	// MaxCallDepth bounds the call-frame stack independently of MaxFrames,
	// so a script's recursion limit can be tuned without reallocating the
	// frame array. Zero means MaxFrames is the only bound.
	MaxCallDepth int
}

// New creates a VM with fresh globals, ready to run compiled programs.
func New(builtinFns []*value.BuiltinFunction, builtinVars []value.Value) *VM {
	return &VM{
		globals:     make([]value.Value, GlobalsSize),
		stack:       make([]value.Value, StackSize),
		frames:      make([]*frame, MaxFrames),
		builtinFns:  builtinFns,
		builtinVars: builtinVars,
	}
}

// StackTop returns the value on top of the stack (just below the stack
// pointer), or nil when the stack is empty, for diagnostics.
func (vm *VM) StackTop() value.Value {
	if vm.sp == 0 {
		return nil
	}
	return vm.stack[vm.sp-1]
}

// LastPoppedStackElem returns the most recently popped value, used by tests
// to assert on an expression's result without a trailing Pop re-pushing it.
func (vm *VM) LastPoppedStackElem() value.Value {
	return vm.stack[vm.sp]
}

// SetBuiltinVar overwrites the value the built-in variable at idx resolves
// to. The drivers in this repository do not call it; they pass the table
// once to New.
func (vm *VM) SetBuiltinVar(idx int, v value.Value) {
	vm.builtinVars[idx] = v
}

func (vm *VM) currentFrame() *frame { return vm.frames[vm.framesIndex-1] }

func (vm *VM) pushFrame(f *frame) error {
	if vm.framesIndex >= MaxFrames {
		return fmt.Errorf("call stack overflow")
	}
	if vm.MaxCallDepth > 0 && vm.framesIndex >= vm.MaxCallDepth {
		return fmt.Errorf("call depth limit exceeded")
	}
	vm.frames[vm.framesIndex] = f
	vm.framesIndex++
	return nil
}

func (vm *VM) popFrame() *frame {
	vm.framesIndex--
	return vm.frames[vm.framesIndex]
}

func (vm *VM) push(v value.Value) error {
	if vm.sp >= StackSize {
		return fmt.Errorf("stack overflow")
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() value.Value {
	v := vm.stack[vm.sp-1]
	vm.sp--
	return v
}

// Run executes a compiled top-level program: instructions with an implicit
// zero-argument, zero-free-variable closure wrapping them, plus the
// constants pool they index into.
func (vm *VM) Run(instructions code.Instructions, constants []value.Value) error {
	vm.constants = constants
	topFn := &value.CompiledFunction{Instructions: instructions, Name: "<toplevel>"}
	topClosure := &value.Closure{Fn: topFn}
	vm.framesIndex = 0
	if err := vm.pushFrame(newFrame(topClosure, vm.sp)); err != nil {
		return err
	}
	return vm.run()
}

func (vm *VM) run() error {
	steps := 0
	for vm.currentFrame().ip < len(vm.currentFrame().instructions().Code) {
		if vm.MaxSteps > 0 {
			steps++
			if steps > vm.MaxSteps {
				return fmt.Errorf("execution step limit exceeded")
			}
		}

		f := vm.currentFrame()
		ins := f.instructions().Code
		op := code.Opcode(ins[f.ip])
		opStart := f.ip
		f.ip++

		switch op {
		case code.Constant:
			idx := readUint16(ins[f.ip:])
			f.ip += 2
			if err := vm.push(vm.constants[idx]); err != nil {
				return err
			}

		case code.Pop:
			vm.pop()

		case code.Dup:
			if err := vm.push(vm.stack[vm.sp-1]); err != nil {
				return err
			}

		case code.True:
			if err := vm.push(True); err != nil {
				return err
			}
		case code.False:
			if err := vm.push(False); err != nil {
				return err
			}
		case code.Null:
			if err := vm.push(Null); err != nil {
				return err
			}

		case code.Add, code.Sub, code.Mul, code.Div, code.Mod,
			code.And, code.Or, code.Xor, code.ShiftLeft, code.ShiftRight:
			if err := vm.execBinary(op); err != nil {
				return vm.runtimeError(f, opStart, err)
			}

		case code.Equal, code.NotEqual, code.Greater, code.GreaterEq:
			if err := vm.execComparison(op); err != nil {
				return vm.runtimeError(f, opStart, err)
			}

		case code.Minus, code.Bang, code.Not:
			if err := vm.execUnary(op); err != nil {
				return vm.runtimeError(f, opStart, err)
			}

		case code.Jump:
			pos := readUint16(ins[f.ip:])
			f.ip = pos

		case code.JumpIfFalse:
			pos := readUint16(ins[f.ip:])
			f.ip += 2
			cond := vm.pop()
			if value.IsFalsey(cond) {
				f.ip = pos
			}

		case code.JumpIfFalseNoPop:
			pos := readUint16(ins[f.ip:])
			f.ip += 2
			if value.IsFalsey(vm.stack[vm.sp-1]) {
				f.ip = pos
			}

		case code.Array:
			n := readUint16(ins[f.ip:])
			f.ip += 2
			elems := make([]value.Value, n)
			copy(elems, vm.stack[vm.sp-n:vm.sp])
			vm.sp -= n
			if err := vm.push(value.NewArray(elems)); err != nil {
				return err
			}

		case code.Map:
			n := readUint16(ins[f.ip:])
			f.ip += 2
			m := value.NewMap(n)
			start := vm.sp - n*2
			for i := start; i < vm.sp; i += 2 {
				if err := m.Set(vm.stack[i], vm.stack[i+1]); err != nil {
					return vm.runtimeError(f, opStart, err)
				}
			}
			vm.sp = start
			if err := vm.push(m); err != nil {
				return err
			}

		case code.GetIndex:
			index := vm.pop()
			left := vm.pop()
			result, err := execIndexGet(left, index)
			if err != nil {
				return vm.runtimeError(f, opStart, err)
			}
			if err := vm.push(result); err != nil {
				return err
			}

		case code.SetIndex:
			// Stack order (bottom to top): value, container, index — the
			// assignment compiler pushes the right-hand side first.
			index := vm.pop()
			left := vm.pop()
			val := vm.pop()
			if err := execIndexSet(left, index, val); err != nil {
				return vm.runtimeError(f, opStart, err)
			}
			if err := vm.push(val); err != nil {
				return err
			}

		case code.GetProp:
			propID := int(ins[f.ip])
			f.ip++
			name, ok := property.PropertyName(propID)
			if !ok {
				return vm.runtimeError(f, opStart, fmt.Errorf("unknown property id %d", propID))
			}
			obj := vm.pop()
			result, err := property.Get(obj, name)
			if err != nil {
				if errVal, ok := err.(*value.Error); ok {
					if pushErr := vm.push(errVal); pushErr != nil {
						return pushErr
					}
					break
				}
				return vm.runtimeError(f, opStart, err)
			}
			if err := vm.push(result); err != nil {
				return err
			}

		case code.SetProp:
			// Stack order (bottom to top): value, object.
			propID := int(ins[f.ip])
			f.ip++
			name, ok := property.PropertyName(propID)
			if !ok {
				return vm.runtimeError(f, opStart, fmt.Errorf("unknown property id %d", propID))
			}
			obj := vm.pop()
			val := vm.pop()
			if err := property.Set(obj, name, val); err != nil {
				if errVal, ok := err.(*value.Error); ok {
					if pushErr := vm.push(errVal); pushErr != nil {
						return pushErr
					}
					break
				}
				return vm.runtimeError(f, opStart, err)
			}
			if err := vm.push(val); err != nil {
				return err
			}

		case code.DefineGlobal:
			idx := readUint16(ins[f.ip:])
			f.ip += 2
			vm.globals[idx] = vm.pop()

		case code.GetGlobal:
			idx := readUint16(ins[f.ip:])
			f.ip += 2
			if err := vm.push(vm.globals[idx]); err != nil {
				return err
			}

		case code.SetGlobal:
			idx := readUint16(ins[f.ip:])
			f.ip += 2
			vm.globals[idx] = vm.stack[vm.sp-1]

		case code.DefineLocal:
			idx := int(ins[f.ip])
			f.ip++
			vm.stack[f.basePointer+idx] = vm.pop()

		case code.GetLocal:
			idx := int(ins[f.ip])
			f.ip++
			if err := vm.push(vm.stack[f.basePointer+idx]); err != nil {
				return err
			}

		case code.SetLocal:
			idx := int(ins[f.ip])
			f.ip++
			vm.stack[f.basePointer+idx] = vm.stack[vm.sp-1]

		case code.GetBuiltinFn:
			idx := int(ins[f.ip])
			f.ip++
			if err := vm.push(vm.builtinFns[idx]); err != nil {
				return err
			}

		case code.GetBuiltinVar:
			idx := int(ins[f.ip])
			f.ip++
			if err := vm.push(vm.builtinVars[idx]); err != nil {
				return err
			}

		case code.GetFree:
			idx := int(ins[f.ip])
			f.ip++
			cell := f.closure.Free[idx]
			if err := vm.push(cell.Value); err != nil {
				return err
			}

		case code.SetFree:
			idx := int(ins[f.ip])
			f.ip++
			f.closure.Free[idx].Value = vm.stack[vm.sp-1]

		case code.CurrClosure:
			if err := vm.push(f.closure); err != nil {
				return err
			}

		case code.Closure:
			constIdx := readUint16(ins[f.ip:])
			numFree := int(ins[f.ip+2])
			f.ip += 3
			if err := vm.pushClosure(constIdx, numFree); err != nil {
				return err
			}

		case code.Call:
			numArgs := int(ins[f.ip])
			f.ip++
			if err := vm.executeCall(numArgs); err != nil {
				return vm.runtimeError(f, opStart, err)
			}

		case code.Return:
			returnedFrame := vm.popFrame()
			vm.sp = returnedFrame.basePointer - 1
			if err := vm.push(Null); err != nil {
				return err
			}

		case code.ReturnValue:
			result := vm.pop()
			returnedFrame := vm.popFrame()
			vm.sp = returnedFrame.basePointer - 1
			if err := vm.push(result); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown opcode %d at %d", op, opStart)
		}
	}
	return nil
}

func (vm *VM) runtimeError(f *frame, pos int, err error) error {
	line := f.instructions().LineAt(pos)
	return fmt.Errorf("line %d: %w", line, err)
}

func (vm *VM) pushClosure(constIdx, numFree int) error {
	fn, ok := vm.constants[constIdx].(*value.CompiledFunction)
	if !ok {
		return fmt.Errorf("constant %d is not a compiled function", constIdx)
	}
	free := make([]*value.Cell, numFree)
	for i := 0; i < numFree; i++ {
		v := vm.stack[vm.sp-numFree+i]
		if cell, ok := v.(*value.Cell); ok {
			free[i] = cell
		} else {
			free[i] = &value.Cell{Value: v}
		}
	}
	vm.sp -= numFree
	return vm.push(&value.Closure{Fn: fn, Free: free})
}

func (vm *VM) executeCall(numArgs int) error {
	callee := vm.stack[vm.sp-1-numArgs]
	switch fn := callee.(type) {
	case *value.Closure:
		return vm.callClosure(fn, numArgs)
	case *value.BuiltinFunction:
		args := make([]value.Value, numArgs)
		copy(args, vm.stack[vm.sp-numArgs:vm.sp])
		result, err := fn.Fn(args)
		if err != nil {
			return err
		}
		vm.sp = vm.sp - numArgs - 1
		if result == nil {
			result = Null
		}
		return vm.push(result)
	default:
		return fmt.Errorf("calling non-function of type %s", callee.Type())
	}
}

func (vm *VM) callClosure(cl *value.Closure, numArgs int) error {
	if numArgs != cl.Fn.NumParameters {
		return fmt.Errorf("wrong number of arguments: want=%d, got=%d", cl.Fn.NumParameters, numArgs)
	}
	basePointer := vm.sp - numArgs
	f := newFrame(cl, basePointer)
	vm.sp = basePointer + cl.Fn.NumLocals
	return vm.pushFrame(f)
}

func readUint16(b []byte) int {
	return int(binary.BigEndian.Uint16(b))
}
