// Package code defines the bytecode instruction set executed by the virtual
// machine: the Opcode enumeration, the operand-width table that describes how
// to encode and decode each opcode's operands, and the Instructions type that
// pairs the byte-encoded program with a parallel source-line buffer.
//
// The encoding is deliberately simple: every opcode is one byte, operands are
// fixed-width and big-endian, and every byte of every instruction (including
// operand bytes) carries its own source line so that a runtime error can be
// attributed precisely without maintaining a separate compressed line table.
package code

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Opcode identifies a single VM instruction.
type Opcode byte

// The complete opcode set. Order is not significant except where a comment
// says otherwise (comparisons and arithmetic are grouped so that a dispatch
// table keyed by a small contiguous range is possible, though this
// implementation uses a plain switch).
const (
	Constant Opcode = iota
	Pop
	Dup

	Add
	Sub
	Mul
	Div
	Mod

	And
	Or
	Xor
	ShiftLeft
	ShiftRight

	Equal
	NotEqual
	Greater
	GreaterEq

	Minus
	Bang
	Not

	True
	False
	Null

	Jump
	JumpIfFalse
	JumpIfFalseNoPop

	Array
	Map
	GetIndex
	SetIndex

	Call
	Return
	ReturnValue

	DefineGlobal
	GetGlobal
	SetGlobal

	DefineLocal
	GetLocal
	SetLocal

	GetBuiltinFn
	GetBuiltinVar

	Closure
	GetFree
	SetFree
	CurrClosure

	GetProp
	SetProp
)

// definition describes the name and operand widths (in bytes) of an opcode.
// An empty Widths slice means the opcode takes no operand.
type definition struct {
	Name   string
	Widths []int
}

var definitions = map[Opcode]definition{
	Constant:         {"OpConstant", []int{2}},
	Pop:              {"OpPop", nil},
	Dup:              {"OpDup", nil},
	Add:              {"OpAdd", nil},
	Sub:              {"OpSub", nil},
	Mul:              {"OpMul", nil},
	Div:              {"OpDiv", nil},
	Mod:              {"OpMod", nil},
	And:              {"OpAnd", nil},
	Or:               {"OpOr", nil},
	Xor:              {"OpXor", nil},
	ShiftLeft:        {"OpShiftLeft", nil},
	ShiftRight:       {"OpShiftRight", nil},
	Equal:            {"OpEqual", nil},
	NotEqual:         {"OpNotEqual", nil},
	Greater:          {"OpGreater", nil},
	GreaterEq:        {"OpGreaterEq", nil},
	Minus:            {"OpMinus", nil},
	Bang:             {"OpBang", nil},
	Not:              {"OpNot", nil},
	True:             {"OpTrue", nil},
	False:            {"OpFalse", nil},
	Null:             {"OpNull", nil},
	Jump:             {"OpJump", []int{2}},
	JumpIfFalse:      {"OpJumpIfFalse", []int{2}},
	JumpIfFalseNoPop: {"OpJumpIfFalseNoPop", []int{2}},
	Array:            {"OpArray", []int{2}},
	Map:              {"OpMap", []int{2}},
	GetIndex:         {"OpGetIndex", nil},
	SetIndex:         {"OpSetIndex", nil},
	Call:             {"OpCall", []int{1}},
	Return:           {"OpReturn", nil},
	ReturnValue:      {"OpReturnValue", nil},
	DefineGlobal:     {"OpDefineGlobal", []int{2}},
	GetGlobal:        {"OpGetGlobal", []int{2}},
	SetGlobal:        {"OpSetGlobal", []int{2}},
	DefineLocal:      {"OpDefineLocal", []int{1}},
	GetLocal:         {"OpGetLocal", []int{1}},
	SetLocal:         {"OpSetLocal", []int{1}},
	GetBuiltinFn:     {"OpGetBuiltinFn", []int{1}},
	GetBuiltinVar:    {"OpGetBuiltinVar", []int{1}},
	Closure:          {"OpClosure", []int{2, 1}},
	GetFree:          {"OpGetFree", []int{1}},
	SetFree:          {"OpSetFree", []int{1}},
	CurrClosure:      {"OpCurrClosure", nil},
	GetProp:          {"OpGetProp", []int{1}},
	SetProp:          {"OpSetProp", []int{1}},
}

// Lookup returns the definition for op, or an error if op is unknown.
func Lookup(op Opcode) (name string, widths []int, err error) {
	def, ok := definitions[op]
	if !ok {
		return "", nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def.Name, def.Widths, nil
}

// Make encodes a single instruction (opcode plus big-endian operands) into a
// freshly allocated byte slice. Unknown opcodes yield an empty slice.
func Make(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok {
		return []byte{}
	}

	length := 1
	for _, w := range def.Widths {
		length += w
	}

	ins := make([]byte, length)
	ins[0] = byte(op)

	offset := 1
	for i, o := range operands {
		width := def.Widths[i]
		switch width {
		case 2:
			binary.BigEndian.PutUint16(ins[offset:], uint16(o))
		case 1:
			ins[offset] = byte(o)
		default:
			panic(fmt.Sprintf("unsupported operand width: %d", width))
		}
		offset += width
	}
	return ins
}

// ReadOperands decodes the operands following an opcode, per its definition's
// widths, and returns them along with the number of bytes consumed (not
// including the opcode byte itself).
func ReadOperands(widths []int, ins []byte) ([]int, int) {
	operands := make([]int, len(widths))
	offset := 0
	for i, width := range widths {
		switch width {
		case 2:
			operands[i] = int(binary.BigEndian.Uint16(ins[offset:]))
		case 1:
			operands[i] = int(ins[offset])
		default:
			panic(fmt.Sprintf("unsupported operand width: %d", width))
		}
		offset += width
	}
	return operands, offset
}

// Instructions is a linear bytecode buffer paired with a parallel source-line
// buffer: lines[i] is the source line that produced code[i]. Every byte of
// every instruction, operands included, has an entry, which lets a runtime
// error be attributed to an exact line without a separate, compressed line
// table.
type Instructions struct {
	Code  []byte
	Lines []int
}

// NewInstructions wraps raw code and line buffers. The caller must ensure
// len(code) == len(lines).
func NewInstructions(code []byte, lines []int) Instructions {
	return Instructions{Code: code, Lines: lines}
}

// Len returns the number of encoded bytes.
func (ins Instructions) Len() int { return len(ins.Code) }

// LineAt returns the source line attributed to the byte at pc, or 0 if pc is
// out of range.
func (ins Instructions) LineAt(pc int) int {
	if pc < 0 || pc >= len(ins.Lines) {
		return 0
	}
	return ins.Lines[pc]
}

// String disassembles the instruction stream into a human-readable listing,
// one instruction per line prefixed with its byte offset. Used by the
// `compile` driver command and by tests that assert on compiled output.
func (ins Instructions) String() string {
	var out strings.Builder
	i := 0
	for i < len(ins.Code) {
		op := Opcode(ins.Code[i])
		name, widths, err := Lookup(op)
		if err != nil {
			fmt.Fprintf(&out, "ERROR: %s\n", err)
			i++
			continue
		}
		operands, read := ReadOperands(widths, ins.Code[i+1:])
		fmt.Fprintf(&out, "%04d %s\n", i, fmtInstruction(name, operands))
		i += 1 + read
	}
	return out.String()
}

func fmtInstruction(name string, operands []int) string {
	switch len(operands) {
	case 0:
		return name
	case 1:
		return fmt.Sprintf("%s %d", name, operands[0])
	case 2:
		return fmt.Sprintf("%s %d %d", name, operands[0], operands[1])
	default:
		return fmt.Sprintf("ERROR: unhandled operand count for %s", name)
	}
}
