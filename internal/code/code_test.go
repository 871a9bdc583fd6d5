package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeAndReadOperands(t *testing.T) {
	tests := []struct {
		op        Opcode
		operands  []int
		wantBytes []byte
	}{
		{Constant, []int{65534}, []byte{byte(Constant), 255, 254}},
		{GetLocal, []int{255}, []byte{byte(GetLocal), 255}},
		{Closure, []int{65534, 255}, []byte{byte(Closure), 255, 254, 255}},
		{Pop, []int{}, []byte{byte(Pop)}},
	}
	for _, tt := range tests {
		ins := Make(tt.op, tt.operands...)
		assert.Equal(t, tt.wantBytes, ins)

		_, widths, err := Lookup(tt.op)
		require.NoError(t, err)

		gotOperands, n := ReadOperands(widths, ins[1:])
		assert.Equal(t, tt.operands, gotOperands)

		wantRead := 0
		for _, w := range widths {
			wantRead += w
		}
		assert.Equal(t, wantRead, n)
	}
}

func TestLookupUnknownOpcode(t *testing.T) {
	_, _, err := Lookup(Opcode(255))
	assert.Error(t, err)
}

func TestInstructionsString(t *testing.T) {
	insList := [][]byte{
		Make(Add),
		Make(GetLocal, 1),
		Make(Constant, 2),
		Make(Closure, 65535, 255),
	}
	var code []byte
	var lines []int
	for _, ins := range insList {
		for _, b := range ins {
			code = append(code, b)
			lines = append(lines, 1)
		}
	}

	ins := NewInstructions(code, lines)
	want := "0000 OpAdd\n" +
		"0001 OpGetLocal 1\n" +
		"0003 OpConstant 2\n" +
		"0006 OpClosure 65535 255\n"
	assert.Equal(t, want, ins.String())
}

func TestInstructionsLineAt(t *testing.T) {
	ins := NewInstructions([]byte{byte(Pop)}, []int{7})
	assert.Equal(t, 7, ins.LineAt(0))
	assert.Equal(t, 0, ins.LineAt(5))
}
