package builtins

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/symtable"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func TestDefineRegistersFunctionsAndVariablesAtFixedIndices(t *testing.T) {
	tbl := symtable.New()
	Define(tbl)

	sym, ok := tbl.Resolve("puts")
	require.True(t, ok)
	assert.Equal(t, symtable.BuiltinFunctionScope, sym.Scope)
	assert.Equal(t, 1, sym.Index)

	sym, ok = tbl.Resolve("NP")
	require.True(t, ok)
	assert.Equal(t, symtable.BuiltinVariableScope, sym.Scope)
	assert.Equal(t, VarNP, sym.Index)
}

func TestPutsWritesToStdout(t *testing.T) {
	var out bytes.Buffer
	reg := New(&out, &bytes.Buffer{})
	fns := reg.Functions()

	_, err := fns[1].Fn([]value.Value{value.String("hello")})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())
}

func TestLenSupportsStringsArraysAndMaps(t *testing.T) {
	reg := New(&bytes.Buffer{}, &bytes.Buffer{})

	v, err := reg.builtinLen([]value.Value{value.String("abcd")})
	require.NoError(t, err)
	assert.Equal(t, value.Int(4), v)

	arr := value.NewArray([]value.Value{value.Int(1), value.Int(2)})
	v, err = reg.builtinLen([]value.Value{arr})
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)
}

func TestPushReturnsNewArrayWithoutMutatingOriginal(t *testing.T) {
	reg := New(&bytes.Buffer{}, &bytes.Buffer{})
	orig := value.NewArray([]value.Value{value.Int(1)})

	result, err := reg.builtinPush([]value.Value{orig, value.Int(2)})
	require.NoError(t, err)

	next, ok := result.(value.Array)
	require.True(t, ok)
	assert.Equal(t, []value.Value{value.Int(1), value.Int(2)}, next.Elems)
	assert.Equal(t, 1, len(orig.Elems))
}

func TestInsertReturnsPreviousValueOrNull(t *testing.T) {
	reg := New(&bytes.Buffer{}, &bytes.Buffer{})
	m := value.NewMap(1)

	v, err := reg.builtinInsert([]value.Value{m, value.String("k"), value.Int(1)})
	require.NoError(t, err)
	assert.Equal(t, value.NullValue, v)

	v, err = reg.builtinInsert([]value.Value{m, value.String("k"), value.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), v)
}

func TestIntParsesStringsAndCoercesNumbers(t *testing.T) {
	reg := New(&bytes.Buffer{}, &bytes.Buffer{})

	v, err := reg.builtinInt([]value.Value{value.String("42")})
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), v)

	v, err = reg.builtinInt([]value.Value{value.Float(3.9)})
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)

	_, err = reg.builtinInt([]value.Value{value.String("not a number")})
	assert.Error(t, err)
}

func TestGetInnerWalksDecodeChain(t *testing.T) {
	reg := New(&bytes.Buffer{}, &bytes.Buffer{})

	raw := make([]byte, 0, 34)
	raw = append(raw, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	raw = append(raw, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	raw = append(raw, 0x08, 0x00)
	raw = append(raw, 0x45, 0x00, 0x00, 0x14, 0, 0, 0x40, 0, 64, 17, 0, 0)
	raw = append(raw, 10, 0, 0, 1, 10, 0, 0, 2)
	eth, err := packet.EthernetFromBytes(raw, 0)
	require.NoError(t, err)

	v, err := reg.builtinGetInner([]value.Value{eth, value.Int(0)})
	require.NoError(t, err)
	assert.Same(t, eth, v)

	v, err = reg.builtinGetInner([]value.Value{eth, value.Int(1)})
	require.NoError(t, err)
	_, ok := v.(*packet.IPv4)
	require.True(t, ok)
}

func TestPropNamesReturnsSortedArray(t *testing.T) {
	reg := New(&bytes.Buffer{}, &bytes.Buffer{})

	v, err := reg.builtinPropNames(nil)
	require.NoError(t, err)
	arr, ok := v.(value.Array)
	require.True(t, ok)
	require.NotEmpty(t, arr.Elems)

	assert.Contains(t, arr.Elems, value.String("src"))
	assert.Contains(t, arr.Elems, value.String("inner"))

	first, ok := arr.Elems[0].(value.String)
	require.True(t, ok)
	second, ok := arr.Elems[1].(value.String)
	require.True(t, ok)
	assert.LessOrEqual(t, string(first), string(second))
}

func TestDefaultVariablesWrapsArgv(t *testing.T) {
	vars := DefaultVariables([]string{"script.p2sh", "eth0"})
	arr, ok := vars[VarArgv].(value.Array)
	require.True(t, ok)
	assert.Equal(t, value.String("script.p2sh"), arr.Elems[0])
	assert.Equal(t, value.Int(0), vars[VarNP])
}
