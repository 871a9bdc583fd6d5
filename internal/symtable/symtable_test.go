package symtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineResolveGlobal(t *testing.T) {
	global := New()
	a := global.Define("a")
	b := global.Define("b")

	assert.Equal(t, &Symbol{Name: "a", Scope: GlobalScope, Index: 0}, a)
	assert.Equal(t, &Symbol{Name: "b", Scope: GlobalScope, Index: 1}, b)

	resolved, ok := global.Resolve("a")
	require.True(t, ok)
	assert.Equal(t, a, resolved)
}

func TestResolveLocal(t *testing.T) {
	global := New()
	global.Define("a")

	local := NewEnclosed(global)
	local.Define("b")
	local.Define("c")

	b, ok := local.Resolve("b")
	require.True(t, ok)
	assert.Equal(t, LocalScope, b.Scope)
	assert.Equal(t, 0, b.Index)

	a, ok := local.Resolve("a")
	require.True(t, ok)
	assert.Equal(t, GlobalScope, a.Scope)
}

func TestResolveFreePromotesNestedLocals(t *testing.T) {
	global := New()
	global.Define("a")

	first := NewEnclosed(global)
	first.Define("b")

	second := NewEnclosed(first)
	second.Define("c")
	second.Define("d")

	sym, ok := second.Resolve("b")
	require.True(t, ok)
	assert.Equal(t, FreeScope, sym.Scope)
	assert.Equal(t, 0, sym.Index)

	require.Len(t, second.FreeSymbols, 1)
	assert.Equal(t, "b", second.FreeSymbols[0].Name)
	assert.Equal(t, LocalScope, second.FreeSymbols[0].Scope)

	// first's own table still resolves b as its local; only the capturing
	// table (second) records it as free.
	sym2, ok := first.Resolve("b")
	require.True(t, ok)
	assert.Equal(t, LocalScope, sym2.Scope)
}

func TestResolveUnresolvedReturnsFalse(t *testing.T) {
	global := New()
	_, ok := global.Resolve("missing")
	assert.False(t, ok)
}

func TestDefineBuiltins(t *testing.T) {
	global := New()
	global.DefineBuiltinFunction(0, "print")
	global.DefineBuiltinVariable(1, "argv")

	fn, ok := global.Resolve("print")
	require.True(t, ok)
	assert.Equal(t, BuiltinFunctionScope, fn.Scope)
	assert.Equal(t, 0, fn.Index)

	v, ok := global.Resolve("argv")
	require.True(t, ok)
	assert.Equal(t, BuiltinVariableScope, v.Scope)
	assert.Equal(t, 1, v.Index)
}

func TestDefineFunctionNameScope(t *testing.T) {
	global := New()
	local := NewEnclosed(global)
	sym := local.DefineFunctionName("fib")
	assert.Equal(t, FunctionScope, sym.Scope)

	resolved, ok := local.Resolve("fib")
	require.True(t, ok)
	assert.Equal(t, FunctionScope, resolved.Scope)
}

func TestShadowingRedefinitionWins(t *testing.T) {
	global := New()
	global.Define("x")
	second := global.Define("x")

	resolved, ok := global.Resolve("x")
	require.True(t, ok)
	assert.Same(t, second, resolved)
}

func TestNamesReturnsSortedDirectDefinitions(t *testing.T) {
	global := New()
	global.Define("zeta")
	global.Define("alpha")
	global.Define("mu")

	assert.Equal(t, []string{"alpha", "mu", "zeta"}, global.Names())
}

func TestNamesExcludesOuterScope(t *testing.T) {
	global := New()
	global.Define("outer_var")
	local := NewEnclosed(global)
	local.Define("inner_var")

	assert.Equal(t, []string{"inner_var"}, local.Names())
}
