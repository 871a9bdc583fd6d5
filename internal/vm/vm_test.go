package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh-go/internal/builtins"
	"github.com/binoyjayan/p2sh-go/internal/compiler"
	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/parser"
	"github.com/binoyjayan/p2sh-go/internal/property"
	"github.com/binoyjayan/p2sh-go/internal/scanner"
	"github.com/binoyjayan/p2sh-go/internal/symtable"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

// run compiles and executes src against a fresh symbol table, constants
// pool, and VM, mirroring internal/maincmd.Run's one-shot script path, and
// returns the value of the last expression statement.
func run(t *testing.T, src string) value.Value {
	t.Helper()

	symtab := symtable.New()
	builtins.Define(symtab)

	p := parser.New(scanner.New(src))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "parse errors: %v", p.Errors())

	comp := compiler.New(symtab)
	require.NoError(t, comp.Compile(program))
	bc := comp.Bytecode()

	reg := builtins.New(&bytes.Buffer{}, &bytes.Buffer{})
	machine := New(reg.Functions(), builtins.DefaultVariables(nil))
	require.NoError(t, machine.Run(bc.Instructions, bc.Constants))

	return machine.LastPoppedStackElem()
}

func TestArithmeticPrecedence(t *testing.T) {
	v := run(t, `(5 + 10 * 2 + 15 / 3) * 2 + -10;`)
	assert.Equal(t, value.Int(50), v)
}

func TestClosuresCaptureFreeVariablesByReference(t *testing.T) {
	v := run(t, `
		let counter = fn() { let n = 0; fn() { n = n + 1; n } };
		let c = counter();
		c(); c(); c();
	`)
	assert.Equal(t, value.Int(3), v)
}

func TestLabeledBreakExitsOuterLoop(t *testing.T) {
	v := run(t, `
		let i = 0;
		a: loop { b: loop { i = i + 1; if i == 3 { break a } } }
		i;
	`)
	assert.Equal(t, value.Int(3), v)
}

func TestRecursiveFibonacci(t *testing.T) {
	v := run(t, `
		let fib = fn(x) { if x < 2 { x } else { fib(x - 1) + fib(x - 2) } };
		fib(15);
	`)
	assert.Equal(t, value.Int(610), v)
}

func buildEthIPv4UDP() []byte {
	buf := make([]byte, 0, 42)
	buf = append(buf, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF) // dst
	buf = append(buf, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66) // src
	buf = append(buf, 0x08, 0x00)                         // IPv4
	buf = append(buf, 0x45, 0x00, 0x00, 0x20, 0, 0, 0x40, 0, 64, 17, 0, 0)
	buf = append(buf, 10, 0, 0, 1, 10, 0, 0, 2) // src/dst addrs
	buf = append(buf, 0, 53, 0xC3, 0x50, 0, 8, 0, 0)
	return buf
}

// TestPacketFieldRoundTrip is scenario 5: set src on a decoded Ethernet
// frame, then get it back, leaving the raw buffer untouched.
func TestPacketFieldRoundTrip(t *testing.T) {
	raw := buildEthIPv4UDP()
	eth, err := packet.EthernetFromBytes(raw, 0)
	require.NoError(t, err)

	require.NoError(t, property.Set(eth, "src", value.String("11:22:33:44:55:66")))
	v, err := property.Get(eth, "src")
	require.NoError(t, err)
	assert.Equal(t, value.String("11:22:33:44:55:66"), v)

	assert.Equal(t, byte(0xAA), raw[0], "raw buffer must be unchanged by a header field write")
}

// TestLazyLayerDecodeCachesInnerObjects is scenario 6: two successive
// get-chains through eth.ipv4.udp.src_port must return equal values and
// must not re-decode the inner layers (Inner() is idempotent by pointer).
func TestLazyLayerDecodeCachesInnerObjects(t *testing.T) {
	raw := buildEthIPv4UDP()
	eth, err := packet.EthernetFromBytes(raw, 0)
	require.NoError(t, err)

	ipv4First, err := property.Get(eth, "ipv4")
	require.NoError(t, err)
	ipv4Second, err := property.Get(eth, "ipv4")
	require.NoError(t, err)
	assert.Same(t, ipv4First, ipv4Second, "eth.ipv4 must decode the IPv4 layer exactly once")

	udpFirst, err := property.Get(ipv4First, "udp")
	require.NoError(t, err)
	udpSecond, err := property.Get(ipv4First, "udp")
	require.NoError(t, err)
	assert.Same(t, udpFirst, udpSecond, "ipv4.udp must decode the UDP layer exactly once")

	portA, err := property.Get(udpFirst, "src_port")
	require.NoError(t, err)
	portB, err := property.Get(udpSecond, "src_port")
	require.NoError(t, err)
	assert.Equal(t, portA, portB)
	assert.Equal(t, value.Int(53), portA)
}

func TestMaxStepsAbortsRunawayLoop(t *testing.T) {
	symtab := symtable.New()
	builtins.Define(symtab)

	p := parser.New(scanner.New(`loop { }`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	comp := compiler.New(symtab)
	require.NoError(t, comp.Compile(program))
	bc := comp.Bytecode()

	reg := builtins.New(&bytes.Buffer{}, &bytes.Buffer{})
	machine := New(reg.Functions(), builtins.DefaultVariables(nil))
	machine.MaxSteps = 1000

	err := machine.Run(bc.Instructions, bc.Constants)
	assert.Error(t, err)
}

func TestMaxCallDepthAbortsUnboundedRecursion(t *testing.T) {
	symtab := symtable.New()
	builtins.Define(symtab)

	p := parser.New(scanner.New(`let f = fn() { f() }; f();`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	comp := compiler.New(symtab)
	require.NoError(t, comp.Compile(program))
	bc := comp.Bytecode()

	reg := builtins.New(&bytes.Buffer{}, &bytes.Buffer{})
	machine := New(reg.Functions(), builtins.DefaultVariables(nil))
	machine.MaxCallDepth = 64

	err := machine.Run(bc.Instructions, bc.Constants)
	assert.Error(t, err)
}
