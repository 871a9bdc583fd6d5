package value

import (
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/code"
)

// CompiledFunction is the output of compiling a single function literal (or
// the implicit top-level function wrapping a whole program): its
// instructions, how many local slots and parameters it needs, and how many
// free variables a closure over it must capture.
type CompiledFunction struct {
	Instructions  code.Instructions
	NumLocals     int
	NumParameters int
	NumFree       int
	Name          string
}

func (f *CompiledFunction) Type() string   { return "compiled_function" }
func (f *CompiledFunction) String() string { return fmt.Sprintf("<compiled-function %s>", f.name()) }
func (f *CompiledFunction) Truth() bool    { return true }

func (f *CompiledFunction) name() string {
	if f.Name == "" {
		return "<anonymous>"
	}
	return f.Name
}

// Cell is a one-slot mutable box holding one captured free variable of a
// closure. The VM fills a fresh Cell with the variable's current value when
// the closure is created, so writes through the Cell persist across calls of
// that closure but are not seen by the defining frame's local slot or by
// other closures.
type Cell struct {
	Value Value
}

// Closure pairs a CompiledFunction with the Cells it captured from
// enclosing scopes at the point the closure was created.
type Closure struct {
	Fn   *CompiledFunction
	Free []*Cell
}

func (c *Closure) Type() string   { return "closure" }
func (c *Closure) String() string { return fmt.Sprintf("<closure %s>", c.Fn.name()) }
func (c *Closure) Truth() bool    { return true }

// BuiltinFunction is a function implemented in Go and exposed to scripts
// under a fixed name, such as print or pcap_open.
type BuiltinFunction struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (b *BuiltinFunction) Type() string   { return "builtin_function" }
func (b *BuiltinFunction) String() string { return fmt.Sprintf("<builtin %s>", b.Name) }
func (b *BuiltinFunction) Truth() bool    { return true }
