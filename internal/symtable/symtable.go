// Package symtable implements the nested lexical scope table used by the
// compiler to resolve identifiers to storage locations: globals, locals,
// free variables (captured from an enclosing function), built-in functions,
// and built-in variables.
//
// The resolution algorithm mirrors a standard closure-compiler design: a
// name not found in the current scope is looked up in the enclosing scope's
// table; if found there as a local or already-free variable, it is
// "promoted" to a free variable of every scope between its definition and
// its use, each carrying its own index into that scope's free-variable list.
package symtable

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Scope identifies where a symbol's value lives at runtime.
type Scope int

const (
	GlobalScope Scope = iota
	LocalScope
	FreeScope
	BuiltinFunctionScope
	BuiltinVariableScope
	FunctionScope
)

func (s Scope) String() string {
	switch s {
	case GlobalScope:
		return "GLOBAL"
	case LocalScope:
		return "LOCAL"
	case FreeScope:
		return "FREE"
	case BuiltinFunctionScope:
		return "BUILTIN_FN"
	case BuiltinVariableScope:
		return "BUILTIN_VAR"
	case FunctionScope:
		return "FUNCTION"
	default:
		return "UNKNOWN"
	}
}

// Symbol records a resolved identifier: its scope, and its index into that
// scope's storage (the globals array, a frame's locals slice, a closure's
// free-variable slice, or the builtin tables).
type Symbol struct {
	Name  string
	Scope Scope
	Index int
	// Depth is the block nesting depth at which the symbol was defined,
	// within its owning function. It lets Resolve distinguish a shadowing
	// redefinition in a nested block from a lookup that must continue
	// outward.
	Depth int
}

// Table is a single function's (or the top-level program's) symbol scope. It
// chains to an outer Table to resolve names not defined locally, turning any
// outer local or free symbol it finds into a free variable of this table.
type Table struct {
	store          map[string][]*Symbol
	numDefinitions int
	outer          *Table
	depth          int

	// FreeSymbols holds, in order of discovery, the outer symbols this table
	// captures by closure. Index i here is exactly the free-variable index
	// that GetFree/SetFree/Closure operands must use in this table's
	// function.
	FreeSymbols []*Symbol
}

// New creates a top-level (global) symbol table.
func New() *Table {
	return &Table{store: make(map[string][]*Symbol)}
}

// NewEnclosed creates a symbol table for a function nested inside outer.
func NewEnclosed(outer *Table) *Table {
	return &Table{store: make(map[string][]*Symbol), outer: outer}
}

// PushBlock increases the current block nesting depth, e.g. when entering an
// if/loop body, so that a shadowing `let` inside the block does not collide
// with one from an enclosing block of the same function.
func (t *Table) PushBlock() { t.depth++ }

// PopBlock decreases the current block nesting depth. Symbols defined at the
// popped depth stay in the table, but Resolve skips them while the current
// depth is shallower than the depth they were defined at.
func (t *Table) PopBlock() {
	if t.depth > 0 {
		t.depth--
	}
}

// Define creates a new symbol for name in the current scope: Global if this
// is the outermost table, Local otherwise.
func (t *Table) Define(name string) *Symbol {
	scope := LocalScope
	if t.outer == nil {
		scope = GlobalScope
	}
	sym := &Symbol{Name: name, Scope: scope, Index: t.numDefinitions, Depth: t.depth}
	t.store[name] = append(t.store[name], sym)
	t.numDefinitions++
	return sym
}

// DefineFunctionName records the name of a named function literal so the
// function can refer to itself recursively. It uses the FunctionScope marker
// rather than Local/Global so the compiler can emit a CurrClosure load
// instead of treating it as an ordinary variable.
func (t *Table) DefineFunctionName(name string) *Symbol {
	sym := &Symbol{Name: name, Scope: FunctionScope, Index: 0, Depth: t.depth}
	t.store[name] = append(t.store[name], sym)
	return sym
}

// DefineBuiltinFunction registers a built-in function name at the given
// table-wide index (its position in the VM's builtin-function table).
func (t *Table) DefineBuiltinFunction(index int, name string) *Symbol {
	sym := &Symbol{Name: name, Scope: BuiltinFunctionScope, Index: index}
	t.store[name] = append(t.store[name], sym)
	return sym
}

// DefineBuiltinVariable registers a built-in variable name at the given
// table-wide index (its position in the VM's builtin-variable table).
func (t *Table) DefineBuiltinVariable(index int, name string) *Symbol {
	sym := &Symbol{Name: name, Scope: BuiltinVariableScope, Index: index}
	t.store[name] = append(t.store[name], sym)
	return sym
}

// defineFree records outer as a captured outer-scope symbol of t, appending
// it to FreeSymbols, and returns the Free symbol that code in t should use
// to reference it.
func (t *Table) defineFree(outer *Symbol) *Symbol {
	t.FreeSymbols = append(t.FreeSymbols, outer)
	sym := &Symbol{Name: outer.Name, Scope: FreeScope, Index: len(t.FreeSymbols) - 1}
	t.store[outer.Name] = append(t.store[outer.Name], sym)
	return sym
}

// Resolve looks up name, returning the most recently defined symbol visible
// at the current block depth. If name is not defined in this table, it is
// looked up in the outer table; a Local or Free match found there is
// promoted to a Free symbol of every intervening table, while a Global or
// Builtin match is returned unchanged (those scopes need no capture, they
// are reachable from any function directly).
func (t *Table) Resolve(name string) (*Symbol, bool) {
	if syms, ok := t.store[name]; ok {
		// Search backwards so the most recently defined (innermost/shadowing)
		// binding wins.
		for i := len(syms) - 1; i >= 0; i-- {
			if syms[i].Depth <= t.depth {
				return syms[i], true
			}
		}
	}
	if t.outer == nil {
		return nil, false
	}
	outerSym, ok := t.outer.Resolve(name)
	if !ok {
		return nil, false
	}
	switch outerSym.Scope {
	case GlobalScope, BuiltinFunctionScope, BuiltinVariableScope:
		return outerSym, true
	default:
		return t.defineFree(outerSym), true
	}
}

// NumDefinitions returns the number of Local/Global symbols defined directly
// in this table (not counting free variables).
func (t *Table) NumDefinitions() int { return t.numDefinitions }

// Outer returns the enclosing table, or nil for the top-level table.
func (t *Table) Outer() *Table { return t.outer }

// Names returns every name defined directly in this table with Define,
// sorted, for the REPL's introspection of what a session has defined so far.
// Built-in, free and function-self names are not included.
func (t *Table) Names() []string {
	names := maps.Keys(t.store)
	defined := names[:0]
	for _, name := range names {
		for _, sym := range t.store[name] {
			if sym.Scope == GlobalScope || sym.Scope == LocalScope {
				defined = append(defined, name)
				break
			}
		}
	}
	slices.Sort(defined)
	return defined
}
