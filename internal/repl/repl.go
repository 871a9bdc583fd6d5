// Package repl implements the interactive read-compile-run loop: each line
// read from the input is scanned, parsed, compiled against a persistent
// symbol table, and run against a persistent VM, so a variable or function
// defined on one line stays visible to the next.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/binoyjayan/p2sh-go/internal/ast"
	"github.com/binoyjayan/p2sh-go/internal/builtins"
	"github.com/binoyjayan/p2sh-go/internal/compiler"
	"github.com/binoyjayan/p2sh-go/internal/parser"
	"github.com/binoyjayan/p2sh-go/internal/scanner"
	"github.com/binoyjayan/p2sh-go/internal/symtable"
	"github.com/binoyjayan/p2sh-go/internal/value"
	"github.com/binoyjayan/p2sh-go/internal/vm"
)

const prompt = ">> "

// REPL bundles the state that must persist across lines: the symbol table
// (so names defined on one line resolve on the next), the VM (so globals
// and call frames survive), and the growing constants pool every line's
// bytecode is compiled against.
type REPL struct {
	symtab    *symtable.Table
	machine   *vm.VM
	constants []value.Value

	// History holds the most recently entered lines, newest last, capped at
	// HistorySize entries (see internal/config).
	History []string

	HistorySize int
}

// New creates a REPL wired to argv (exposed to scripts as the argv
// built-in variable) and writing print/println/puts output to stdout and
// eprint/eprintln to stderr.
func New(stdout, stderr io.Writer, argv []string) *REPL {
	symtab := symtable.New()
	builtins.Define(symtab)

	reg := builtins.New(stdout, stderr)
	machine := vm.New(reg.Functions(), builtins.DefaultVariables(argv))

	return &REPL{
		symtab:      symtab,
		machine:     machine,
		constants:   []value.Value{},
		HistorySize: 1000,
	}
}

// Run reads lines from in, evaluates each one, and writes its result (or
// error) to out, until in is exhausted or a line is exactly "exit".
func (r *REPL) Run(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)
	for sc.Scan() {
		line := sc.Text()
		if line == "exit" {
			return nil
		}
		if line == ":names" {
			fmt.Fprintln(out, strings.Join(r.Names(), " "))
			fmt.Fprint(out, prompt)
			continue
		}
		r.remember(line)

		result, err := r.Eval(line)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
		} else if result != nil {
			fmt.Fprintln(out, result.String())
		}
		fmt.Fprint(out, prompt)
	}
	return sc.Err()
}

// Eval compiles and runs a single line against the REPL's persistent state,
// returning the value the line's last expression produced (nil if the line
// ended in a statement with no trailing expression value).
func (r *REPL) Eval(line string) (value.Value, error) {
	s := scanner.New(line)
	p := parser.New(s)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("parse error: %s", errs[0])
	}

	// A fresh Compiler per line keeps jump targets line-local, while seeding
	// it with the running constants pool keeps constant indices valid across
	// lines; the VM's globals and call frames are what actually persist.
	comp := compiler.NewWithConstants(r.symtab, r.constants)
	if err := comp.Compile(program); err != nil {
		return nil, fmt.Errorf("compile error: %w", err)
	}
	bc := comp.Bytecode()
	r.constants = bc.Constants

	if err := r.machine.Run(bc.Instructions, r.constants); err != nil {
		return nil, fmt.Errorf("runtime error: %w", err)
	}
	n := len(program.Statements)
	if n == 0 {
		return nil, nil
	}
	if es, ok := program.Statements[n-1].(*ast.ExpressionStatement); !ok || es.Expr == nil {
		return nil, nil
	}
	return r.machine.LastPoppedStackElem(), nil
}

// Names returns the names defined so far in this session's global scope,
// sorted, for the ":names" introspection command.
func (r *REPL) Names() []string {
	return r.symtab.Names()
}

func (r *REPL) remember(line string) {
	r.History = append(r.History, line)
	if len(r.History) > r.HistorySize && r.HistorySize > 0 {
		r.History = r.History[len(r.History)-r.HistorySize:]
	}
}
