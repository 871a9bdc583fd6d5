package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mna/mainer"

	"github.com/binoyjayan/p2sh-go/internal/builtins"
	"github.com/binoyjayan/p2sh-go/internal/compiler"
	"github.com/binoyjayan/p2sh-go/internal/parser"
	"github.com/binoyjayan/p2sh-go/internal/scanner"
	"github.com/binoyjayan/p2sh-go/internal/symtable"
)

// Compile compiles each named file and prints its disassembled bytecode.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(stdio.Stdout, stdio.Stderr, args...)
}

// CompileFiles reads, parses and compiles each file in its own fresh symbol
// table (pre-populated with the built-ins every script sees), printing the
// disassembled top-level instructions the way internal/code.Instructions
// renders itself.
func CompileFiles(stdout, stderr io.Writer, files ...string) error {
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return err
		}
		p := parser.New(scanner.New(string(src)))
		program := p.ParseProgram()
		if errs := p.Errors(); len(errs) > 0 {
			err := fmt.Errorf("%s: %s", path, strings.Join(errs, "\n"))
			fmt.Fprintln(stderr, err)
			return err
		}

		symtab := symtable.New()
		builtins.Define(symtab)
		comp := compiler.New(symtab)
		if err := comp.Compile(program); err != nil {
			err = fmt.Errorf("%s: %w", path, err)
			fmt.Fprintln(stderr, err)
			return err
		}

		bc := comp.Bytecode()
		fmt.Fprintf(stdout, "%s:\n%s", path, bc.Instructions.String())
	}
	return nil
}
