package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/binoyjayan/p2sh-go/internal/builtins"
	"github.com/binoyjayan/p2sh-go/internal/compiler"
	"github.com/binoyjayan/p2sh-go/internal/config"
	"github.com/binoyjayan/p2sh-go/internal/parser"
	"github.com/binoyjayan/p2sh-go/internal/property"
	"github.com/binoyjayan/p2sh-go/internal/repl"
	"github.com/binoyjayan/p2sh-go/internal/scanner"
	"github.com/binoyjayan/p2sh-go/internal/symtable"
	"github.com/binoyjayan/p2sh-go/internal/vm"
)

// Run is the default command: with a script path in args it compiles and
// runs that script, exposing the remaining args as its argv. With no args
// it starts the interactive REPL instead. Either way environment-driven
// limits from internal/config are applied to the VM and lazy decode depth
// before anything runs.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	property.MaxProtoDepth = cfg.MaxProtoDepth

	if len(args) == 0 {
		r := repl.New(stdio.Stdout, stdio.Stderr, nil)
		r.HistorySize = cfg.HistorySize
		return r.Run(stdio.Stdin, stdio.Stdout)
	}

	path, argv := args[0], args[1:]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	symtab := symtable.New()
	builtins.Define(symtab)

	p := parser.New(scanner.New(string(src)))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		err := fmt.Errorf("%s: parse error: %s", path, errs[0])
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	comp := compiler.New(symtab)
	if err := comp.Compile(program); err != nil {
		err = fmt.Errorf("%s: compile error: %w", path, err)
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	bc := comp.Bytecode()

	reg := builtins.New(stdio.Stdout, stdio.Stderr)
	scriptArgv := append([]string{path}, argv...)
	machine := vm.New(reg.Functions(), builtins.DefaultVariables(scriptArgv))
	machine.MaxSteps = cfg.MaxSteps
	machine.MaxCallDepth = cfg.MaxCallDepth

	if err := machine.Run(bc.Instructions, bc.Constants); err != nil {
		err = fmt.Errorf("%s: runtime error: %w", path, err)
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
