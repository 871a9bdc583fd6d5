// Package maincmd implements the p2sh command-line driver: flag parsing,
// command dispatch, and the default run/REPL behavior, built on
// github.com/mna/mainer.
package maincmd

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "p2sh"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<command>] [<path>] [-- <arg>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<command>] [<path>] [-- <arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Bytecode compiler, stack-based VM and lazy packet-property engine for the
%[1]s packet-analysis scripting language.

With no <command> and no <path>, starts an interactive REPL. With a <path>
and no <command>, compiles and runs that script, exposing any trailing
arguments after "--" to the script as its argv built-in variable.

The <command> can be one of:
       tokenize <path>...        Scan the given files and print their
                                 token streams.
       parse <path>...           Parse the given files and print their
                                 abstract syntax trees.
       compile <path>...         Compile the given files and print their
                                 disassembled bytecode.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd holds the parsed command-line flags and positional arguments for a
// single invocation of the p2sh binary.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args    []string
	flags   map[string]bool
	cmdFn   func(context.Context, mainer.Stdio, []string) error
	cmdArgs []string
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		// no command, no script: interactive REPL
		c.cmdFn = c.Run
		return nil
	}

	cmdName := c.args[0]
	if fn, ok := buildCmds(c)[cmdName]; ok {
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: at least one file must be provided", cmdName)
		}
		c.cmdFn = fn
		c.cmdArgs = c.args[1:]
		return nil
	}

	// not a known subcommand: treat args[0] as a script path to run, the
	// rest as argv passed through to the script
	c.cmdFn = c.Run
	c.cmdArgs = c.args
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	if err := c.Validate(); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	if err := c.cmdFn(ctx, stdio, c.cmdArgs); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds finds every exported method on v shaped like
// func(*Cmd, context.Context, mainer.Stdio, []string) error and maps its
// lowercased name to a bound function value. Run is excluded: it is the
// default handler invoked when no recognized command is given, not a named
// subcommand itself.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		name := strings.ToLower(m.Name)
		if name == "run" {
			continue
		}
		cmds[name] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
