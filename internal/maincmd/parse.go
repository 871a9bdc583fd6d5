package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mna/mainer"

	"github.com/binoyjayan/p2sh-go/internal/parser"
	"github.com/binoyjayan/p2sh-go/internal/scanner"
)

// Parse parses each named file and prints its abstract syntax tree.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio.Stdout, stdio.Stderr, args...)
}

// ParseFiles reads, scans and parses each file, printing the resulting
// program to stdout or its parse errors to stderr.
func ParseFiles(stdout, stderr io.Writer, files ...string) error {
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return err
		}
		if err := ParseSource(stdout, path, string(src)); err != nil {
			fmt.Fprintln(stderr, err)
			return err
		}
	}
	return nil
}

// ParseSource scans and parses src, printing the resulting program to
// stdout under label, or returning its first parse error.
func ParseSource(stdout io.Writer, label, src string) error {
	p := parser.New(scanner.New(src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("%s: %s", label, strings.Join(errs, "\n"))
	}
	fmt.Fprintf(stdout, "%s:\n%s\n", label, program.String())
	return nil
}
