package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/binoyjayan/p2sh-go/internal/scanner"
	"github.com/binoyjayan/p2sh-go/internal/token"
)

// Tokenize scans each named file and prints its token stream.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio.Stdout, stdio.Stderr, args...)
}

// TokenizeFiles reads each file and writes one line per token to stdout,
// stopping at the first file it cannot read.
func TokenizeFiles(stdout, stderr io.Writer, files ...string) error {
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return err
		}
		TokenizeSource(stdout, path, string(src))
	}
	return nil
}

// TokenizeSource scans src and writes one line per token to stdout, each
// prefixed with label (typically the source file's path).
func TokenizeSource(stdout io.Writer, label, src string) {
	s := scanner.New(src)
	for {
		tok := s.NextToken()
		fmt.Fprintf(stdout, "%s:%d: %s", label, tok.Line, tok.Type)
		if tok.Literal != "" {
			fmt.Fprintf(stdout, " %q", tok.Literal)
		}
		fmt.Fprintln(stdout)
		if tok.Type == token.EOF {
			break
		}
	}
}
