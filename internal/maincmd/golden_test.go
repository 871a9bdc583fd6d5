package maincmd

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh-go/internal/filetest"
)

var updateGoldenTests = flag.Bool("test.update-golden-tests", false, "update the tokenize/parse golden files")

func TestTokenizeGolden(t *testing.T) {
	fis := filetest.SourceFiles(t, "testdata", ".p2sh")
	require.NotEmpty(t, fis)

	for _, fi := range fis {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join("testdata", fi.Name()))
			require.NoError(t, err)

			var out bytes.Buffer
			TokenizeSource(&out, fi.Name(), string(src))
			filetest.DiffOutput(t, fi, out.String(), "testdata/tokenize.golden", updateGoldenTests)
		})
	}
}

func TestParseGolden(t *testing.T) {
	fis := filetest.SourceFiles(t, "testdata", ".p2sh")
	require.NotEmpty(t, fis)

	for _, fi := range fis {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join("testdata", fi.Name()))
			require.NoError(t, err)

			var out bytes.Buffer
			err = ParseSource(&out, fi.Name(), string(src))
			require.NoError(t, err)
			filetest.DiffOutput(t, fi, out.String(), "testdata/parse.golden", updateGoldenTests)
		})
	}
}
