package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalPersistsGlobalsAcrossLines(t *testing.T) {
	r := New(&bytes.Buffer{}, &bytes.Buffer{}, nil)

	_, err := r.Eval("let x = 40;")
	require.NoError(t, err)

	v, err := r.Eval("x + 2;")
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())
}

func TestEvalPersistsFunctionsAcrossLines(t *testing.T) {
	r := New(&bytes.Buffer{}, &bytes.Buffer{}, nil)

	_, err := r.Eval("let double = fn(n) { return n * 2; };")
	require.NoError(t, err)

	v, err := r.Eval("double(21);")
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())
}

func TestRunStopsOnExit(t *testing.T) {
	r := New(&bytes.Buffer{}, &bytes.Buffer{}, nil)
	var out bytes.Buffer
	in := bytes.NewBufferString("let a = 1;\na;\nexit\nunreachable;\n")

	err := r.Run(in, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1")
	assert.NotContains(t, out.String(), "unreachable")
}

func TestEvalReportsParseErrors(t *testing.T) {
	r := New(&bytes.Buffer{}, &bytes.Buffer{}, nil)
	_, err := r.Eval("x.;")
	assert.Error(t, err)
}

func TestNamesCommandListsDefinedGlobalsSorted(t *testing.T) {
	r := New(&bytes.Buffer{}, &bytes.Buffer{}, nil)
	var out bytes.Buffer
	in := bytes.NewBufferString("let zeta = 1;\nlet alpha = 2;\n:names\nexit\n")

	err := r.Run(in, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "alpha zeta")
}
