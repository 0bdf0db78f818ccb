package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/minsky"
	"github.com/aretw0/minsky/internal/cli"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspile_Stdout(t *testing.T) {
	path := writeProgram(t, "adder.m3", adderSource)

	var out bytes.Buffer
	require.NoError(t, cli.Transpile(path, "", false, &out))

	assert.True(t, strings.HasPrefix(out.String(), "# transpiled from 2 tapes, 1 rules\n# states: 0=0\n"))

	// The output is itself a valid program.
	eng := minsky.New()
	p, err := eng.Parse(out.Bytes(), minsky.FormatText)
	require.NoError(t, err)
	assert.Equal(t, 4, p.NumTapes())

	res, err := eng.Interpret(context.Background(), p, domain.NewMachine(0, 2, 3, 1, 0), 100)
	require.NoError(t, err)
	assert.Equal(t, domain.TapeState{5, 0, 1, 0}, res.Machine.Tapes)
}

func TestTranspile_OutputFile(t *testing.T) {
	path := writeProgram(t, "mult6.yaml", `tapes: 4
rules:
  - {from: 0, adjust: [0, -1, 0, 0], to: 1}
  - {from: 0, adjust: [0, 0, -1, 0], to: 0}
  - {from: 1, adjust: [1, 0, -1, 1], to: 1}
  - {from: 1, adjust: [0, 0, 0, 0], to: 2}
  - {from: 2, adjust: [0, 0, 1, -1], to: 2}
  - {from: 2, adjust: [0, 0, 0, 0], to: 0}
`)
	target := filepath.Join(t.TempDir(), "mult6.m3")

	var out bytes.Buffer
	require.NoError(t, cli.Transpile(path, target, false, &out))
	assert.Contains(t, out.String(), target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tapes: 10\n")
	assert.Contains(t, string(data), "# states: 0=0 1=1 2=2\n")
}

func TestTranspile_InvalidProgram(t *testing.T) {
	path := writeProgram(t, "bad.m3", "tapes: 2\n0 [1, -1, 0] 0\n")
	var out bytes.Buffer
	assert.Error(t, cli.Transpile(path, "", false, &out))
	assert.Empty(t, out.String())
}
