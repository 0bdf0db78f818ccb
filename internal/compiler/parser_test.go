package compiler_test

import (
	"errors"
	"testing"

	"github.com/aretw0/minsky/internal/compiler"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/library"
	"github.com/aretw0/minsky/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TextFormat(t *testing.T) {
	src := `# adder
tapes: 2

0 [1, -1] 0   // move one unit
0 [0 0] 1
`
	raw, err := compiler.NewParser().Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, 2, raw.NumTapes)
	require.Len(t, raw.Rules, 2)
	assert.Equal(t, compiler.RawRule{From: 0, To: 0, Adjust: []int64{1, -1}, Line: 4}, raw.Rules[0])
	assert.Equal(t, compiler.RawRule{From: 0, To: 1, Adjust: []int64{0, 0}, Line: 5}, raw.Rules[1])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"missing header", "0 [1] 0\n", 1},
		{"no header at all", "# nothing\n", 0},
		{"duplicate header", "tapes: 1\ntapes: 2\n", 2},
		{"bad tape count", "tapes: two\n", 1},
		{"missing brackets", "tapes: 1\n0 1 0\n", 2},
		{"bad adjustment", "tapes: 1\n0 [x] 0\n", 2},
		{"negative state", "tapes: 1\n-1 [0] 0\n", 2},
		{"missing target", "tapes: 1\n0 [0]\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse([]byte(tt.src))
			require.Error(t, err)

			var pe *compiler.ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %T", err)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestCompile_ReportsSourceLine(t *testing.T) {
	src := "tapes: 2\n0 [1, -1] 0\n\n0 [1] 1\n"

	_, err := compiler.Load([]byte(src), compiler.FormatText)
	require.Error(t, err)

	structural := schema.StructuralErrors(err)
	require.Len(t, structural, 1)
	assert.Equal(t, 1, structural[0].RuleIndex)
	assert.Equal(t, 4, structural[0].Line)
	assert.Equal(t, 2, structural[0].Expected)
	assert.Equal(t, 1, structural[0].Actual)
	assert.Contains(t, err.Error(), "line 4")
}

func TestPrint_RoundTrips(t *testing.T) {
	for _, entry := range library.All() {
		t.Run(entry.Name, func(t *testing.T) {
			text := compiler.Print(entry.Program)

			parsed, err := compiler.Load([]byte(text), compiler.FormatText)
			require.NoError(t, err)
			assert.Equal(t, entry.Program.Rules(), parsed.Rules())
			assert.Equal(t, entry.Program.NumTapes(), parsed.NumTapes())
		})
	}
}

func TestPrint_EmptyProgram(t *testing.T) {
	text := compiler.Print(domain.NewProgram(0))
	assert.Equal(t, "tapes: 0\n", text)

	parsed, err := compiler.Load([]byte(text), compiler.FormatText)
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.NumRules())
}

func TestFormatRule(t *testing.T) {
	r := domain.NewRule(3, 7, -2, 0, 5)
	assert.Equal(t, "3 [-2, 0, 5] 7", compiler.FormatRule(r))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, compiler.FormatYAML, compiler.DetectFormat("adder.yaml"))
	assert.Equal(t, compiler.FormatYAML, compiler.DetectFormat("ADDER.YML"))
	assert.Equal(t, compiler.FormatText, compiler.DetectFormat("adder.m3"))
	assert.Equal(t, compiler.FormatText, compiler.DetectFormat("adder"))
}
