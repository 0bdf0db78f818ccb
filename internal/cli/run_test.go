package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aretw0/minsky/internal/cli"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_JSON(t *testing.T) {
	path := writeProgram(t, "adder.m3", adderSource)

	tests := []struct {
		name      string
		transpile bool
	}{
		{"direct", false},
		{"transpiled", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := cli.Run(context.Background(), cli.RunOptions{
				Path:      path,
				Tapes:     []int64{2, 3},
				Transpile: tt.transpile,
				JSON:      true,
			}, &out)
			require.NoError(t, err)

			var got cli.RunOutput
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, observability.OutcomeHalted, got.Outcome)
			require.NotNil(t, got.Machine)
			assert.Equal(t, domain.TapeState{5, 0}, got.Machine.Tapes)
			assert.Equal(t, 0, got.Machine.State)
		})
	}
}

func TestRun_JSONTrace(t *testing.T) {
	path := writeProgram(t, "adder.m3", adderSource)

	var out bytes.Buffer
	err := cli.Run(context.Background(), cli.RunOptions{Path: path, Tapes: []int64{0, 2}, JSON: true, Trace: 10}, &out)
	require.NoError(t, err)

	var got cli.RunOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got.Steps)
	assert.Equal(t, []int{0, 0}, got.Trace)
}

func TestRun_OutOfFuel(t *testing.T) {
	path := writeProgram(t, "adder.m3", adderSource)

	t.Run("JSON", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.Run(context.Background(), cli.RunOptions{Path: path, Tapes: []int64{2, 3}, Fuel: 2, JSON: true}, &out)
		assert.ErrorIs(t, err, domain.ErrOutOfFuel)

		var got cli.RunOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, observability.OutcomeOutOfFuel, got.Outcome)
		assert.Equal(t, 2, got.Steps)
		assert.Equal(t, 2, got.Fuel)
		assert.Nil(t, got.Machine)
	})

	t.Run("Report", func(t *testing.T) {
		var out bytes.Buffer
		err := cli.Run(context.Background(), cli.RunOptions{Path: path, Tapes: []int64{2, 3}, Fuel: 2}, &out)
		assert.ErrorIs(t, err, domain.ErrOutOfFuel)
		assert.Contains(t, out.String(), "out of fuel after 2 steps")
		assert.Contains(t, out.String(), "| 0 | 2 | - |")
	})
}

func TestRun_Report(t *testing.T) {
	path := writeProgram(t, "adder.m3", adderSource)

	var out bytes.Buffer
	err := cli.Run(context.Background(), cli.RunOptions{Path: path, Tapes: []int64{2, 3}}, &out)
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "# adder.m3")
	assert.Contains(t, report, "halted in state 0 after 3 steps")
	assert.Contains(t, report, "| 0 | 2 | 5 |")
	assert.Contains(t, report, "| 1 | 3 | 0 |")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		tapes  []int64
	}{
		{"parse error", "tapes: 2\n0 [1 -1\n", []int64{1, 1}},
		{"structural error", "tapes: 2\n0 [1] 0\n", []int64{1, 1}},
		{"machine width mismatch", adderSource, []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProgram(t, "p.m3", tt.source)
			var out bytes.Buffer
			err := cli.Run(context.Background(), cli.RunOptions{Path: path, Tapes: tt.tapes}, &out)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrOutOfFuel)
			assert.Empty(t, out.String())
		})
	}

	t.Run("missing file", func(t *testing.T) {
		err := cli.Run(context.Background(), cli.RunOptions{Path: "does-not-exist.m3"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestRun_ExamplePrograms(t *testing.T) {
	tests := []struct {
		file  string
		tapes []int64
		want  int64
	}{
		{"adder.m3", []int64{2, 3}, 5},
		{"mult.m3", []int64{0, 6, 0, 6}, 42},
		{"mult6.yaml", []int64{0, 6, 7, 0}, 42},
	}

	for _, tt := range tests {
		for _, transpile := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s transpile=%v", tt.file, transpile), func(t *testing.T) {
				var out bytes.Buffer
				err := cli.Run(context.Background(), cli.RunOptions{
					Path:      filepath.Join("..", "..", "examples", "programs", tt.file),
					Tapes:     tt.tapes,
					Transpile: transpile,
					JSON:      true,
				}, &out)
				require.NoError(t, err)

				var got cli.RunOutput
				require.NoError(t, json.Unmarshal(out.Bytes(), &got))
				require.NotNil(t, got.Machine)
				assert.Equal(t, tt.want, got.Machine.Tape(0))
			})
		}
	}
}
