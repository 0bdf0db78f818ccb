package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/minsky"
	"github.com/aretw0/minsky/internal/presentation/tui"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/observability"
)

// RunOptions configures a single program run from the command line.
type RunOptions struct {
	Path      string
	State     domain.State
	Tapes     []int64
	Fuel      int
	Transpile bool
	JSON      bool
	Debug     bool
	Trace     int // trace entries to show; 0 disables tracing
}

// RunOutput is the --json document of a run.
type RunOutput struct {
	Outcome string          `json:"outcome"`
	Steps   int             `json:"steps"`
	Fuel    int             `json:"fuel"`
	Machine *domain.Machine `json:"machine,omitempty"`
	Trace   []int           `json:"trace,omitempty"`
}

// Run loads the program at opts.Path, runs it and writes the outcome to w.
// Running out of fuel is reported on w and returned as an error.
func Run(ctx context.Context, opts RunOptions, w io.Writer) error {
	logger := createLogger(opts.Debug)
	engine := createEngine(logger, opts.Debug, opts.Trace > 0 && !opts.Transpile, opts.Fuel, nil)

	program, err := engine.ParseFile(opts.Path)
	if err != nil {
		return err
	}
	return runProgram(ctx, engine, program, filepath.Base(opts.Path), opts, w)
}

func runProgram(ctx context.Context, engine *minsky.Engine, program *domain.Program, title string, opts RunOptions, w io.Writer) error {
	fuel := opts.Fuel
	if fuel <= 0 {
		fuel = minsky.DefaultFuel
	}
	initial := domain.NewMachine(opts.State, opts.Tapes...)

	run := engine.Interpret
	if opts.Transpile {
		run = engine.InterpretTranspiled
	}
	res, runErr := run(ctx, program, initial, fuel)

	var starved *domain.OutOfFuelError
	if runErr != nil && !errors.As(runErr, &starved) {
		return runErr
	}

	if opts.JSON {
		out := RunOutput{Outcome: observability.OutcomeHalted, Steps: res.Steps, Fuel: fuel, Trace: res.Trace}
		if starved != nil {
			out.Outcome = observability.OutcomeOutOfFuel
			out.Steps = starved.Steps
		} else {
			out.Machine = &res.Machine
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		return runErr
	}

	report := tui.RunReport{
		Title:    title,
		Program:  program,
		Initial:  initial,
		Steps:    res.Steps,
		Fuel:     fuel,
		Trace:    res.Trace,
		MaxTrace: opts.Trace,
	}
	if opts.Transpile {
		report.Title += " (transpiled)"
	}
	if starved != nil {
		report.Steps = starved.Steps
	} else {
		report.Final = &res.Machine
	}
	if err := writeMarkdown(w, report.Markdown()); err != nil {
		return err
	}
	return runErr
}

// writeMarkdown renders markdown with glamour on terminals and writes it raw elsewhere.
func writeMarkdown(w io.Writer, markdown string) error {
	if isTerminal(w) {
		rendered, err := tui.NewRenderer()(markdown)
		if err == nil {
			markdown = rendered
		}
	}
	_, err := io.WriteString(w, markdown)
	return err
}
