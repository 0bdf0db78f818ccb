package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/minsky"
	"github.com/aretw0/minsky/internal/compiler"
	"github.com/aretw0/minsky/internal/config"
)

// SaveProgram compiles the program at path and stores it under name.
// An empty name uses the file name without its extension.
func SaveProgram(ctx context.Context, cfg config.Config, name, path string, w io.Writer) error {
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return withStoredEngine(cfg, RunOptions{}, func(engine *minsky.Engine) error {
		program, err := engine.ParseFile(path)
		if err != nil {
			return err
		}
		if err := engine.Save(ctx, name, program); err != nil {
			return err
		}
		printSystemMessage(w, "Saved '%s' (%d rules).", name, program.NumRules())
		return nil
	})
}

// ListPrograms writes the stored program names, one per line.
func ListPrograms(ctx context.Context, cfg config.Config, w io.Writer) error {
	return withStoredEngine(cfg, RunOptions{}, func(engine *minsky.Engine) error {
		names, err := engine.List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
		return nil
	})
}

// ShowProgram writes a stored program in text format.
func ShowProgram(ctx context.Context, cfg config.Config, name string, w io.Writer) error {
	return withStoredEngine(cfg, RunOptions{}, func(engine *minsky.Engine) error {
		program, err := engine.Load(ctx, name)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, compiler.Print(program))
		return err
	})
}

// DeleteProgram removes a stored program.
func DeleteProgram(ctx context.Context, cfg config.Config, name string, w io.Writer) error {
	return withStoredEngine(cfg, RunOptions{}, func(engine *minsky.Engine) error {
		if err := engine.Delete(ctx, name); err != nil {
			return err
		}
		printSystemMessage(w, "Deleted '%s'.", name)
		return nil
	})
}

// RunStored runs the program stored under name and writes the outcome like Run.
// opts.Path is ignored.
func RunStored(ctx context.Context, cfg config.Config, name string, opts RunOptions, w io.Writer) error {
	if opts.Fuel <= 0 {
		opts.Fuel = cfg.Fuel
	}
	return withStoredEngine(cfg, opts, func(engine *minsky.Engine) error {
		program, err := engine.Load(ctx, name)
		if err != nil {
			return err
		}
		return runProgram(ctx, engine, program, name, opts, w)
	})
}

func withStoredEngine(cfg config.Config, opts RunOptions, fn func(*minsky.Engine) error) error {
	store, closeStore, err := NewStore(cfg.Store)
	defer func() { _ = closeStore() }()
	if err != nil {
		return err
	}
	logger := createLogger(opts.Debug)
	return fn(createEngine(logger, opts.Debug, opts.Trace > 0 && !opts.Transpile, cfg.Fuel, store))
}
