package minsky

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/minsky/internal/compiler"
	"github.com/aretw0/minsky/internal/logging"
	"github.com/aretw0/minsky/internal/runtime"
	"github.com/aretw0/minsky/pkg/adapters/memory"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/ports"
	"github.com/aretw0/minsky/pkg/schema"
	"github.com/aretw0/minsky/pkg/transpiler"
)

// Version is the release of the toolchain reported by the CLI and the servers.
const Version = "0.4.0"

// DefaultFuel is the step budget used when a caller passes zero.
const DefaultFuel = 1_000_000

// Format selects a program source format.
type Format = compiler.Format

const (
	FormatText = compiler.FormatText
	FormatYAML = compiler.FormatYAML
)

// Result is the outcome of a run that halted.
type Result = runtime.Result

// Engine is the high-level entry point for the Minsky library.
// It wraps the interpreter, transpiler and program store behind a single API.
type Engine struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	store  ports.ProgramStore
	fuel   int
	trace  bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore injects a custom ProgramStore. The default keeps programs in memory.
func WithStore(store ports.ProgramStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithDefaultFuel sets the step budget used when Interpret is called with zero fuel.
func WithDefaultFuel(fuel int) Option {
	return func(e *Engine) {
		if fuel > 0 {
			e.fuel = fuel
		}
	}
}

// WithTrace records the index of every fired rule in Result.Trace.
func WithTrace(enabled bool) Option {
	return func(e *Engine) {
		e.trace = enabled
	}
}

// New initializes a new Minsky Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{fuel: DefaultFuel}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	return eng
}

// Parse compiles program source in the given format.
func (e *Engine) Parse(source []byte, format Format) (*domain.Program, error) {
	return compiler.Load(source, format)
}

// ParseFile reads and compiles a program file, picking the format from its extension.
func (e *Engine) ParseFile(path string) (*domain.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	p, err := compiler.Load(data, compiler.DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}

// Validate checks the structure of a program.
func (e *Engine) Validate(p *domain.Program) error {
	return schema.ValidateProgram(p)
}

// Interpret validates the program and the machine, then runs the program.
// A fuel of zero uses the engine's default budget.
func (e *Engine) Interpret(ctx context.Context, p *domain.Program, m domain.Machine, fuel int) (Result, error) {
	if err := schema.ValidateProgram(p); err != nil {
		return Result{}, err
	}
	if err := schema.ValidateMachine(p, m); err != nil {
		return Result{}, err
	}
	return e.run(ctx, p, m, fuel)
}

func (e *Engine) run(ctx context.Context, p *domain.Program, m domain.Machine, fuel int, extra ...runtime.Option) (Result, error) {
	if fuel <= 0 {
		fuel = e.fuel
	}
	opts := append([]runtime.Option{
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithTrace(e.trace),
	}, extra...)
	return runtime.NewInterpreter(opts...).Interpret(ctx, m, p, fuel)
}

// Transpile validates the program and builds its single-state equivalent.
func (e *Engine) Transpile(p *domain.Program) (*transpiler.Translation, error) {
	if err := schema.ValidateProgram(p); err != nil {
		return nil, err
	}
	t := transpiler.Transpile(p)
	e.logger.Debug("program transpiled",
		"states", t.States.Len(),
		"rules", p.NumRules(),
		"transpiled_rules", t.Program.NumRules(),
		"tapes", t.Program.NumTapes(),
	)
	return t, nil
}

// InterpretTranspiled transpiles the program, runs the single-state version from the
// emulation of m and projects the final machine back onto the original tapes.
// Restore rules fire for free: fuel and Result.Steps count emulated firings only, so the
// outcome and step count match Interpret on the original program. Trace entries index the
// transpiled rules.
func (e *Engine) InterpretTranspiled(ctx context.Context, p *domain.Program, m domain.Machine, fuel int) (Result, error) {
	if err := schema.ValidateMachine(p, m); err != nil {
		return Result{}, err
	}
	t, err := e.Transpile(p)
	if err != nil {
		return Result{}, err
	}
	res, err := e.run(ctx, t.Program, t.Machine(m), fuel, runtime.WithCharge(t.Emulates))
	if err != nil {
		return Result{}, err
	}
	projected, err := t.Project(res.Machine)
	switch {
	case errors.Is(err, transpiler.ErrNoEmulatedState):
		// m starts in a state no rule names, so nothing fired.
		projected = m.Clone()
	case err != nil:
		return Result{}, err
	}
	res.Machine = projected
	return res, nil
}

// Save validates the program and stores it under name.
func (e *Engine) Save(ctx context.Context, name string, p *domain.Program) error {
	if err := schema.ValidateProgram(p); err != nil {
		return err
	}
	if err := e.store.Save(ctx, name, p); err != nil {
		return err
	}
	e.logger.Info("program saved", "name", name, "rules", p.NumRules())
	return nil
}

// Load retrieves a stored program.
func (e *Engine) Load(ctx context.Context, name string) (*domain.Program, error) {
	return e.store.Load(ctx, name)
}

// Delete removes a stored program.
func (e *Engine) Delete(ctx context.Context, name string) error {
	return e.store.Delete(ctx, name)
}

// List returns the names of the stored programs.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// Run loads a stored program and interprets it.
func (e *Engine) Run(ctx context.Context, name string, m domain.Machine, fuel int) (Result, error) {
	p, err := e.store.Load(ctx, name)
	if err != nil {
		return Result{}, err
	}
	return e.Interpret(ctx, p, m, fuel)
}

// Store exposes the underlying program store.
func (e *Engine) Store() ports.ProgramStore {
	return e.store
}
