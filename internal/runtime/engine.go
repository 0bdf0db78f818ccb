package runtime

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/minsky/internal/logging"
	"github.com/aretw0/minsky/pkg/domain"
)

// Interpreter runs Minsky programs.
//
// Execution is first-applicable, restart-from-top: rules are scanned in program order,
// the first one that fires is applied and the scan restarts from rule 0. A scan that fires
// nothing halts the machine. The step budget (fuel) is checked after each firing.
type Interpreter struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	trace  bool
	charge func(rule int) bool
}

// Option configures the Interpreter.
type Option func(*Interpreter)

// WithLogger sets a custom structured logger for the interpreter.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(in *Interpreter) {
		in.hooks = hooks
	}
}

// WithTrace records the index of every fired rule in Result.Trace.
func WithTrace(enabled bool) Option {
	return func(in *Interpreter) {
		in.trace = enabled
	}
}

// WithCharge restricts fuel to the firings of rules for which charge returns true.
// Other firings are free and are not counted in Result.Steps, though they still appear
// in the trace and in OnRuleFired.
func WithCharge(charge func(rule int) bool) Option {
	return func(in *Interpreter) {
		in.charge = charge
	}
}

// NewInterpreter creates an interpreter.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Result is the outcome of a run that halted.
type Result struct {
	Steps   int            `json:"steps"`
	Machine domain.Machine `json:"machine"`
	Trace   []int          `json:"trace,omitempty"`
}

// Step offers the rules to the machine in program order and fires the first one that
// applies. It returns the index of the fired rule, or -1 if none applied. A rule whose
// actions would overflow a tape stops the scan with a *domain.OverflowError.
func (in *Interpreter) Step(ctx context.Context, m *domain.Machine, p *domain.Program) (int, error) {
	debug := in.logger.Enabled(ctx, slog.LevelDebug)
	fired := -1
	var err error
	p.Each(func(i int, r domain.Rule) bool {
		outcome := m.ApplyRule(r)
		if debug {
			in.logger.DebugContext(ctx, "rule offered", "rule", i, "outcome", outcome.String())
		}
		switch outcome {
		case domain.OutcomeFired:
			fired = i
			return false
		case domain.OutcomeOverflow:
			tape, _ := m.Tapes.Overflows(r)
			err = &domain.OverflowError{RuleIndex: i, Tape: tape}
			return false
		}
		return true
	})
	return fired, err
}

// Interpret runs the program from the initial machine until it halts or the fuel runs out.
//
// The initial machine is never modified. When the fuel runs out the partial machine is
// discarded and a *domain.OutOfFuelError is returned; re-run with more fuel to retry.
// A tape overflow aborts the run the same way with a *domain.OverflowError.
// The context is only handed to lifecycle hooks and loggers.
func (in *Interpreter) Interpret(ctx context.Context, initial domain.Machine, p *domain.Program, fuel int) (Result, error) {
	m := initial.Clone()
	res := Result{}
	in.logger.DebugContext(ctx, "run started", "state", m.State, "tapes", len(m.Tapes), "rules", p.NumRules(), "fuel", fuel)

	for {
		from := m.State
		idx, err := in.Step(ctx, &m, p)
		if err != nil {
			var overflow *domain.OverflowError
			if errors.As(err, &overflow) {
				overflow.Steps = res.Steps
			}
			in.logger.WarnContext(ctx, "run aborted", "steps", res.Steps, "error", err)
			return Result{}, err
		}
		if idx < 0 {
			res.Machine = m
			in.logger.InfoContext(ctx, "machine halted", "steps", res.Steps, "state", m.State)
			if in.hooks.OnHalt != nil {
				in.hooks.OnHalt(ctx, &domain.RunEvent{Steps: res.Steps, Fuel: fuel, Machine: m.Clone()})
			}
			return res, nil
		}

		charged := in.charge == nil || in.charge(idx)
		if charged {
			res.Steps++
		}
		if in.trace {
			res.Trace = append(res.Trace, idx)
		}
		if in.hooks.OnRuleFired != nil {
			in.hooks.OnRuleFired(ctx, &domain.StepEvent{Step: res.Steps, RuleIndex: idx, From: from, To: m.State})
		}

		if charged && res.Steps >= fuel {
			in.logger.WarnContext(ctx, "out of fuel", "steps", res.Steps, "fuel", fuel)
			if in.hooks.OnOutOfFuel != nil {
				in.hooks.OnOutOfFuel(ctx, &domain.RunEvent{Steps: res.Steps, Fuel: fuel, Machine: m.Clone()})
			}
			return Result{}, &domain.OutOfFuelError{Fuel: fuel, Steps: res.Steps}
		}
	}
}
