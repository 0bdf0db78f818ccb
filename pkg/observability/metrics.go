package observability

import (
	"context"

	"github.com/aretw0/minsky/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for minsky_runs_total.
const (
	OutcomeHalted    = "halted"
	OutcomeOutOfFuel = "out_of_fuel"
)

// Metrics holds the Prometheus collectors fed by interpreter hooks.
type Metrics struct {
	RulesFired prometheus.Counter
	Runs       *prometheus.CounterVec
	RunSteps   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RulesFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "minsky_rules_fired_total",
			Help: "Total number of rule firings across all runs",
		}),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minsky_runs_total",
				Help: "Total number of finished runs by outcome",
			},
			[]string{"outcome"},
		),
		RunSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "minsky_run_steps",
			Help:    "Rule firings per finished run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RulesFired, m.Runs, m.RunSteps)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRuleFired: func(ctx context.Context, e *domain.StepEvent) {
			m.RulesFired.Inc()
		},
		OnHalt: func(ctx context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(OutcomeHalted).Inc()
			m.RunSteps.Observe(float64(e.Steps))
		},
		OnOutOfFuel: func(ctx context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(OutcomeOutOfFuel).Inc()
			m.RunSteps.Observe(float64(e.Steps))
		},
	}
}

// Chain returns hooks that call every non-nil callback of each set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		if h.OnRuleFired != nil {
			prev, next := out.OnRuleFired, h.OnRuleFired
			out.OnRuleFired = func(ctx context.Context, e *domain.StepEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		out.OnHalt = chainRun(out.OnHalt, h.OnHalt)
		out.OnOutOfFuel = chainRun(out.OnOutOfFuel, h.OnOutOfFuel)
	}
	return out
}

func chainRun(prev, next func(context.Context, *domain.RunEvent)) func(context.Context, *domain.RunEvent) {
	switch {
	case next == nil:
		return prev
	case prev == nil:
		return next
	}
	return func(ctx context.Context, e *domain.RunEvent) {
		prev(ctx, e)
		next(ctx, e)
	}
}
