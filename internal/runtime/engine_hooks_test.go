package runtime_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/minsky/internal/logging"
	"github.com/aretw0/minsky/internal/runtime"
	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpreter_LifecycleHooks(t *testing.T) {
	var fired []domain.StepEvent
	var halted *domain.RunEvent

	hooks := domain.LifecycleHooks{
		OnRuleFired: func(ctx context.Context, e *domain.StepEvent) {
			fired = append(fired, *e)
		},
		OnHalt: func(ctx context.Context, e *domain.RunEvent) {
			halted = e
		},
	}

	in := runtime.NewInterpreter(runtime.WithLifecycleHooks(hooks))
	_, err := in.Interpret(context.Background(), library.MultiplierMachine(1, 1), library.Multiplier(), 100)
	require.NoError(t, err)

	require.Len(t, fired, 3)
	assert.Equal(t, domain.StepEvent{Step: 1, RuleIndex: 0, From: 0, To: 0}, fired[0])
	assert.Equal(t, domain.StepEvent{Step: 2, RuleIndex: 1, From: 0, To: 1}, fired[1])
	assert.Equal(t, domain.StepEvent{Step: 3, RuleIndex: 2, From: 1, To: 1}, fired[2])

	require.NotNil(t, halted)
	assert.Equal(t, 3, halted.Steps)
	assert.Equal(t, int64(1), halted.Machine.Tape(0))
}

func TestInterpreter_OutOfFuelHook(t *testing.T) {
	var event *domain.RunEvent
	hooks := domain.LifecycleHooks{
		OnOutOfFuel: func(ctx context.Context, e *domain.RunEvent) { event = e },
		OnHalt:      func(ctx context.Context, e *domain.RunEvent) { t.Error("unexpected halt") },
	}

	in := runtime.NewInterpreter(runtime.WithLifecycleHooks(hooks))
	_, err := in.Interpret(context.Background(), library.AdderMachine(0, 10), library.Adder(), 3)
	require.ErrorIs(t, err, domain.ErrOutOfFuel)
	require.NotNil(t, event)
	assert.Equal(t, 3, event.Steps)
	assert.Equal(t, domain.TapeState{3, 7}, event.Machine.Tapes)
}

func TestInterpreter_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	in := runtime.NewInterpreter(runtime.WithLogger(logging.NewWithWriter(&buf, slog.LevelDebug)))

	_, err := in.Interpret(context.Background(), library.AdderMachine(1, 1), library.Adder(), 10)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "outcome=fired")
	assert.Contains(t, out, "outcome=guard_unsatisfied")
	assert.Contains(t, out, "machine halted")
}
