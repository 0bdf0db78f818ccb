package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/minsky/internal/logging"
	"github.com/aretw0/minsky/pkg/domain"
	"golang.org/x/term"
)

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout output).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRuleFired: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Rule Fired", "step", e.Step, "rule", e.RuleIndex, "from", e.From, "to", e.To)
		},
		OnHalt: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Halted", "steps", e.Steps, "state", e.Machine.State)
		},
		OnOutOfFuel: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Out Of Fuel", "steps", e.Steps, "fuel", e.Fuel)
		},
	}
}

// ParseTapes parses a comma separated list of tape values, e.g. "2,3".
// An empty string yields no tapes.
func ParseTapes(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	tapes := make([]int64, 0, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tape %d: %q is not an integer", i, strings.TrimSpace(part))
		}
		if v < 0 {
			return nil, fmt.Errorf("tape %d: negative value %d", i, v)
		}
		tapes = append(tapes, v)
	}
	return tapes, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
