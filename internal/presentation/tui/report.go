package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/minsky/internal/compiler"
	"github.com/aretw0/minsky/pkg/domain"
)

// RunReport describes a finished (or starved) run for display.
type RunReport struct {
	Title    string
	Program  *domain.Program
	Initial  domain.Machine
	Final    *domain.Machine // nil when the run ran out of fuel
	Steps    int
	Fuel     int
	Trace    []int
	MaxTrace int // trace entries shown; 0 shows none
}

// Markdown renders the report as markdown, ready for NewRenderer.
func (r RunReport) Markdown() string {
	var sb strings.Builder
	title := r.Title
	if title == "" {
		title = "Run"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	fmt.Fprintf(&sb, "- **Program:** %d tapes, %d rules, %d states\n", r.Program.NumTapes(), r.Program.NumRules(), len(r.Program.States()))
	if r.Final != nil {
		fmt.Fprintf(&sb, "- **Outcome:** halted in state %d after %d steps (fuel %d)\n\n", r.Final.State, r.Steps, r.Fuel)
	} else {
		fmt.Fprintf(&sb, "- **Outcome:** out of fuel after %d steps\n\n", r.Steps)
	}

	sb.WriteString("| Tape | Initial | Final |\n|---:|---:|---:|\n")
	for i, v := range r.Initial.Tapes {
		final := "-"
		if r.Final != nil && i < len(r.Final.Tapes) {
			final = fmt.Sprint(r.Final.Tapes[i])
		}
		fmt.Fprintf(&sb, "| %d | %d | %s |\n", i, v, final)
	}

	if r.MaxTrace > 0 && len(r.Trace) > 0 {
		sb.WriteString("\n## Trace\n\n")
		shown := r.Trace
		if len(shown) > r.MaxTrace {
			shown = shown[:r.MaxTrace]
		}
		for step, idx := range shown {
			fmt.Fprintf(&sb, "%d. rule %d `%s`\n", step+1, idx, compiler.FormatRule(r.Program.Rule(idx)))
		}
		if len(r.Trace) > len(shown) {
			fmt.Fprintf(&sb, "\n_%d more steps not shown._\n", len(r.Trace)-len(shown))
		}
	}
	return sb.String()
}
