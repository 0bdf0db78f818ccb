package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/minsky/internal/compiler"
	"github.com/aretw0/minsky/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.State
	// FinalState is highlighted when set.
	FinalState *domain.State
}

// GenerateMermaid produces a Mermaid flowchart of the program's state graph.
// It applies semantic styling:
// - State without outgoing rules: (((Double circle)))
// - Default: ((Circle))
// - Rule with a guard: solid arrow
// - Rule without a guard (fires whenever the state is reached): dotted arrow
// Edges are labelled with the rule index and adjustment vector. Overlay styles
// (Visited/Final) are applied if provided.
func GenerateMermaid(p *domain.Program, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	outgoing := make(map[domain.State]bool)
	p.Each(func(_ int, r domain.Rule) bool {
		outgoing[r.From] = true
		return true
	})

	for _, s := range p.States() {
		opener, closer := "((", "))"
		if !outgoing[s] {
			opener, closer = "(((", ")))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%d\"%s\n", stateID(s), opener, s, closer)
	}

	p.Each(func(i int, r domain.Rule) bool {
		arrow := "--"
		tail := "-->"
		if !hasGuard(r) {
			arrow, tail = "-.", ".->"
		}
		fmt.Fprintf(&sb, "    %s %s \"#%d %s\" %s %s\n", stateID(r.From), arrow, i, compiler.FormatAdjust(r.Adjust), tail, stateID(r.To))
		return true
	})

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef final fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.State]bool)
		for _, s := range overlay.VisitedStates {
			if !seen[s] {
				seen[s] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", stateID(s))
			}
		}

		if overlay.FinalState != nil {
			fmt.Fprintf(&sb, "    class %s final;\n", stateID(*overlay.FinalState))
		}
	}

	return sb.String()
}

// OverlayFromTrace rebuilds the visited states of a run from its rule trace.
func OverlayFromTrace(p *domain.Program, initial domain.State, trace []int, final domain.State) *GraphOverlay {
	visited := []domain.State{initial}
	for _, idx := range trace {
		visited = append(visited, p.Rule(idx).To)
	}
	return &GraphOverlay{VisitedStates: visited, FinalState: &final}
}

func stateID(s domain.State) string {
	return fmt.Sprintf("s%d", s)
}

func hasGuard(r domain.Rule) bool {
	for _, a := range r.Adjust {
		if a < 0 {
			return true
		}
	}
	return false
}
