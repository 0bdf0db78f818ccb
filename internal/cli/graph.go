package cli

import (
	"context"
	"errors"
	"io"

	"github.com/aretw0/minsky/internal/presentation/graph"
	"github.com/aretw0/minsky/pkg/domain"
)

// GraphOptions configures the Mermaid export. With Overlay set the program is run
// first and the visited states are highlighted.
type GraphOptions struct {
	Path    string
	Overlay bool
	State   domain.State
	Tapes   []int64
	Fuel    int
}

// Graph writes the program's state diagram as a Mermaid flowchart.
func Graph(ctx context.Context, opts GraphOptions, w io.Writer) error {
	engine := createEngine(createLogger(false), false, opts.Overlay, opts.Fuel, nil)

	program, err := engine.ParseFile(opts.Path)
	if err != nil {
		return err
	}
	if err := engine.Validate(program); err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if opts.Overlay {
		res, err := engine.Interpret(ctx, program, domain.NewMachine(opts.State, opts.Tapes...), opts.Fuel)
		var starved *domain.OutOfFuelError
		switch {
		case errors.As(err, &starved):
			// partial runs are discarded, render without overlay
		case err != nil:
			return err
		default:
			overlay = graph.OverlayFromTrace(program, opts.State, res.Trace, res.Machine.State)
		}
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(program, overlay))
	return err
}
