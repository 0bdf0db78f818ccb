package http

import (
	"fmt"

	"github.com/aretw0/minsky"
	"github.com/aretw0/minsky/pkg/domain"
)

// ProgramPayload carries a program either as source (text or YAML) or as structure.
type ProgramPayload struct {
	Source string        `json:"source,omitempty"`
	Format string        `json:"format,omitempty"`
	Tapes  *int          `json:"tapes,omitempty"`
	Rules  []domain.Rule `json:"rules,omitempty"`
}

// Program resolves the payload into a program. Structural validation is left to the engine.
func (p ProgramPayload) Program(eng *minsky.Engine) (*domain.Program, error) {
	switch {
	case p.Source != "":
		format := minsky.FormatText
		if p.Format != "" {
			format = minsky.Format(p.Format)
		}
		return eng.Parse([]byte(p.Source), format)
	case p.Tapes != nil:
		return domain.NewProgram(*p.Tapes, p.Rules...), nil
	default:
		return nil, errMissingProgram
	}
}

var errMissingProgram = fmt.Errorf("program requires either source or tapes")

// InterpretRequest is the body of POST /v1/interpret. A zero fuel uses the engine default.
type InterpretRequest struct {
	Program   ProgramPayload `json:"program"`
	Machine   domain.Machine `json:"machine"`
	Fuel      int            `json:"fuel,omitempty"`
	Transpile bool           `json:"transpile,omitempty"`
}

// RunResult reports a halted run. When the run was transpiled, Steps counts emulated firings
// and Trace indexes the transpiled rules.
type RunResult struct {
	Steps   int            `json:"steps"`
	Machine domain.Machine `json:"machine"`
	Trace   []int          `json:"trace,omitempty"`
}

// TranspileRequest is the body of POST /v1/transpile. Machine, if set, is translated too.
type TranspileRequest struct {
	Program ProgramPayload  `json:"program"`
	Machine *domain.Machine `json:"machine,omitempty"`
}

// TranspileResponse holds the single-state program in both structured and text form.
// States lists the original states in the order of their auxiliary tapes.
type TranspileResponse struct {
	Program       *domain.Program `json:"program"`
	Source        string          `json:"source"`
	States        []domain.State  `json:"states"`
	OriginalTapes int             `json:"original_tapes"`
	Machine       *domain.Machine `json:"machine,omitempty"`
}

// ValidateResponse lists the structural problems of a program, if any.
type ValidateResponse struct {
	Valid  bool          `json:"valid"`
	Errors []ErrorDetail `json:"errors,omitempty"`
}

// ProgramList is the sorted list of stored program names.
type ProgramList struct {
	Programs []string `json:"programs"`
}

// StoredProgram is a stored program along with its text rendering.
type StoredProgram struct {
	Name    string          `json:"name"`
	Program *domain.Program `json:"program"`
	Source  string          `json:"source"`
}

// Health is returned by /healthz.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorDetail describes one structural problem. Rule is nil for program-wide problems.
type ErrorDetail struct {
	Rule     *int   `json:"rule,omitempty"`
	Line     int    `json:"line,omitempty"`
	Expected int    `json:"expected,omitempty"`
	Actual   int    `json:"actual,omitempty"`
	Reason   string `json:"reason"`
}

// Error is the body of every non-2xx response. Steps and Fuel are set when a run was
// aborted.
type Error struct {
	Error   string        `json:"error"`
	Details []ErrorDetail `json:"details,omitempty"`
	Steps   *int          `json:"steps,omitempty"`
	Fuel    *int          `json:"fuel,omitempty"`
}
