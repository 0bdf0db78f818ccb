package schema

import (
	"fmt"

	"github.com/aretw0/minsky/pkg/domain"
)

// ValidateProgram checks that the tape count is sane, that every rule has exactly one
// adjustment per tape and that states are non-negative.
func ValidateProgram(p *domain.Program) error {
	var errs []error

	if p.NumTapes() < 0 {
		errs = append(errs, &StructuralError{
			RuleIndex: NoRule,
			Actual:    p.NumTapes(),
			Reason:    fmt.Sprintf("negative tape count %d", p.NumTapes()),
		})
	}

	p.Each(func(i int, r domain.Rule) bool {
		if r.Width() != p.NumTapes() {
			errs = append(errs, &StructuralError{
				RuleIndex: i,
				Expected:  p.NumTapes(),
				Actual:    r.Width(),
				Reason:    fmt.Sprintf("expected %d adjustments, got %d", p.NumTapes(), r.Width()),
			})
		}
		if r.From < 0 || r.To < 0 {
			errs = append(errs, &StructuralError{
				RuleIndex: i,
				Expected:  p.NumTapes(),
				Actual:    r.Width(),
				Reason:    fmt.Sprintf("negative state in %d -> %d", r.From, r.To),
			})
		}
		return true
	})

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateMachine checks that a machine can be run against the program:
// one counter per tape, no negative counter and a non-negative state.
func ValidateMachine(p *domain.Program, m domain.Machine) error {
	var errs []error

	if len(m.Tapes) != p.NumTapes() {
		errs = append(errs, &StructuralError{
			RuleIndex: NoRule,
			Expected:  p.NumTapes(),
			Actual:    len(m.Tapes),
			Reason:    fmt.Sprintf("machine has %d tapes, program declares %d", len(m.Tapes), p.NumTapes()),
		})
	}
	for i, v := range m.Tapes {
		if v < 0 {
			errs = append(errs, &StructuralError{
				RuleIndex: NoRule,
				Expected:  p.NumTapes(),
				Actual:    len(m.Tapes),
				Reason:    fmt.Sprintf("tape %d starts negative (%d)", i, v),
			})
		}
	}
	if m.State < 0 {
		errs = append(errs, &StructuralError{
			RuleIndex: NoRule,
			Reason:    fmt.Sprintf("negative initial state %d", m.State),
		})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
