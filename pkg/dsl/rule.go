package dsl

import (
	"fmt"

	"github.com/aretw0/minsky/pkg/domain"
)

// RuleBuilder provides a fluent API for configuring a rule.
// Tapes that are neither taken from nor given to keep a zero adjustment.
type RuleBuilder struct {
	from    domain.State
	to      domain.State
	done    bool
	adjust  []int64
	set     []bool
	errs    []error
	builder *Builder
}

// Take requires at least n on the tape and subtracts n when the rule fires.
func (r *RuleBuilder) Take(tape domain.TapeID, n int64) *RuleBuilder {
	return r.adjustTape(tape, -n, n)
}

// Give adds n to the tape when the rule fires.
func (r *RuleBuilder) Give(tape domain.TapeID, n int64) *RuleBuilder {
	return r.adjustTape(tape, n, n)
}

// Go sets the target state and returns to the program builder.
func (r *RuleBuilder) Go(to domain.State) *Builder {
	r.to = to
	r.done = true
	return r.builder
}

// Loop keeps the machine in the rule's own state.
func (r *RuleBuilder) Loop() *Builder {
	return r.Go(r.from)
}

func (r *RuleBuilder) adjustTape(tape domain.TapeID, value, n int64) *RuleBuilder {
	switch {
	case n < 0:
		r.errs = append(r.errs, fmt.Errorf("negative amount %d on tape %d", n, tape))
	case tape < 0 || tape >= len(r.adjust):
		r.errs = append(r.errs, fmt.Errorf("tape %d out of range [0, %d)", tape, len(r.adjust)))
	case r.set[tape]:
		r.errs = append(r.errs, fmt.Errorf("tape %d adjusted twice", tape))
	default:
		r.adjust[tape] = value
		r.set[tape] = true
	}
	return r
}
