package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/schema"
)

// Builder manages the program construction.
type Builder struct {
	tapes int
	rules []*RuleBuilder
}

// New creates a new program builder for a machine with the given number of tapes.
func New(tapes int) *Builder {
	return &Builder{tapes: tapes}
}

// Rule starts a new rule firing in state from.
// Rules keep the order in which they are started, which is also their priority.
func (b *Builder) Rule(from domain.State) *RuleBuilder {
	rb := &RuleBuilder{
		from:    from,
		adjust:  make([]int64, max(b.tapes, 0)),
		set:     make([]bool, max(b.tapes, 0)),
		builder: b,
	}
	b.rules = append(b.rules, rb)
	return rb
}

// Build validates the rules and returns the program.
func (b *Builder) Build() (*domain.Program, error) {
	var errs []error
	rules := make([]domain.Rule, 0, len(b.rules))
	for i, rb := range b.rules {
		for _, err := range rb.errs {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
		}
		if !rb.done {
			errs = append(errs, fmt.Errorf("rule %d: no target state, call Go or Loop", i))
		}
		rules = append(rules, domain.NewRule(rb.from, rb.to, rb.adjust...))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	program := domain.NewProgram(b.tapes, rules...)
	if err := schema.ValidateProgram(program); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}
	return program, nil
}

// MustBuild is like Build but panics on error. Intended for package-level programs.
func (b *Builder) MustBuild() *domain.Program {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
