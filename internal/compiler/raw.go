package compiler

import (
	"fmt"

	"github.com/aretw0/minsky/pkg/domain"
	"github.com/aretw0/minsky/pkg/schema"
)

// RawProgram is a parsed but not yet validated program.
type RawProgram struct {
	Name     string
	NumTapes int
	Rules    []RawRule
}

// RawRule keeps the source line of each rule for error reporting.
type RawRule struct {
	From   int
	To     int
	Adjust []int64
	Line   int
}

// ParseError reports a syntax error in program source.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// Compile validates a raw program and turns it into a domain.Program.
// Structural errors carry the source line of the offending rule.
func Compile(raw *RawProgram) (*domain.Program, error) {
	rules := make([]domain.Rule, len(raw.Rules))
	for i, r := range raw.Rules {
		rules[i] = domain.NewRule(r.From, r.To, r.Adjust...)
	}
	program := domain.NewProgram(raw.NumTapes, rules...)

	if err := schema.ValidateProgram(program); err != nil {
		for _, se := range schema.StructuralErrors(err) {
			if se.RuleIndex >= 0 && se.RuleIndex < len(raw.Rules) {
				se.Line = raw.Rules[se.RuleIndex].Line
			}
		}
		return nil, err
	}
	return program, nil
}
