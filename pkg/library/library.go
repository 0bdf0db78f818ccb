// Package library contains small reference Minsky programs that do arithmetic.
//
// They double as executable documentation and as fixtures for the interpreter and the
// transpiler.
package library

import (
	"context"
	"fmt"

	"github.com/aretw0/minsky/internal/runtime"
	"github.com/aretw0/minsky/pkg/domain"
)

// Entry describes a reference program and how to run it on two operands.
type Entry struct {
	Name        string
	Description string
	Program     *domain.Program
	// Machine builds the initial machine for operands x and y.
	Machine func(x, y int64) domain.Machine
	// Fuel returns a step budget large enough for operands x and y.
	Fuel func(x, y int64) int
}

// Adder adds tape 1 into tape 0:
//
//	0 [1, -1] 0
func Adder() *domain.Program {
	return domain.NewProgram(2, domain.NewRule(0, 0, 1, -1))
}

// AdderMachine starts the adder on [x, y].
func AdderMachine(x, y int64) domain.Machine {
	return domain.NewMachine(0, x, y)
}

// Multiplier is the 4-rule, 2-state multiplier. Started on [0, x, 0, y-1] it leaves x*y
// on tape 0:
//
//	state 0: move tape 1 into tapes 0 and 2, then switch to state 1
//	state 1: move tape 2 back into tape 1, then spend one unit of tape 3 and go back to 0
func Multiplier() *domain.Program {
	return domain.NewProgram(4,
		domain.NewRule(0, 0, 1, -1, 1, 0),
		domain.NewRule(0, 1, 0, 0, 0, 0),
		domain.NewRule(1, 1, 0, 1, -1, 0),
		domain.NewRule(1, 0, 0, 0, 0, -1),
	)
}

// MultiplierMachine starts the 4-rule multiplier. y must be at least 1.
func MultiplierMachine(x, y int64) domain.Machine {
	return domain.NewMachine(0, 0, x, 0, y-1)
}

// SixRuleMultiplier is a 3-state multiplier started on [0, x, y, 0]. For every unit of
// tape 1 it copies tape 2 into tape 0 (using tape 3 as scratch); once tape 1 is empty it
// drains tape 2, halting on [x*y, 0, 0, 0].
func SixRuleMultiplier() *domain.Program {
	return domain.NewProgram(4,
		domain.NewRule(0, 1, 0, -1, 0, 0),
		domain.NewRule(0, 0, 0, 0, -1, 0),
		domain.NewRule(1, 1, 1, 0, -1, 1),
		domain.NewRule(1, 2, 0, 0, 0, 0),
		domain.NewRule(2, 2, 0, 0, 1, -1),
		domain.NewRule(2, 0, 0, 0, 0, 0),
	)
}

// SixRuleMultiplierMachine starts the 6-rule multiplier on [0, x, y, 0].
func SixRuleMultiplierMachine(x, y int64) domain.Machine {
	return domain.NewMachine(0, 0, x, y, 0)
}

// All lists the reference programs.
func All() []Entry {
	return []Entry{
		{
			Name:        "adder",
			Description: "tape0 = x + y, started on [x, y]",
			Program:     Adder(),
			Machine:     AdderMachine,
			Fuel:        func(x, y int64) int { return int(2*y + 1) },
		},
		{
			Name:        "mult",
			Description: "tape0 = x * y, started on [0, x, 0, y-1] (y >= 1)",
			Program:     Multiplier(),
			Machine:     MultiplierMachine,
			Fuel:        func(x, y int64) int { return int(2*(x+1)*y + 1) },
		},
		{
			Name:        "mult6",
			Description: "tape0 = x * y, started on [0, x, y, 0]",
			Program:     SixRuleMultiplier(),
			Machine:     SixRuleMultiplierMachine,
			Fuel:        func(x, y int64) int { return int(x*(2*y+3) + y + 1) },
		},
	}
}

// Lookup returns the named reference program.
func Lookup(name string) (Entry, bool) {
	for _, e := range All() {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Run interprets a reference program on x and y and returns tape 0.
func Run(ctx context.Context, name string, x, y int64) (int64, error) {
	e, ok := Lookup(name)
	if !ok {
		return 0, fmt.Errorf("unknown program %q", name)
	}
	if x < 0 || y < 0 {
		return 0, fmt.Errorf("operands must be non-negative, got %d and %d", x, y)
	}
	if name == "mult" && y < 1 {
		return 0, fmt.Errorf("mult needs y >= 1, got %d", y)
	}
	res, err := runtime.NewInterpreter().Interpret(ctx, e.Machine(x, y), e.Program, e.Fuel(x, y))
	if err != nil {
		return 0, fmt.Errorf("running %s: %w", name, err)
	}
	return res.Machine.Tape(0), nil
}
