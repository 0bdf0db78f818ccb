package domain

import (
	"errors"
	"fmt"
)

// ErrOutOfFuel is matched (via errors.Is) by every OutOfFuelError.
var ErrOutOfFuel = errors.New("out of fuel")

// ErrProgramNotFound is returned when a program name cannot be found in a store.
var ErrProgramNotFound = errors.New("program not found")

// OutOfFuelError reports that the step budget ran out before the machine halted.
type OutOfFuelError struct {
	Fuel  int
	Steps int
}

func (e *OutOfFuelError) Error() string {
	return fmt.Sprintf("out of fuel after %d steps (budget %d)", e.Steps, e.Fuel)
}

func (e *OutOfFuelError) Is(target error) bool {
	return target == ErrOutOfFuel
}

// ErrTapeOverflow is matched (via errors.Is) by every OverflowError.
var ErrTapeOverflow = errors.New("tape overflow")

// OverflowError reports a rule whose action would push a counter past math.MaxInt64.
type OverflowError struct {
	RuleIndex int
	Tape      TapeID
	Steps     int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("rule %d would overflow tape %d after %d steps", e.RuleIndex, e.Tape, e.Steps)
}

func (e *OverflowError) Is(target error) bool {
	return target == ErrTapeOverflow
}

// ErrInvalidProgramName is returned when a store key is empty or contains characters
// outside [A-Za-z0-9._-].
var ErrInvalidProgramName = errors.New("invalid program name")

// ValidateProgramName checks that name can be used as a store key (and a file name).
func ValidateProgramName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidProgramName, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidProgramName, name)
		}
	}
	return nil
}
