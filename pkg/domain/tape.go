package domain

import (
	"fmt"
	"math"
)

// TapeState holds one non-negative counter per tape.
type TapeState []int64

// CanApply reports whether every guard of the rule is satisfied by the tapes.
// The rule must have exactly one entry per tape; a width mismatch is a programming
// error that validation should have caught, so it panics.
func (t TapeState) CanApply(rule Rule) bool {
	if len(t) != len(rule.Adjust) {
		panic(fmt.Sprintf("domain: rule width %d does not match %d tapes", len(rule.Adjust), len(t)))
	}
	for i, amt := range rule.Adjust {
		if amt < 0 && t[i] < -amt {
			return false
		}
	}
	return true
}

// Overflows returns the first tape whose counter would exceed math.MaxInt64 if the rule's
// actions were added to it.
func (t TapeState) Overflows(rule Rule) (TapeID, bool) {
	for i, amt := range rule.Adjust {
		if amt > 0 && t[i] > math.MaxInt64-amt {
			return i, true
		}
	}
	return 0, false
}

// Apply adds the rule's adjustments to the tapes in one step.
// CanApply must have returned true for the same rule and Overflows false.
func (t TapeState) Apply(rule Rule) {
	next := make(TapeState, len(t))
	for i, amt := range rule.Adjust {
		next[i] = t[i] + amt
	}
	if !next.Valid() {
		panic(fmt.Sprintf("domain: applying %v to %v left a negative tape", rule.Adjust, []int64(t)))
	}
	copy(t, next)
}

// Valid reports whether every counter is non-negative.
func (t TapeState) Valid() bool {
	for _, v := range t {
		if v < 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy of the tapes.
func (t TapeState) Clone() TapeState {
	return append(TapeState{}, t...)
}
