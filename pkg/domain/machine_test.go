package domain_test

import (
	"math"
	"testing"

	"github.com/aretw0/minsky/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMachine_ApplyRule(t *testing.T) {
	// no guard, stays in 0
	rule0 := domain.NewRule(0, 0, 1, 1)
	// takes 1 from tape 0, gives 2 to tape 1, moves to 1
	rule1 := domain.NewRule(0, 1, -1, 2)
	// guards only, stays in 1
	rule2 := domain.NewRule(1, 1, -2, -2)

	m := domain.NewMachine(0, 0, 0)

	assert.Equal(t, domain.OutcomeGuardUnsatisfied, m.ApplyRule(rule1))
	assert.Equal(t, domain.OutcomeWrongState, m.ApplyRule(rule2))
	assert.Equal(t, 0, m.State)
	assert.Equal(t, domain.TapeState{0, 0}, m.Tapes)

	for i := 0; i < 4; i++ {
		assert.True(t, m.ApplyRule(rule0).Fired())
	}
	assert.Equal(t, domain.TapeState{4, 4}, m.Tapes)

	assert.Equal(t, domain.OutcomeFired, m.ApplyRule(rule1))
	assert.Equal(t, 1, m.State)
	assert.Equal(t, domain.TapeState{3, 6}, m.Tapes)

	assert.Equal(t, domain.OutcomeWrongState, m.ApplyRule(rule1))

	assert.Equal(t, domain.OutcomeFired, m.ApplyRule(rule2))
	assert.Equal(t, 1, m.State)
	assert.Equal(t, domain.TapeState{1, 4}, m.Tapes)

	// tape 0 can no longer give 2
	assert.Equal(t, domain.OutcomeGuardUnsatisfied, m.ApplyRule(rule2))
	assert.Equal(t, domain.TapeState{1, 4}, m.Tapes)
}

func TestNewMachine_CopiesTapes(t *testing.T) {
	tapes := []int64{1, 2}
	m := domain.NewMachine(3, tapes...)
	tapes[0] = 99
	assert.Equal(t, int64(1), m.Tape(0))

	c := m.Clone()
	c.Tapes[1] = 7
	assert.Equal(t, int64(2), m.Tape(1))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "fired", domain.OutcomeFired.String())
	assert.Equal(t, "wrong_state", domain.OutcomeWrongState.String())
	assert.Equal(t, "guard_unsatisfied", domain.OutcomeGuardUnsatisfied.String())
	assert.Equal(t, "overflow", domain.OutcomeOverflow.String())
}

func TestMachine_ApplyRule_Overflow(t *testing.T) {
	m := domain.NewMachine(0, math.MaxInt64, 1)

	assert.Equal(t, domain.OutcomeOverflow, m.ApplyRule(domain.NewRule(0, 1, 1, -1)))
	// state and tapes are untouched
	assert.Equal(t, 0, m.State)
	assert.Equal(t, domain.TapeState{math.MaxInt64, 1}, m.Tapes)

	// guards are checked first
	assert.Equal(t, domain.OutcomeGuardUnsatisfied, m.ApplyRule(domain.NewRule(0, 1, 1, -2)))
}
