package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/minsky/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram_IsImmutable(t *testing.T) {
	adjust := []int64{1, -1}
	rule := domain.NewRule(0, 0, adjust...)
	adjust[0] = 42

	p := domain.NewProgram(2, rule)
	rule.Adjust[1] = 42

	got := p.Rule(0)
	assert.Equal(t, []int64{1, -1}, got.Adjust)

	got.Adjust[0] = 7
	rules := p.Rules()
	rules[0].Adjust[1] = 7
	assert.Equal(t, []int64{1, -1}, p.Rule(0).Adjust)
}

func TestProgram_States(t *testing.T) {
	p := domain.NewProgram(1,
		domain.NewRule(7, 3, 0),
		domain.NewRule(3, 3, 0),
		domain.NewRule(3, 10, 0),
	)
	assert.Equal(t, []domain.State{3, 7, 10}, p.States())
	assert.Empty(t, domain.NewProgram(1).States())
}

func TestProgram_Each_StopsEarly(t *testing.T) {
	p := domain.NewProgram(1,
		domain.NewRule(0, 0, 1),
		domain.NewRule(0, 1, 0),
		domain.NewRule(1, 1, 0),
	)
	var visited []int
	p.Each(func(i int, r domain.Rule) bool {
		visited = append(visited, i)
		return i < 1
	})
	assert.Equal(t, []int{0, 1}, visited)
}

func TestProgram_JSON(t *testing.T) {
	p := domain.NewProgram(2, domain.NewRule(0, 1, 1, -1))

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tapes":2,"rules":[{"from":0,"to":1,"adjust":[1,-1]}]}`, string(data))

	var back domain.Program
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2, back.NumTapes())
	assert.Equal(t, p.Rules(), back.Rules())
}

func TestOutOfFuelError(t *testing.T) {
	var err error = &domain.OutOfFuelError{Fuel: 10, Steps: 10}
	assert.True(t, errors.Is(err, domain.ErrOutOfFuel))
	assert.Contains(t, err.Error(), "10 steps")
}
