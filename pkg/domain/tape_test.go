package domain_test

import (
	"math"
	"testing"

	"github.com/aretw0/minsky/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestTapeState_CanApply(t *testing.T) {
	tapes := domain.TapeState{2, 2}

	tests := []struct {
		name   string
		adjust []int64
		want   bool
	}{
		{"guard below value", []int64{0, -1}, true},
		{"action only", []int64{0, 5}, true},
		{"action on first tape", []int64{2, 0}, true},
		{"actions everywhere", []int64{3, 3}, true},
		{"guard equal to value", []int64{-2, -2}, true},
		{"guard above value", []int64{-7, 0}, false},
		{"one of two guards fails", []int64{-1, -3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := domain.NewRule(0, 0, tt.adjust...)
			assert.Equal(t, tt.want, tapes.CanApply(rule))
		})
	}
}

func TestTapeState_CanApply_WidthMismatchPanics(t *testing.T) {
	tapes := domain.TapeState{2, 2}
	wide := domain.NewRule(0, 0, 0, 1, 2)
	assert.Panics(t, func() { tapes.CanApply(wide) })
}

func TestTapeState_Apply(t *testing.T) {
	tapes := domain.TapeState{2, 2}

	tapes.Apply(domain.NewRule(0, 0, -1, -1))
	assert.Equal(t, domain.TapeState{1, 1}, tapes)

	tapes.Apply(domain.NewRule(0, 0, 1, 9))
	assert.Equal(t, domain.TapeState{2, 10}, tapes)
}

func TestTapeState_Apply_NegativeResultPanics(t *testing.T) {
	tapes := domain.TapeState{0, 3}
	assert.Panics(t, func() { tapes.Apply(domain.NewRule(0, 0, -1, 0)) })
	// nothing is written when the assertion trips
	assert.Equal(t, domain.TapeState{0, 3}, tapes)
}

func TestTapeState_Overflows(t *testing.T) {
	tapes := domain.TapeState{math.MaxInt64 - 1, 5}

	tests := []struct {
		name     string
		adjust   []int64
		wantTape domain.TapeID
		want     bool
	}{
		{"fits exactly", []int64{1, 0}, 0, false},
		{"one past the limit", []int64{2, 0}, 0, true},
		{"guards never overflow", []int64{-1, -5}, 0, false},
		{"second tape", []int64{0, math.MaxInt64}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tape, ok := tapes.Overflows(domain.NewRule(0, 0, tt.adjust...))
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.wantTape, tape)
			}
		})
	}
}

func TestTapeState_Valid(t *testing.T) {
	assert.True(t, domain.TapeState{0, 4}.Valid())
	assert.True(t, domain.TapeState{}.Valid())
	assert.False(t, domain.TapeState{1, -1}.Valid())
}
