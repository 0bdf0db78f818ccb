package domain

// State identifies a control state of a machine.
type State = int

// TapeID indexes a tape (counter) of a machine.
type TapeID = int

// Rule is a guarded transition from one control state to another.
type Rule struct {
	// From is the state the rule fires in.
	From State `json:"from" yaml:"from"`
	// To is the state the machine moves to after the rule fires.
	To State `json:"to" yaml:"to"`
	// Adjust holds one entry per tape. Negative entries are guards, the rest are actions.
	Adjust []int64 `json:"adjust" yaml:"adjust"`
}

// NewRule builds a rule. The adjustment slice is copied.
func NewRule(from, to State, adjust ...int64) Rule {
	return Rule{
		From:   from,
		To:     to,
		Adjust: append([]int64(nil), adjust...),
	}
}

// Width is the number of tapes the rule addresses.
func (r Rule) Width() int {
	return len(r.Adjust)
}

// IsLoop reports whether the rule leaves the control state unchanged.
func (r Rule) IsLoop() bool {
	return r.From == r.To
}

// Guard returns the amount the rule requires (and consumes) on the tape, or 0.
func (r Rule) Guard(id TapeID) int64 {
	if a := r.Adjust[id]; a < 0 {
		return -a
	}
	return 0
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	return NewRule(r.From, r.To, r.Adjust...)
}
