package domain

// Outcome describes what happened when a rule was offered to a machine.
type Outcome int

const (
	// OutcomeFired means the rule applied: tapes and state were updated.
	OutcomeFired Outcome = iota
	// OutcomeWrongState means the machine was not in the rule's source state.
	OutcomeWrongState
	// OutcomeGuardUnsatisfied means some guarded tape held less than required.
	OutcomeGuardUnsatisfied
	// OutcomeOverflow means the guards held but an action would overflow a tape.
	// Nothing was changed.
	OutcomeOverflow
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFired:
		return "fired"
	case OutcomeWrongState:
		return "wrong_state"
	case OutcomeGuardUnsatisfied:
		return "guard_unsatisfied"
	case OutcomeOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Fired is the boolean view of the outcome.
func (o Outcome) Fired() bool {
	return o == OutcomeFired
}

// Machine is the execution cursor: a control state and its tapes.
type Machine struct {
	State State     `json:"state"`
	Tapes TapeState `json:"tapes"`
}

// NewMachine builds a machine. The tapes are copied.
func NewMachine(state State, tapes ...int64) Machine {
	return Machine{
		State: state,
		Tapes: append(TapeState{}, tapes...),
	}
}

// ApplyRule fires the rule if the machine is in its source state and its guards hold.
// State and tapes change together or not at all.
func (m *Machine) ApplyRule(rule Rule) Outcome {
	if m.State != rule.From {
		return OutcomeWrongState
	}
	if !m.Tapes.CanApply(rule) {
		return OutcomeGuardUnsatisfied
	}
	if _, ok := m.Tapes.Overflows(rule); ok {
		return OutcomeOverflow
	}
	m.Tapes.Apply(rule)
	m.State = rule.To
	return OutcomeFired
}

// Tape returns the value of one tape.
func (m Machine) Tape(id TapeID) int64 {
	return m.Tapes[id]
}

// Clone returns a deep copy of the machine.
func (m Machine) Clone() Machine {
	return Machine{State: m.State, Tapes: m.Tapes.Clone()}
}
