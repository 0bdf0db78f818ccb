package transpiler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/minsky/pkg/domain"
)

// SingleState is the only control state of a transpiled program.
const SingleState domain.State = 0

const (
	guardAdj  int64 = -1
	actionAdj int64 = 1
)

// ErrNoEmulatedState is returned by Project when no auxiliary tape is set.
var ErrNoEmulatedState = errors.New("no emulated state is active")

// StateMap relabels the states of a program densely, in ascending order.
type StateMap struct {
	original []domain.State
	index    map[domain.State]int
}

// NewStateMap collects every state named by the program's rules, sorts them and numbers
// them from 0. The result does not depend on rule order or map iteration order.
func NewStateMap(p *domain.Program) StateMap {
	seen := make(map[domain.State]struct{})
	p.Each(func(_ int, r domain.Rule) bool {
		seen[r.From] = struct{}{}
		seen[r.To] = struct{}{}
		return true
	})
	original := make([]domain.State, 0, len(seen))
	for s := range seen {
		original = append(original, s)
	}
	sort.Ints(original)

	index := make(map[domain.State]int, len(original))
	for i, s := range original {
		index[s] = i
	}
	return StateMap{original: original, index: index}
}

// Len is the number of distinct states.
func (sm StateMap) Len() int {
	return len(sm.original)
}

// Index returns the dense label of an original state.
func (sm StateMap) Index(s domain.State) (int, bool) {
	i, ok := sm.index[s]
	return i, ok
}

// Original returns the original state behind a dense label.
func (sm StateMap) Original(i int) domain.State {
	return sm.original[i]
}

// States returns the original states in label order.
func (sm StateMap) States() []domain.State {
	return append([]domain.State(nil), sm.original...)
}

// Translation is a transpiled program together with what is needed to map machines
// between the original and the single-state program.
type Translation struct {
	Program       *domain.Program
	States        StateMap
	OriginalTapes int

	// origin[i] is the original rule behind transpiled rule i, or -1 for a restore rule.
	origin []int
}

// Transpile builds the single-state equivalent of a validated program.
// The input program is not modified.
func Transpile(p *domain.Program) *Translation {
	sm := NewStateMap(p)
	n := p.NumTapes()
	width := n + 2*sm.Len()

	rules := make([]domain.Rule, 0, 2*p.NumRules())
	origin := make([]int, 0, 2*p.NumRules())
	p.Each(func(i int, r domain.Rule) bool {
		translated := translateRule(r, sm, n, width)
		rules = append(rules, translated...)
		origin = append(origin, i)
		if len(translated) == 2 {
			origin = append(origin, -1)
		}
		return true
	})

	return &Translation{
		Program:       domain.NewProgram(width, rules...),
		States:        sm,
		OriginalTapes: n,
		origin:        origin,
	}
}

// Origin returns the index of the original rule that transpiled rule i emulates.
// Restore rules emulate nothing and report false.
func (t *Translation) Origin(i int) (int, bool) {
	if i < 0 || i >= len(t.origin) || t.origin[i] < 0 {
		return 0, false
	}
	return t.origin[i], true
}

// Emulates reports whether firing transpiled rule i stands for a firing of the original
// program. Only those firings count as steps of the emulation.
func (t *Translation) Emulates(i int) bool {
	_, ok := t.Origin(i)
	return ok
}

// translateRule produces one rule for a state change and two for a self-loop.
func translateRule(r domain.Rule, sm StateMap, n, width int) []domain.Rule {
	s, ok := sm.Index(r.From)
	if !ok {
		panic(fmt.Sprintf("transpiler: state %d missing from state map", r.From))
	}

	adjust := make([]int64, width)
	copy(adjust[:n], r.Adjust)
	adjust[activeTape(n, s)] = guardAdj

	if r.IsLoop() {
		adjust[relayTape(n, s)] = actionAdj

		restore := make([]int64, width)
		restore[activeTape(n, s)] = actionAdj
		restore[relayTape(n, s)] = guardAdj

		return []domain.Rule{
			domain.NewRule(SingleState, SingleState, adjust...),
			domain.NewRule(SingleState, SingleState, restore...),
		}
	}

	t, ok := sm.Index(r.To)
	if !ok {
		panic(fmt.Sprintf("transpiler: state %d missing from state map", r.To))
	}
	adjust[activeTape(n, t)] = actionAdj
	return []domain.Rule{domain.NewRule(SingleState, SingleState, adjust...)}
}

func activeTape(n, s int) domain.TapeID { return n + 2*s }

func relayTape(n, s int) domain.TapeID { return n + 2*s + 1 }

// ActiveTape is the tape holding the active flag of an original state.
func (t *Translation) ActiveTape(s domain.State) (domain.TapeID, bool) {
	i, ok := t.States.Index(s)
	if !ok {
		return 0, false
	}
	return activeTape(t.OriginalTapes, i), true
}

// RelayTape is the tape holding the relay of an original state.
func (t *Translation) RelayTape(s domain.State) (domain.TapeID, bool) {
	i, ok := t.States.Index(s)
	if !ok {
		return 0, false
	}
	return relayTape(t.OriginalTapes, i), true
}

// Machine translates an initial machine of the original program: the original tapes are
// copied and only the active flag of the machine's state is set. A state that no rule
// mentions gets no flag at all; both programs then halt without firing.
func (t *Translation) Machine(m domain.Machine) domain.Machine {
	tapes := make([]int64, t.Program.NumTapes())
	copy(tapes, m.Tapes)
	if tape, ok := t.ActiveTape(m.State); ok {
		tapes[tape] = 1
	}
	return domain.NewMachine(SingleState, tapes...)
}

// Project maps a machine of the transpiled program back onto the original program: the
// first tapes are kept and the state is read from whichever flag or relay is set.
func (t *Translation) Project(m domain.Machine) (domain.Machine, error) {
	if len(m.Tapes) != t.Program.NumTapes() {
		return domain.Machine{}, fmt.Errorf("machine has %d tapes, translation has %d", len(m.Tapes), t.Program.NumTapes())
	}

	state, found := domain.State(0), false
	for i := 0; i < t.States.Len(); i++ {
		active, relay := m.Tapes[activeTape(t.OriginalTapes, i)], m.Tapes[relayTape(t.OriginalTapes, i)]
		if active+relay == 0 {
			continue
		}
		if found || active+relay != 1 {
			return domain.Machine{}, fmt.Errorf("auxiliary tapes do not encode a single state: %v", []int64(m.Tapes[t.OriginalTapes:]))
		}
		state, found = t.States.Original(i), true
	}
	if !found {
		return domain.Machine{}, ErrNoEmulatedState
	}
	return domain.NewMachine(state, m.Tapes[:t.OriginalTapes]...), nil
}
