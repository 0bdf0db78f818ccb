package domain

import (
	"encoding/json"
	"sort"
)

// Program is an ordered list of rules over NumTapes tapes.
// Rule order is priority: the interpreter always fires the first applicable rule.
type Program struct {
	numTapes int
	rules    []Rule
}

// NewProgram builds a program from the given rules. Rules are deep-copied.
// Width consistency is not checked here; see schema.ValidateProgram.
func NewProgram(numTapes int, rules ...Rule) *Program {
	p := &Program{
		numTapes: numTapes,
		rules:    make([]Rule, len(rules)),
	}
	for i, r := range rules {
		p.rules[i] = r.Clone()
	}
	return p
}

// NumTapes returns the number of tapes declared by the program.
func (p *Program) NumTapes() int {
	return p.numTapes
}

// NumRules returns the number of rules.
func (p *Program) NumRules() int {
	return len(p.rules)
}

// Rule returns a copy of the i-th rule.
func (p *Program) Rule(i int) Rule {
	return p.rules[i].Clone()
}

// Rules returns a copy of the rule list.
func (p *Program) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	for i, r := range p.rules {
		out[i] = r.Clone()
	}
	return out
}

// States returns every state named by a rule (as source or target), sorted ascending.
func (p *Program) States() []State {
	seen := make(map[State]struct{})
	for _, r := range p.rules {
		seen[r.From] = struct{}{}
		seen[r.To] = struct{}{}
	}
	states := make([]State, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	sort.Ints(states)
	return states
}

// Each calls fn for every rule in priority order until fn returns false.
// The rule is shared with the program and must not be modified.
func (p *Program) Each(fn func(i int, r Rule) bool) {
	for i, r := range p.rules {
		if !fn(i, r) {
			return
		}
	}
}

type programJSON struct {
	Tapes int    `json:"tapes"`
	Rules []Rule `json:"rules"`
}

// MarshalJSON encodes the program as {"tapes": N, "rules": [...]}.
func (p *Program) MarshalJSON() ([]byte, error) {
	rules := p.rules
	if rules == nil {
		rules = []Rule{}
	}
	return json.Marshal(programJSON{Tapes: p.numTapes, Rules: rules})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (p *Program) UnmarshalJSON(data []byte) error {
	var raw programJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = *NewProgram(raw.Tapes, raw.Rules...)
	return nil
}
