package dto

// ProgramMetadata is the loader-facing shape of a program file (YAML, or any map decoded
// from one). It uses "mapstructure" tags so both the short keys (from, to) and the long
// ones (cur_state, next_state) are accepted.
type ProgramMetadata struct {
	Tapes int          `json:"tapes" mapstructure:"tapes"`
	Name  string       `json:"name,omitempty" mapstructure:"name"`
	Rules []LoaderRule `json:"rules" mapstructure:"rules"`
}

type LoaderRule struct {
	From      *int    `json:"from,omitempty" mapstructure:"from"`
	CurState  *int    `json:"cur_state,omitempty" mapstructure:"cur_state"`
	To        *int    `json:"to,omitempty" mapstructure:"to"`
	NextState *int    `json:"next_state,omitempty" mapstructure:"next_state"`
	Adjust    []int64 `json:"adjust" mapstructure:"adjust"`
}

// Source returns the state the rule fires in, preferring the short key.
func (r LoaderRule) Source() (int, bool) {
	return pick(r.From, r.CurState)
}

// Target returns the state the rule moves to, preferring the short key.
func (r LoaderRule) Target() (int, bool) {
	return pick(r.To, r.NextState)
}

func pick(short, long *int) (int, bool) {
	switch {
	case short != nil:
		return *short, true
	case long != nil:
		return *long, true
	default:
		return 0, false
	}
}
