package domain

import "context"

// StepEvent is emitted each time a rule fires.
type StepEvent struct {
	Step      int   `json:"step"`
	RuleIndex int   `json:"rule_index"`
	From      State `json:"from"`
	To        State `json:"to"`
}

// RunEvent is emitted when a run ends, either halting or running out of fuel.
type RunEvent struct {
	Steps   int     `json:"steps"`
	Fuel    int     `json:"fuel"`
	Machine Machine `json:"machine"`
}

// LifecycleHooks defines callbacks for interpreter observability.
type LifecycleHooks struct {
	OnRuleFired func(context.Context, *StepEvent)
	OnHalt      func(context.Context, *RunEvent)
	OnOutOfFuel func(context.Context, *RunEvent)
}
