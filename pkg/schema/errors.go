package schema

import (
	"errors"
	"fmt"
)

// NoRule marks a StructuralError that is not tied to a single rule.
const NoRule = -1

// StructuralError reports a program (or machine) that is malformed.
type StructuralError struct {
	RuleIndex int    // Index of the offending rule, or NoRule
	Line      int    // Source line, when the program came from text (0 if unknown)
	Expected  int    // Expected width (tape count)
	Actual    int    // Actual width
	Reason    string // Human-readable reason for failure
}

func (e *StructuralError) Error() string {
	where := "program"
	if e.RuleIndex != NoRule {
		where = fmt.Sprintf("rule %d", e.RuleIndex)
	}
	if e.Line > 0 {
		where = fmt.Sprintf("%s (line %d)", where, e.Line)
	}
	return fmt.Sprintf("%s: %s", where, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// StructuralErrors returns every StructuralError carried by err.
func StructuralErrors(err error) []*StructuralError {
	var out []*StructuralError
	for _, e := range ValidationErrors(err) {
		var se *StructuralError
		if errors.As(e, &se) {
			out = append(out, se)
		}
	}
	if out == nil {
		var se *StructuralError
		if errors.As(err, &se) {
			out = append(out, se)
		}
	}
	return out
}
