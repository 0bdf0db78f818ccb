package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/minsky/pkg/schema"
)

// Validate checks the program at path and writes a summary or one line per problem.
// It returns a non-nil error when the program is invalid.
func Validate(path string, w io.Writer) error {
	engine := createEngine(createLogger(false), false, false, 0, nil)

	program, err := engine.ParseFile(path)
	if err == nil {
		err = engine.Validate(program)
	}
	if err != nil {
		problems := schema.StructuralErrors(err)
		for _, p := range problems {
			fmt.Fprintf(w, "  - %v\n", p)
		}
		if len(problems) > 0 {
			return fmt.Errorf("found %d structural problems", len(problems))
		}
		return err
	}

	fmt.Fprintf(w, "Program is valid: %d tapes, %d rules, %d states\n",
		program.NumTapes(), program.NumRules(), len(program.States()))
	return nil
}
