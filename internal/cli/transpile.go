package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/minsky/internal/compiler"
)

// Transpile writes the single-state equivalent of the program at path in text format.
// The output goes to the file named by output, or to w when output is empty.
func Transpile(path, output string, debug bool, w io.Writer) error {
	engine := createEngine(createLogger(debug), debug, false, 0, nil)

	program, err := engine.ParseFile(path)
	if err != nil {
		return err
	}
	t, err := engine.Transpile(program)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# transpiled from %d tapes, %d rules\n", t.OriginalTapes, program.NumRules())
	states := make([]string, 0, t.States.Len())
	for i, s := range t.States.States() {
		states = append(states, fmt.Sprintf("%d=%d", s, i))
	}
	fmt.Fprintf(&sb, "# states: %s\n", strings.Join(states, " "))
	sb.WriteString(compiler.Print(t.Program))

	if output == "" {
		_, err := io.WriteString(w, sb.String())
		return err
	}
	if err := os.WriteFile(output, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	printSystemMessage(w, "Wrote %d rules over %d tapes to %s", t.Program.NumRules(), t.Program.NumTapes(), output)
	return nil
}
