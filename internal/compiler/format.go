package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/minsky/pkg/domain"
)

// Format identifies a program source format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the format from a file name: .yaml and .yml are YAML, anything else
// is the text format.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// ParseFormat parses source in the given format.
func (p *Parser) ParseFormat(data []byte, format Format) (*RawProgram, error) {
	switch format {
	case FormatYAML:
		return p.ParseYAML(data)
	case FormatText, "":
		return p.Parse(data)
	default:
		return nil, &ParseError{Msg: fmt.Sprintf("unknown program format %q", format)}
	}
}

// Load parses and compiles source in one go.
func Load(data []byte, format Format) (*domain.Program, error) {
	raw, err := NewParser().ParseFormat(data, format)
	if err != nil {
		return nil, err
	}
	return Compile(raw)
}

// Print renders a program in the text format. Parsing the output yields the same program.
func Print(p *domain.Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tapes: %d\n", p.NumTapes())
	p.Each(func(_ int, r domain.Rule) bool {
		sb.WriteString(FormatRule(r))
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}

// FormatRule renders one rule as "from [a1, ..., aN] to".
func FormatRule(r domain.Rule) string {
	return fmt.Sprintf("%d %s %d", r.From, FormatAdjust(r.Adjust), r.To)
}

// FormatAdjust renders an adjustment vector as "[a1, ..., aN]".
func FormatAdjust(adjust []int64) string {
	parts := make([]string, len(adjust))
	for i, a := range adjust {
		parts[i] = fmt.Sprint(a)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
