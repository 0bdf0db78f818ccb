package compiler

import (
	"fmt"

	"github.com/aretw0/minsky/internal/dto"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ParseYAML reads the YAML format:
//
//	tapes: 2
//	rules:
//	  - {from: 0, adjust: [1, -1], to: 0}
//
// cur_state and next_state are accepted as aliases of from and to.
func (p *Parser) ParseYAML(data []byte) (*RawProgram, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("invalid yaml: %v", err)}
	}
	if len(root.Content) == 0 {
		return nil, &ParseError{Msg: "empty program"}
	}

	var generic map[string]any
	if err := root.Decode(&generic); err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("program must be a mapping: %v", err)}
	}
	if _, ok := generic["tapes"]; !ok {
		return nil, &ParseError{Msg: "missing tapes"}
	}

	meta, err := DecodeMetadata(generic)
	if err != nil {
		return nil, err
	}

	lines := ruleLines(root.Content[0])
	raw := &RawProgram{Name: meta.Name, NumTapes: meta.Tapes}
	for i, r := range meta.Rules {
		line := 0
		if i < len(lines) {
			line = lines[i]
		}
		from, ok := r.Source()
		if !ok {
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("rule %d has no source state", i)}
		}
		to, ok := r.Target()
		if !ok {
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("rule %d has no target state", i)}
		}
		raw.Rules = append(raw.Rules, RawRule{From: from, To: to, Adjust: r.Adjust, Line: line})
	}
	return raw, nil
}

// DecodeMetadata maps a generic document (YAML or JSON decoded into a map) onto the
// program metadata. Unknown keys and fractional numbers are rejected.
func DecodeMetadata(generic map[string]any) (*dto.ProgramMetadata, error) {
	var meta dto.ProgramMetadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &meta,
		ErrorUnused: true,
		DecodeHook:  dto.IntegerHook(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(generic); err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("invalid program: %v", err)}
	}
	if meta.Tapes < 0 {
		return nil, &ParseError{Msg: fmt.Sprintf("invalid tape count %d", meta.Tapes)}
	}
	return &meta, nil
}

// ruleLines returns the source line of every item of the top-level "rules" sequence.
func ruleLines(doc *yaml.Node) []int {
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "rules" {
			continue
		}
		seq := doc.Content[i+1]
		lines := make([]int, len(seq.Content))
		for j, item := range seq.Content {
			lines[j] = item.Line
		}
		return lines
	}
	return nil
}
