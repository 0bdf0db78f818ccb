package compiler

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parser converts program source into a RawProgram.
//
// The text format is a header followed by one rule per line:
//
//	# adds tape 1 into tape 0
//	tapes: 2
//	0 [1, -1] 0
//
// Adjustments may be separated by commas, whitespace or both. Everything after '#' or
// "//" is a comment.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the text format.
func (p *Parser) Parse(data []byte) (*RawProgram, error) {
	raw := &RawProgram{NumTapes: -1}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}

		if rest, ok := cutKeyword(line, "tapes"); ok {
			if raw.NumTapes >= 0 {
				return nil, &ParseError{Line: lineNo, Msg: "duplicate tapes header"}
			}
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid tape count %q", rest)}
			}
			raw.NumTapes = n
			continue
		}

		if raw.NumTapes < 0 {
			return nil, &ParseError{Line: lineNo, Msg: "rule before the tapes header"}
		}
		rule, err := parseRule(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		rule.Line = lineNo
		raw.Rules = append(raw.Rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	if raw.NumTapes < 0 {
		return nil, &ParseError{Msg: "missing tapes header"}
	}
	return raw, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return line
}

// cutKeyword matches "tapes: N" (the colon is optional).
func cutKeyword(line, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(line, keyword)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	return rest, true
}

// parseRule reads "from [a1, ..., aN] to".
func parseRule(line string) (RawRule, error) {
	open := strings.IndexByte(line, '[')
	closing := strings.LastIndexByte(line, ']')
	if open < 0 || closing < open {
		return RawRule{}, fmt.Errorf("expected 'state [adjustments] state', got %q", line)
	}

	from, err := parseState(line[:open])
	if err != nil {
		return RawRule{}, fmt.Errorf("source state: %w", err)
	}
	to, err := parseState(line[closing+1:])
	if err != nil {
		return RawRule{}, fmt.Errorf("target state: %w", err)
	}

	fields := strings.FieldsFunc(line[open+1:closing], func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	adjust := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return RawRule{}, fmt.Errorf("invalid adjustment %q", f)
		}
		adjust = append(adjust, v)
	}

	return RawRule{From: from, To: to, Adjust: adjust}, nil
}

func parseState(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid state %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative state %d", n)
	}
	return n, nil
}
