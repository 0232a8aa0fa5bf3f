package suggest

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var ErrUnparseable = errors.New("unparseable suggestion")

// ParseError explains why model output could not be turned into a
// Suggestion. It matches ErrUnparseable with errors.Is.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "unparseable suggestion: " + e.Reason + ": " + e.Err.Error()
	}
	return "unparseable suggestion: " + e.Reason
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnparseable, e.Err}
	}
	return []error{ErrUnparseable}
}

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
)

// Parse extracts a suggestion from free-form model output. It returns a
// complete Suggestion with Source set to SourceAI, or a *ParseError.
func Parse(text string) (Suggestion, error) {
	candidate := text
	if block, ok := fencedBlock(text); ok {
		candidate = block
	}
	candidate = quoteReplacer.Replace(candidate)

	span, ok := balancedSpan(candidate)
	if !ok {
		return Suggestion{}, &ParseError{Reason: "no JSON object or array found"}
	}
	span = stripTrailingCommas(span)

	var raw any
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return Suggestion{}, &ParseError{Reason: "invalid JSON", Err: err}
	}

	var s Suggestion
	var levels []any
	switch v := raw.(type) {
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			s.Name = strings.TrimSpace(name)
		}
		list, ok := v["levels"].([]any)
		if !ok {
			return Suggestion{}, &ParseError{Reason: `missing "levels" array`}
		}
		levels = list
	case []any:
		levels = v
	default:
		return Suggestion{}, &ParseError{Reason: "expected an object or array"}
	}

	s.Levels = coerceLevels(levels)
	if len(s.Levels) == 0 {
		return Suggestion{}, &ParseError{Reason: "no usable levels"}
	}
	s.Source = SourceAI
	return s, nil
}

// fencedBlock returns the body of the first ``` fence, dropping an
// optional language tag on the opening line.
func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	body := rest[:end]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	return body, true
}

// balancedSpan returns the first balanced {...} or [...] span, ignoring
// brackets inside string literals.
func balancedSpan(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// stripTrailingCommas drops commas that directly precede } or ] outside
// string literals.
func stripTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
		}
		if c == ',' {
			j := i + 1
			for j < len(text) && strings.IndexByte(" \t\r\n", text[j]) >= 0 {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func coerceLevels(values []any) []string {
	levels := make([]string, 0, MaxLevels)
	for _, v := range values {
		var level string
		switch x := v.(type) {
		case string:
			level = x
		case float64:
			level = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			level = strconv.FormatBool(x)
		default:
			continue
		}
		level = strings.TrimSpace(level)
		if level == "" {
			continue
		}
		levels = append(levels, level)
		if len(levels) == MaxLevels {
			break
		}
	}
	return levels
}
