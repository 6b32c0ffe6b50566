package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"trade-checker-go/internal/models"
)

// ErrParse is returned when a textual parameter vector cannot be read.
var ErrParse = errors.New("schema: invalid parameter vector")

// Parse reads a parameter vector written either as fifteen compact symbols
// ("yynn-ynyy..." with y/n/t/f/1/0 and -, ?, _ for unset; spaces, commas and
// pipes are ignored) or as assignments ("p1=yes,p2=no,..."). Parameters left
// out of an assignment list stay unset.
func Parse(text string) (models.Parameters, error) {
	text = strings.TrimSpace(text)
	if strings.Contains(text, "=") {
		return parseAssignments(text)
	}

	var p models.Parameters
	n := 0
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) || r == ',' || r == '|' {
			continue
		}
		if n >= models.ParameterCount {
			return models.Parameters{}, fmt.Errorf("%w: more than %d values", ErrParse, models.ParameterCount)
		}
		v, ok := symbolValue(r)
		if !ok {
			return models.Parameters{}, fmt.Errorf("%w: unknown symbol %q at position %d", ErrParse, r, n+1)
		}
		p[n] = v
		n++
	}
	if n != models.ParameterCount {
		return models.Parameters{}, fmt.Errorf("%w: got %d values, want %d", ErrParse, n, models.ParameterCount)
	}
	return p, nil
}

// Format writes the compact form accepted by Parse.
func Format(p models.Parameters) string {
	var sb strings.Builder
	for i, v := range p {
		if i > 0 && i%3 == 0 {
			sb.WriteByte(' ')
		}
		switch v {
		case models.Yes:
			sb.WriteByte('y')
		case models.No:
			sb.WriteByte('n')
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func parseAssignments(text string) (models.Parameters, error) {
	var p models.Parameters
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
	for _, f := range fields {
		key, raw, ok := strings.Cut(f, "=")
		if !ok {
			return models.Parameters{}, fmt.Errorf("%w: %q is not an assignment", ErrParse, f)
		}
		v, ok := wordValue(strings.ToLower(strings.TrimSpace(raw)))
		if !ok {
			return models.Parameters{}, fmt.Errorf("%w: unknown value %q for %s", ErrParse, raw, key)
		}
		if err := p.Set(strings.ToLower(strings.TrimSpace(key)), v); err != nil {
			return models.Parameters{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	return p, nil
}

func symbolValue(r rune) (models.TriState, bool) {
	switch r {
	case 'y', 't', '1':
		return models.Yes, true
	case 'n', 'f', '0':
		return models.No, true
	case '-', '?', '_':
		return models.Unset, true
	}
	return models.Unset, false
}

func wordValue(s string) (models.TriState, bool) {
	switch s {
	case "y", "yes", "t", "true", "1":
		return models.Yes, true
	case "n", "no", "f", "false", "0":
		return models.No, true
	case "", "-", "?", "unset", "null":
		return models.Unset, true
	}
	return models.Unset, false
}
