package sql

import (
	"fmt"
	"strings"
)

// tokens normalizes the arguments of a clause call into an ordered list of
// trimmed tokens. An argument may be a string holding one or more
// comma-separated tokens, a []string, a []any of those, or a Raw fragment,
// which is kept whole.
func tokens(args []any) ([]any, error) {
	var out []any
	for _, a := range args {
		switch a := a.(type) {
		case string:
			for _, t := range splitComma(a) {
				out = append(out, t)
			}
		case []string:
			for _, s := range a {
				for _, t := range splitComma(s) {
					out = append(out, t)
				}
			}
		case []any:
			ts, err := tokens(a)
			if err != nil {
				return nil, err
			}
			out = append(out, ts...)
		case Raw:
			out = append(out, a)
		default:
			return nil, fmt.Errorf("unexpected clause argument of type %T", a)
		}
	}
	return out, nil
}

// stringTokens is like tokens but rejects Raw fragments.
func stringTokens(args []any) ([]string, error) {
	ts, err := tokens(args)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		s, ok := t.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected raw fragment %q", t)
		}
		out = append(out, s)
	}
	return out, nil
}

// splitComma splits s on the commas that are not nested in parentheses or
// quotes, trimming each part and dropping empty ones.
func splitComma(s string) []string {
	var (
		out   []string
		depth int
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			out = appendToken(out, s[start:i])
			start = i + 1
		}
	}
	return appendToken(out, s[start:])
}

func appendToken(out []string, t string) []string {
	if t = strings.TrimSpace(t); t != "" {
		out = append(out, t)
	}
	return out
}

// writeColumns writes a list of select, group or order tokens.
func writeColumns(b *Builder, cols []any) {
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		switch c := c.(type) {
		case Raw:
			b.WriteString(string(c))
		case string:
			b.WriteString(quoteColumnExpr(c))
		}
	}
}

// cloneTokens copies a token list.
func cloneTokens[T any](ts []T) []T {
	if ts == nil {
		return nil
	}
	return append(make([]T, 0, len(ts)), ts...)
}
