package sql

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Pair is a single column/value entry of a Pairs mapping.
type Pair struct {
	Column string
	Value  any
}

// Pairs is an ordered column to value mapping. Where criteria is expected it
// means an AND of one equality per entry, in order; in INSERT and UPDATE it
// lists the assigned columns.
type Pairs []Pair

// P builds Pairs from alternating column/value arguments:
//
//	sql.P("first_name", "Fred", "last_name", "Flintstone")
//
// It panics if a column is not a string or the argument count is odd.
func P(kv ...any) Pairs {
	if len(kv)%2 != 0 {
		panic("sql: P called with an odd number of arguments")
	}
	ps := make(Pairs, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		c, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("sql: P column %d is %T, not string", i/2, kv[i]))
		}
		ps = append(ps, Pair{Column: c, Value: kv[i+1]})
	}
	return ps
}

// Columns returns the column names in order.
func (ps Pairs) Columns() []string {
	cs := make([]string, len(ps))
	for i := range ps {
		cs[i] = ps[i].Column
	}
	return cs
}

// Get returns the value of column c.
func (ps Pairs) Get(c string) (any, bool) {
	for _, p := range ps {
		if p.Column == c {
			return p.Value, true
		}
	}
	return nil, false
}

// set assigns v to column c, in place if c is already present.
func (ps Pairs) set(c string, v any) Pairs {
	for i := range ps {
		if ps[i].Column == c {
			ps[i].Value = v
			return ps
		}
	}
	return append(ps, Pair{Column: c, Value: v})
}

// clone returns a copy of ps whose subquery values are cloned as well.
func (ps Pairs) clone() Pairs {
	if ps == nil {
		return nil
	}
	c := make(Pairs, len(ps))
	for i, p := range ps {
		c[i] = Pair{Column: p.Column, Value: cloneValue(p.Value)}
	}
	return c
}

// UnmarshalYAML decodes a YAML mapping keeping the document order.
func (ps *Pairs) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("sql: line %d: expected a mapping, got %s", n.Line, kindName(n.Kind))
	}
	out := make(Pairs, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var v any
		if err := n.Content[i+1].Decode(&v); err != nil {
			return err
		}
		out = append(out, Pair{Column: n.Content[i].Value, Value: v})
	}
	*ps = out
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

// toPairs converts a mapping argument to Pairs. Go maps have no order, so
// their keys are sorted.
func toPairs(v any) (Pairs, bool) {
	switch v := v.(type) {
	case Pairs:
		return v, true
	case []Pair:
		return Pairs(v), true
	case map[string]any:
		ps := make(Pairs, 0, len(v))
		for c, x := range v {
			ps = append(ps, Pair{Column: c, Value: x})
		}
		sort.Slice(ps, func(i, j int) bool { return ps[i].Column < ps[j].Column })
		return ps, true
	case map[string]string:
		ps := make(Pairs, 0, len(v))
		for c, x := range v {
			ps = append(ps, Pair{Column: c, Value: x})
		}
		sort.Slice(ps, func(i, j int) bool { return ps[i].Column < ps[j].Column })
		return ps, true
	}
	return nil, false
}

// ToCriteria converts a criteria argument to a Criteria node. It is the single
// place where mappings are lowered: Pairs and maps become an AND of equalities
// in order. With on set, mapping values are column references rather than
// values. Any other shape yields a node that fails at render time.
func ToCriteria(v any, on bool) Criteria {
	switch v := v.(type) {
	case Criteria:
		return v
	case nil:
		return errCriteria{v: v}
	}
	ps, ok := toPairs(v)
	if !ok {
		return errCriteria{v: v}
	}
	cs := make([]Criteria, 0, len(ps))
	for _, p := range ps {
		val := p.Value
		if s, ok := val.(string); ok && on {
			val = Ident(s)
		}
		cs = append(cs, EQ(p.Column, val))
	}
	if len(cs) == 1 {
		return cs[0]
	}
	return &Junction{Op: OpAnd, Children: cs}
}
