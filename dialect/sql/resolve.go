package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/bricks"
)

// JoinKind is the keyword of a join.
type JoinKind string

// Join kinds.
const (
	InnerJoin JoinKind = "INNER JOIN"
	LeftJoin  JoinKind = "LEFT JOIN"
	RightJoin JoinKind = "RIGHT JOIN"
	FullJoin  JoinKind = "FULL JOIN"
	CrossJoin JoinKind = "CROSS JOIN"
)

// ViewRef marks a FROM/JOIN token that must name a defined view:
// "name" or "name alias". Plain string tokens naming a view are expanded
// too, but fall back to a table when no view matches.
type ViewRef string

// maxViewDepth bounds view nesting, which also catches self-referencing views.
const maxViewDepth = 16

// tableItem is an unresolved FROM or JOIN table token.
type tableItem struct {
	token string
	view  bool // token came from a ViewRef
}

// joinItem is an unresolved join.
type joinItem struct {
	tableItem
	kind JoinKind
	on   []Criteria
	call int // sequence number of the Join call that added the item
}

// source holds the FROM, JOIN and WHERE chain shared by selectors and views.
type source struct {
	from  []tableItem
	joins []*joinItem
	where []Criteria
	calls int
	errs  []error
}

// tableItems converts From/Join arguments to table items, returning the
// criteria arguments separately.
func tableItems(args []any) ([]tableItem, []any, error) {
	var (
		items []tableItem
		crit  []any
	)
	for _, a := range args {
		switch a := a.(type) {
		case ViewRef:
			items = append(items, tableItem{token: strings.TrimSpace(string(a)), view: true})
		case string, []string, []any:
			ts, err := stringTokens([]any{a})
			if err != nil {
				return nil, nil, err
			}
			for _, t := range ts {
				items = append(items, tableItem{token: t})
			}
		default:
			crit = append(crit, a)
		}
	}
	return items, crit, nil
}

// addFrom appends FROM tables.
func (s *source) addFrom(args []any) {
	items, crit, err := tableItems(args)
	switch {
	case err != nil:
		s.errs = append(s.errs, bricks.NewStatementError("from", "%v", err))
	case len(crit) > 0:
		s.errs = append(s.errs, bricks.NewStatementError("from", "unexpected argument of type %T", crit[0]))
	}
	s.from = append(s.from, items...)
	s.calls++
}

// addJoin appends one join per table named in args. All of them share the
// same left-hand table. Criteria arguments become the ON condition of the
// last table of the call.
func (s *source) addJoin(kind JoinKind, args []any) {
	items, crit, err := tableItems(args)
	if err != nil {
		s.errs = append(s.errs, bricks.NewStatementError("join", "%v", err))
		return
	}
	s.calls++
	for _, it := range items {
		s.joins = append(s.joins, &joinItem{tableItem: it, kind: kind, call: s.calls})
	}
	if len(crit) > 0 {
		s.addOn(crit)
	}
}

// addOn ANDs criteria to the ON condition of the last join. Two string
// arguments mean an equality between two columns.
func (s *source) addOn(args []any) {
	if len(s.joins) == 0 {
		s.errs = append(s.errs, bricks.NewStatementError("on", "ON without a preceding JOIN"))
		return
	}
	j := s.joins[len(s.joins)-1]
	if len(args) == 2 {
		l, lok := args[0].(string)
		r, rok := args[1].(string)
		if lok && rok {
			j.on = append(j.on, EQ(l, Ident(r)))
			return
		}
	}
	for _, a := range args {
		j.on = append(j.on, ToCriteria(a, true))
	}
}

// addWhere ANDs criteria to the WHERE chain. A column and a value mean an
// equality.
func (s *source) addWhere(args []any) {
	s.where = appendCriteria(s.where, args)
}

func appendCriteria(cs []Criteria, args []any) []Criteria {
	if len(args) == 2 {
		if col, ok := args[0].(string); ok {
			return append(cs, EQ(col, args[1]))
		}
	}
	for _, a := range args {
		cs = append(cs, ToCriteria(a, false))
	}
	return cs
}

// clone returns a deep copy of the source.
func (s *source) clone() source {
	c := source{
		from:  cloneTokens(s.from),
		where: cloneCriteria(s.where),
		calls: s.calls,
		errs:  cloneTokens(s.errs),
	}
	if s.joins != nil {
		c.joins = make([]*joinItem, len(s.joins))
		for i, j := range s.joins {
			c.joins[i] = &joinItem{tableItem: j.tableItem, kind: j.kind, on: cloneCriteria(j.on), call: j.call}
		}
	}
	return c
}

func cloneCriteria(cs []Criteria) []Criteria {
	if cs == nil {
		return nil
	}
	out := make([]Criteria, len(cs))
	for i, c := range cs {
		out[i] = c.rewrite(nil)
	}
	return out
}

// resolvedJoin is a join with its table expanded and its ON condition known.
type resolvedJoin struct {
	kind  JoinKind
	table TableRef
	on    Criteria
}

// frame is a resolved source: concrete tables, joins and the WHERE
// fragments contributed by views.
type frame struct {
	from  []TableRef
	joins []resolvedJoin
	where []Criteria
}

// resolve expands abbreviations and views of s and infers missing join
// criteria.
func (e *Env) resolve(s *source, depth int) (*frame, error) {
	f := &frame{}
	var prev TableRef
	for _, it := range s.from {
		v, alias, err := e.viewOf(it)
		if err != nil {
			return nil, err
		}
		if v == nil {
			prev = e.abbrevs.Expand(it.token)
			f.from = append(f.from, prev)
			continue
		}
		x, err := e.expand(v, alias, depth)
		if err != nil {
			return nil, err
		}
		f.from = append(f.from, x.from[0])
		f.joins = append(f.joins, x.joins...)
		f.where = append(f.where, x.where...)
		prev = x.from[0]
	}
	left := prev
	for i, it := range s.joins {
		if i == 0 || it.call != s.joins[i-1].call {
			left = prev
		}
		v, alias, err := e.viewOf(it.tableItem)
		if err != nil {
			return nil, err
		}
		var x *frame
		if v == nil {
			x = &frame{from: []TableRef{e.abbrevs.Expand(it.token)}}
		} else if x, err = e.expand(v, alias, depth); err != nil {
			return nil, err
		}
		right := x.from[0]
		on := conjoin(it.on...)
		if on == nil && it.kind != CrossJoin {
			if left.Alias == "" {
				return nil, newJoinError(left, right, "no table to join with")
			}
			if on, err = e.inferJoin(left, right); err != nil {
				return nil, err
			}
		}
		f.joins = append(f.joins, resolvedJoin{kind: it.kind, table: right, on: on})
		f.joins = append(f.joins, x.joins...)
		f.where = append(f.where, x.where...)
		prev = right
	}
	return f, nil
}

// viewOf returns the view a table item refers to, with the alias to
// instantiate it under. It returns a nil view for plain tables.
func (e *Env) viewOf(it tableItem) (*View, string, error) {
	name, alias := splitToken(it.token)
	v := e.lookupView(name)
	switch {
	case v == nil && it.view:
		return nil, "", bricks.NewUnknownViewError(name)
	case v == nil:
		return nil, "", nil
	case alias == "":
		alias = name
	}
	return v, alias, nil
}

// expand instantiates v under alias. The view is resolved in its own frame,
// then its base alias is renamed to alias and every alias introduced inside
// the view is prefixed with alias and an underscore.
func (e *Env) expand(v *View, alias string, depth int) (*frame, error) {
	if depth >= maxViewDepth {
		return nil, fmt.Errorf("bricks: view %q: nesting deeper than %d", v.name, maxViewDepth)
	}
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("view %q: %w", v.name, err)
	}
	inner, err := e.resolve(&v.source, depth+1)
	if err != nil {
		return nil, fmt.Errorf("view %q: %w", v.name, err)
	}
	names := map[string]string{inner.from[0].Alias: alias}
	for _, j := range inner.joins {
		names[j.table.Alias] = alias + "_" + j.table.Alias
	}
	rename := func(q string) string {
		if r, ok := names[q]; ok {
			return r
		}
		return q
	}
	out := &frame{from: []TableRef{{Name: inner.from[0].Name, Alias: alias}}}
	for _, j := range inner.joins {
		rj := resolvedJoin{kind: j.kind, table: TableRef{Name: j.table.Name, Alias: rename(j.table.Alias)}}
		if j.on != nil {
			rj.on = j.on.rewrite(rename)
		}
		out.joins = append(out.joins, rj)
	}
	for _, w := range append(inner.where, v.where...) {
		out.where = append(out.where, w.rewrite(rename))
	}
	e.logger.Debug("expanded view", "view", v.name, "alias", alias, "joins", len(out.joins))
	return out, nil
}

// render writes the FROM list and the joins of a resolved frame.
func (f *frame) render(b *Builder) {
	if len(f.from) > 0 {
		b.WriteString(" FROM ")
		for i, t := range f.from {
			if i > 0 {
				b.WriteString(", ")
			}
			b.Table(t)
		}
	}
	for _, j := range f.joins {
		b.Pad().WriteString(string(j.kind)).Pad().Table(j.table)
		if j.on != nil {
			b.WriteString(" ON ")
			j.on.render(b, "")
		}
	}
}

func newJoinError(left, right TableRef, reason string) error {
	return bricks.NewJoinError(left.Alias, right.Alias, reason)
}
