package sql

import (
	"strconv"

	"github.com/syssam/bricks"
)

// Statement is implemented by every statement builder.
type Statement interface {
	// ToSQL renders the statement with its values inlined.
	ToSQL() (string, error)
	// ToParams renders the statement with placeholders and returns the
	// values in placeholder order.
	ToParams() (string, []any, error)
}

// Selector builds a SELECT statement. Methods mutate the Selector and
// return it for chaining; a Selector is owned by its caller and must not
// be shared between goroutines without synchronization. Use Clone to
// derive independent statements.
type Selector struct {
	source
	env      *Env
	distinct bool
	columns  []any
	group    []any
	having   []Criteria
	order    []any
	limit    *int
	offset   *int
}

// Select returns a Selector for the given columns. Columns may be given as
// variadic strings, a []string or comma-separated strings; none means "*".
func (e *Env) Select(columns ...any) *Selector {
	s := &Selector{env: e}
	return s.Select(columns...)
}

// Select appends columns to the select list.
func (s *Selector) Select(columns ...any) *Selector {
	ts, err := tokens(columns)
	if err != nil {
		s.errs = append(s.errs, bricks.NewStatementError("select", "%v", err))
	}
	s.columns = append(s.columns, ts...)
	return s
}

// Distinct adds the DISTINCT modifier.
func (s *Selector) Distinct() *Selector {
	s.distinct = true
	return s
}

// From appends tables to the FROM clause. A table token is "table",
// "table alias" or a view reference "view alias".
func (s *Selector) From(tables ...any) *Selector {
	s.addFrom(tables)
	return s
}

// Join adds an inner join for every table in args. Tables named in one call
// are all joined to the table preceding the call; consecutive calls chain,
// each joining to the last table of the previous call. A Criteria or
// mapping argument sets the ON condition of the last table; otherwise it is
// inferred by the Env's join criteria.
func (s *Selector) Join(args ...any) *Selector {
	s.addJoin(InnerJoin, args)
	return s
}

// InnerJoin is an alias for Join.
func (s *Selector) InnerJoin(args ...any) *Selector {
	s.addJoin(InnerJoin, args)
	return s
}

// LeftJoin adds left joins. See Join.
func (s *Selector) LeftJoin(args ...any) *Selector {
	s.addJoin(LeftJoin, args)
	return s
}

// RightJoin adds right joins. See Join.
func (s *Selector) RightJoin(args ...any) *Selector {
	s.addJoin(RightJoin, args)
	return s
}

// FullJoin adds full outer joins. See Join.
func (s *Selector) FullJoin(args ...any) *Selector {
	s.addJoin(FullJoin, args)
	return s
}

// CrossJoin adds cross joins, which have no ON condition.
func (s *Selector) CrossJoin(args ...any) *Selector {
	s.addJoin(CrossJoin, args)
	return s
}

// On ANDs criteria to the ON condition of the last join. Mapping values are
// column names: On(sql.P("usr.psn_fk", "psn.pk")) and On("usr.psn_fk", "psn.pk")
// both mean usr.psn_fk = psn.pk.
func (s *Selector) On(args ...any) *Selector {
	s.addOn(args)
	return s
}

// Where ANDs criteria to the WHERE clause. Arguments are Criteria or
// mappings; a column and a value mean an equality.
func (s *Selector) Where(args ...any) *Selector {
	s.addWhere(args)
	return s
}

// And is an alias for Where.
func (s *Selector) And(args ...any) *Selector {
	return s.Where(args...)
}

// GroupBy appends columns to the GROUP BY clause.
func (s *Selector) GroupBy(columns ...any) *Selector {
	ts, err := tokens(columns)
	if err != nil {
		s.errs = append(s.errs, bricks.NewStatementError("group by", "%v", err))
	}
	s.group = append(s.group, ts...)
	return s
}

// Having ANDs criteria to the HAVING clause.
func (s *Selector) Having(args ...any) *Selector {
	s.having = appendCriteria(s.having, args)
	return s
}

// OrderBy appends columns to the ORDER BY clause. A column may carry a
// direction: "name DESC".
func (s *Selector) OrderBy(columns ...any) *Selector {
	ts, err := tokens(columns)
	if err != nil {
		s.errs = append(s.errs, bricks.NewStatementError("order by", "%v", err))
	}
	s.order = append(s.order, ts...)
	return s
}

// Order is an alias for OrderBy.
func (s *Selector) Order(columns ...any) *Selector {
	return s.OrderBy(columns...)
}

// Limit sets the LIMIT clause.
func (s *Selector) Limit(n int) *Selector {
	s.limit = &n
	return s
}

// Offset sets the OFFSET clause.
func (s *Selector) Offset(n int) *Selector {
	s.offset = &n
	return s
}

// Clone returns a deep copy of the Selector. Changes to the copy are never
// observable on s, and vice versa.
func (s *Selector) Clone() *Selector {
	if s == nil {
		return nil
	}
	c := &Selector{
		source:   s.source.clone(),
		env:      s.env,
		distinct: s.distinct,
		columns:  cloneTokens(s.columns),
		group:    cloneTokens(s.group),
		having:   cloneCriteria(s.having),
		order:    cloneTokens(s.order),
	}
	if s.limit != nil {
		n := *s.limit
		c.limit = &n
	}
	if s.offset != nil {
		n := *s.offset
		c.offset = &n
	}
	return c
}

// Err returns the errors recorded while building the statement.
func (s *Selector) Err() error {
	return bricks.NewAggregateError(s.errs...)
}

// ToSQL renders the statement with its values inlined.
func (s *Selector) ToSQL() (string, error) {
	q, _, err := build(s, s.env.dialect, false)
	return q, err
}

// ToParams renders the statement with placeholders.
func (s *Selector) ToParams() (string, []any, error) {
	return build(s, s.env.dialect, true)
}

func (s *Selector) render(b *Builder) {
	for _, err := range s.errs {
		b.AddError(err)
	}
	f, err := s.env.resolve(&s.source, 0)
	if err != nil {
		b.AddError(err)
		return
	}
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	if len(s.columns) == 0 {
		b.WriteByte('*')
	} else {
		writeColumns(b, s.columns)
	}
	f.render(b)
	if w := conjoin(append(f.where, s.where...)...); w != nil {
		b.WriteString(" WHERE ")
		w.render(b, "")
	}
	if len(s.group) > 0 {
		b.WriteString(" GROUP BY ")
		writeColumns(b, s.group)
	}
	if h := conjoin(s.having...); h != nil {
		b.WriteString(" HAVING ")
		h.render(b, "")
	}
	if len(s.order) > 0 {
		b.WriteString(" ORDER BY ")
		writeColumns(b, s.order)
	}
	if s.limit != nil {
		b.WriteString(" LIMIT ").WriteString(strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ").WriteString(strconv.Itoa(*s.offset))
	}
}

var _ Statement = (*Selector)(nil)
