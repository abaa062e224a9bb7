package sql

import (
	"github.com/syssam/bricks"
)

// insertRow is one VALUES row, given either as a mapping or positionally.
type insertRow struct {
	pairs  Pairs
	values []any
}

// InsertBuilder builds an INSERT statement.
type InsertBuilder struct {
	env       *Env
	table     string
	columns   []string
	rows      []insertRow
	query     *Selector
	returning []string
	errs      []error
}

// Insert returns an InsertBuilder for table. Each argument is either a row
// mapping (Pairs or map[string]any) or column names:
//
//	env.Insert("user", sql.P("first_name", "Fred", "last_name", "Flintstone"))
//	env.Insert("user", "first_name, last_name").Values("Fred", "Flintstone")
func (e *Env) Insert(table string, args ...any) *InsertBuilder {
	i := &InsertBuilder{env: e, table: table}
	for _, a := range args {
		if ps, ok := toPairs(a); ok {
			i.rows = append(i.rows, insertRow{pairs: ps})
			continue
		}
		i.Columns(a)
	}
	return i
}

// InsertInto is an alias for Insert.
func (e *Env) InsertInto(table string, args ...any) *InsertBuilder {
	return e.Insert(table, args...)
}

// Columns appends to the column list.
func (i *InsertBuilder) Columns(columns ...any) *InsertBuilder {
	cs, err := stringTokens(columns)
	if err != nil {
		i.errs = append(i.errs, bricks.NewStatementError("insert", "%v", err))
	}
	i.columns = append(i.columns, cs...)
	return i
}

// Values appends rows. Arguments are either one row mapping per row, or the
// values of a single row in column order.
func (i *InsertBuilder) Values(args ...any) *InsertBuilder {
	if len(args) == 0 {
		return i
	}
	if _, ok := toPairs(args[0]); !ok {
		i.rows = append(i.rows, insertRow{values: append([]any(nil), args...)})
		return i
	}
	for _, a := range args {
		ps, ok := toPairs(a)
		if !ok {
			i.errs = append(i.errs, bricks.NewStatementError("insert", "mixed row mapping and value of type %T", a))
			continue
		}
		i.rows = append(i.rows, insertRow{pairs: ps})
	}
	return i
}

// Select sets a query whose rows are inserted: INSERT INTO t (cols) SELECT ...
func (i *InsertBuilder) Select(q *Selector) *InsertBuilder {
	i.query = q
	return i
}

// Returning appends columns to the RETURNING clause.
func (i *InsertBuilder) Returning(columns ...any) *InsertBuilder {
	cs, err := stringTokens(columns)
	if err != nil {
		i.errs = append(i.errs, bricks.NewStatementError("insert", "%v", err))
	}
	i.returning = append(i.returning, cs...)
	return i
}

// Clone returns a deep copy of the InsertBuilder.
func (i *InsertBuilder) Clone() *InsertBuilder {
	c := &InsertBuilder{
		env:       i.env,
		table:     i.table,
		columns:   cloneTokens(i.columns),
		query:     i.query.Clone(),
		returning: cloneTokens(i.returning),
		errs:      cloneTokens(i.errs),
	}
	if i.rows != nil {
		c.rows = make([]insertRow, len(i.rows))
		for j, r := range i.rows {
			c.rows[j] = insertRow{pairs: r.pairs.clone()}
			if r.values != nil {
				c.rows[j].values = cloneValue(r.values).([]any)
			}
		}
	}
	return c
}

// Err returns the errors recorded while building the statement.
func (i *InsertBuilder) Err() error {
	return bricks.NewAggregateError(i.errs...)
}

// ToSQL renders the statement with its values inlined.
func (i *InsertBuilder) ToSQL() (string, error) {
	q, _, err := build(i, i.env.dialect, false)
	return q, err
}

// ToParams renders the statement with placeholders.
func (i *InsertBuilder) ToParams() (string, []any, error) {
	return build(i, i.env.dialect, true)
}

func (i *InsertBuilder) render(b *Builder) {
	for _, err := range i.errs {
		b.AddError(err)
	}
	columns := i.columns
	if len(columns) == 0 && len(i.rows) > 0 {
		columns = i.rows[0].pairs.Columns()
	}
	rows, err := i.align(columns)
	if err != nil {
		b.AddError(err)
		return
	}
	b.WriteString("INSERT INTO ").Ident(i.env.target(i.table).Name)
	if len(columns) > 0 {
		b.WriteString(" (").IdentComma(columns...).WriteByte(')')
	}
	if i.query != nil {
		b.Pad()
		i.query.render(b)
	} else {
		b.WriteString(" VALUES ")
		for j, r := range rows {
			if j > 0 {
				b.WriteString(", ")
			}
			b.Wrap(func(b *Builder) { b.Args(r...) })
		}
	}
	if len(i.returning) > 0 {
		b.WriteString(" RETURNING ").IdentComma(i.returning...)
	}
}

// align returns the rows as value lists in column order.
func (i *InsertBuilder) align(columns []string) ([][]any, error) {
	switch {
	case i.query != nil && len(i.rows) > 0:
		return nil, bricks.NewStatementError("insert", "both VALUES and SELECT given")
	case i.query != nil:
		return nil, nil
	case len(i.rows) == 0:
		return nil, bricks.NewStatementError("insert", "no values for table %q", i.table)
	case len(columns) == 0:
		return nil, bricks.NewStatementError("insert", "no columns for table %q", i.table)
	}
	index := make(map[string]int, len(columns))
	for j, c := range columns {
		index[c] = j
	}
	rows := make([][]any, len(i.rows))
	for j, r := range i.rows {
		if r.pairs == nil {
			if len(r.values) != len(columns) {
				return nil, bricks.NewStatementError("insert", "row %d has %d values for %d columns", j+1, len(r.values), len(columns))
			}
			rows[j] = r.values
			continue
		}
		row := make([]any, len(columns))
		for _, p := range r.pairs {
			k, ok := index[p.Column]
			if !ok {
				return nil, bricks.NewStatementError("insert", "row %d has unknown column %q", j+1, p.Column)
			}
			row[k] = p.Value
		}
		rows[j] = row
	}
	return rows, nil
}

var _ Statement = (*InsertBuilder)(nil)
