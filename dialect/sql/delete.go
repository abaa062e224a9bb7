package sql

import (
	"github.com/syssam/bricks"
)

// DeleteBuilder builds a DELETE statement.
type DeleteBuilder struct {
	env       *Env
	table     string
	where     []Criteria
	returning []string
	errs      []error
}

// Delete returns a DeleteBuilder for table.
func (e *Env) Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{env: e, table: table}
}

// Where ANDs criteria to the WHERE clause.
func (d *DeleteBuilder) Where(args ...any) *DeleteBuilder {
	d.where = appendCriteria(d.where, args)
	return d
}

// And is an alias for Where.
func (d *DeleteBuilder) And(args ...any) *DeleteBuilder {
	return d.Where(args...)
}

// Returning appends columns to the RETURNING clause.
func (d *DeleteBuilder) Returning(columns ...any) *DeleteBuilder {
	cs, err := stringTokens(columns)
	if err != nil {
		d.errs = append(d.errs, bricks.NewStatementError("delete", "%v", err))
	}
	d.returning = append(d.returning, cs...)
	return d
}

// Clone returns a deep copy of the DeleteBuilder.
func (d *DeleteBuilder) Clone() *DeleteBuilder {
	return &DeleteBuilder{
		env:       d.env,
		table:     d.table,
		where:     cloneCriteria(d.where),
		returning: cloneTokens(d.returning),
		errs:      cloneTokens(d.errs),
	}
}

// Err returns the errors recorded while building the statement.
func (d *DeleteBuilder) Err() error {
	return bricks.NewAggregateError(d.errs...)
}

// ToSQL renders the statement with its values inlined.
func (d *DeleteBuilder) ToSQL() (string, error) {
	q, _, err := build(d, d.env.dialect, false)
	return q, err
}

// ToParams renders the statement with placeholders.
func (d *DeleteBuilder) ToParams() (string, []any, error) {
	return build(d, d.env.dialect, true)
}

func (d *DeleteBuilder) render(b *Builder) {
	for _, err := range d.errs {
		b.AddError(err)
	}
	b.WriteString("DELETE FROM ").Table(d.env.target(d.table))
	if w := conjoin(d.where...); w != nil {
		b.WriteString(" WHERE ")
		w.render(b, "")
	}
	if len(d.returning) > 0 {
		b.WriteString(" RETURNING ").IdentComma(d.returning...)
	}
}

var _ Statement = (*DeleteBuilder)(nil)
