package sql

import (
	"github.com/syssam/bricks"
)

// UpdateBuilder builds an UPDATE statement.
type UpdateBuilder struct {
	env       *Env
	table     string
	set       Pairs
	where     []Criteria
	returning []string
	errs      []error
}

// Update returns an UpdateBuilder for table. Arguments are row mappings
// whose entries become SET assignments.
func (e *Env) Update(table string, args ...any) *UpdateBuilder {
	u := &UpdateBuilder{env: e, table: table}
	return u.Set(args...)
}

// Set adds assignments. It takes a column and a value, or any number of
// mappings. Assigning a column again replaces its value in place.
func (u *UpdateBuilder) Set(args ...any) *UpdateBuilder {
	if len(args) == 2 {
		if c, ok := args[0].(string); ok {
			u.set = u.set.set(c, args[1])
			return u
		}
	}
	for _, a := range args {
		ps, ok := toPairs(a)
		if !ok {
			u.errs = append(u.errs, bricks.NewStatementError("update", "unexpected SET argument of type %T", a))
			continue
		}
		for _, p := range ps {
			u.set = u.set.set(p.Column, p.Value)
		}
	}
	return u
}

// Values is an alias for Set.
func (u *UpdateBuilder) Values(args ...any) *UpdateBuilder {
	return u.Set(args...)
}

// Where ANDs criteria to the WHERE clause.
func (u *UpdateBuilder) Where(args ...any) *UpdateBuilder {
	u.where = appendCriteria(u.where, args)
	return u
}

// And is an alias for Where.
func (u *UpdateBuilder) And(args ...any) *UpdateBuilder {
	return u.Where(args...)
}

// Returning appends columns to the RETURNING clause.
func (u *UpdateBuilder) Returning(columns ...any) *UpdateBuilder {
	cs, err := stringTokens(columns)
	if err != nil {
		u.errs = append(u.errs, bricks.NewStatementError("update", "%v", err))
	}
	u.returning = append(u.returning, cs...)
	return u
}

// Clone returns a deep copy of the UpdateBuilder.
func (u *UpdateBuilder) Clone() *UpdateBuilder {
	return &UpdateBuilder{
		env:       u.env,
		table:     u.table,
		set:       u.set.clone(),
		where:     cloneCriteria(u.where),
		returning: cloneTokens(u.returning),
		errs:      cloneTokens(u.errs),
	}
}

// Err returns the errors recorded while building the statement.
func (u *UpdateBuilder) Err() error {
	return bricks.NewAggregateError(u.errs...)
}

// ToSQL renders the statement with its values inlined.
func (u *UpdateBuilder) ToSQL() (string, error) {
	q, _, err := build(u, u.env.dialect, false)
	return q, err
}

// ToParams renders the statement with placeholders. SET values are
// numbered before WHERE values.
func (u *UpdateBuilder) ToParams() (string, []any, error) {
	return build(u, u.env.dialect, true)
}

func (u *UpdateBuilder) render(b *Builder) {
	for _, err := range u.errs {
		b.AddError(err)
	}
	if len(u.set) == 0 {
		b.AddError(bricks.NewStatementError("update", "no SET assignments for table %q", u.table))
		return
	}
	b.WriteString("UPDATE ").Table(u.env.target(u.table)).WriteString(" SET ")
	for i, p := range u.set {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(p.Column).WriteString(" = ").Arg(p.Value)
	}
	if w := conjoin(u.where...); w != nil {
		b.WriteString(" WHERE ")
		w.render(b, "")
	}
	if len(u.returning) > 0 {
		b.WriteString(" RETURNING ").IdentComma(u.returning...)
	}
}

var _ Statement = (*UpdateBuilder)(nil)
