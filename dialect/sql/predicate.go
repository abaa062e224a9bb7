package sql

import (
	"github.com/syssam/bricks"
)

// Op is an SQL operator used by criteria nodes.
type Op string

// Criteria operators.
const (
	OpEQ      Op = "="
	OpNEQ     Op = "<>"
	OpLT      Op = "<"
	OpLTE     Op = "<="
	OpGT      Op = ">"
	OpGTE     Op = ">="
	OpLike    Op = "LIKE"
	OpNotLike Op = "NOT LIKE"
	OpAnd     Op = "AND"
	OpOr      Op = "OR"
	OpNot     Op = "NOT"
)

// Criteria is a node of a boolean expression tree, used for WHERE, ON and
// HAVING clauses. Nodes are immutable once built; statements copy them on
// Clone.
type Criteria interface {
	// render writes the node. parent is the operator of the enclosing
	// junction or negation, or "" at the top level.
	render(b *Builder, parent Op)
	// rewrite returns a deep copy of the node with every table qualifier
	// passed through f. A nil f copies the node unchanged.
	rewrite(f func(string) string) Criteria
}

// Comparison compares a column with a value or another column.
type Comparison struct {
	Column string
	Op     Op
	Value  any
}

// EQ returns a "column = value" criteria.
func EQ(col string, v any) Criteria { return &Comparison{Column: col, Op: OpEQ, Value: v} }

// Equal is an alias for EQ.
func Equal(col string, v any) Criteria { return EQ(col, v) }

// NEQ returns a "column <> value" criteria.
func NEQ(col string, v any) Criteria { return &Comparison{Column: col, Op: OpNEQ, Value: v} }

// LT returns a "column < value" criteria.
func LT(col string, v any) Criteria { return &Comparison{Column: col, Op: OpLT, Value: v} }

// LTE returns a "column <= value" criteria.
func LTE(col string, v any) Criteria { return &Comparison{Column: col, Op: OpLTE, Value: v} }

// GT returns a "column > value" criteria.
func GT(col string, v any) Criteria { return &Comparison{Column: col, Op: OpGT, Value: v} }

// GTE returns a "column >= value" criteria.
func GTE(col string, v any) Criteria { return &Comparison{Column: col, Op: OpGTE, Value: v} }

// Like returns a "column LIKE pattern" criteria.
func Like(col string, pattern any) Criteria {
	return &Comparison{Column: col, Op: OpLike, Value: pattern}
}

// NotLike returns a "column NOT LIKE pattern" criteria.
func NotLike(col string, pattern any) Criteria {
	return &Comparison{Column: col, Op: OpNotLike, Value: pattern}
}

// Contains returns a criteria matching columns that contain substr.
func Contains(col, substr string) Criteria { return Like(col, "%"+substr+"%") }

// HasPrefix returns a criteria matching columns that start with prefix.
func HasPrefix(col, prefix string) Criteria { return Like(col, prefix+"%") }

// HasSuffix returns a criteria matching columns that end with suffix.
func HasSuffix(col, suffix string) Criteria { return Like(col, "%"+suffix) }

func (c *Comparison) render(b *Builder, _ Op) {
	b.Ident(c.Column).Pad().WriteString(string(c.Op)).Pad().Arg(c.Value)
}

func (c *Comparison) rewrite(f func(string) string) Criteria {
	return &Comparison{Column: rewriteIdent(c.Column, f), Op: c.Op, Value: rewriteValue(c.Value, f)}
}

// InList is an "IN" criteria over a list of values or a single subquery.
type InList struct {
	Column string
	Values []any
	Not    bool
}

// In returns a "column IN (values)" criteria. A single *Selector argument
// renders as a subquery.
func In(col string, vs ...any) Criteria { return &InList{Column: col, Values: vs} }

// NotIn returns a "column NOT IN (values)" criteria.
func NotIn(col string, vs ...any) Criteria { return &InList{Column: col, Values: vs, Not: true} }

func (c *InList) render(b *Builder, _ Op) {
	if len(c.Values) == 0 {
		// Nothing is IN an empty set.
		if c.Not {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
		return
	}
	b.Ident(c.Column)
	if c.Not {
		b.WriteString(" NOT")
	}
	b.WriteString(" IN ")
	if len(c.Values) == 1 {
		if q, ok := c.Values[0].(querier); ok {
			b.Arg(q)
			return
		}
	}
	b.Wrap(func(b *Builder) { b.Args(c.Values...) })
}

func (c *InList) rewrite(f func(string) string) Criteria {
	vs := make([]any, len(c.Values))
	for i, v := range c.Values {
		vs[i] = rewriteValue(v, f)
	}
	return &InList{Column: rewriteIdent(c.Column, f), Values: vs, Not: c.Not}
}

// NullCheck is an "IS NULL" or "IS NOT NULL" criteria.
type NullCheck struct {
	Column string
	Not    bool
}

// IsNull returns a "column IS NULL" criteria.
func IsNull(col string) Criteria { return &NullCheck{Column: col} }

// IsNotNull returns a "column IS NOT NULL" criteria.
func IsNotNull(col string) Criteria { return &NullCheck{Column: col, Not: true} }

func (c *NullCheck) render(b *Builder, _ Op) {
	b.Ident(c.Column)
	if c.Not {
		b.WriteString(" IS NOT NULL")
	} else {
		b.WriteString(" IS NULL")
	}
}

func (c *NullCheck) rewrite(f func(string) string) Criteria {
	return &NullCheck{Column: rewriteIdent(c.Column, f), Not: c.Not}
}

// Range is a "BETWEEN" criteria.
type Range struct {
	Column    string
	Low, High any
}

// Between returns a "column BETWEEN low AND high" criteria.
func Between(col string, low, high any) Criteria {
	return &Range{Column: col, Low: low, High: high}
}

func (c *Range) render(b *Builder, _ Op) {
	b.Ident(c.Column).WriteString(" BETWEEN ").Arg(c.Low).WriteString(" AND ").Arg(c.High)
}

func (c *Range) rewrite(f func(string) string) Criteria {
	return &Range{Column: rewriteIdent(c.Column, f), Low: rewriteValue(c.Low, f), High: rewriteValue(c.High, f)}
}

// Existence is an "EXISTS (subquery)" criteria.
type Existence struct {
	Query *Selector
	Not   bool
}

// Exists returns an "EXISTS (query)" criteria.
func Exists(q *Selector) Criteria { return &Existence{Query: q} }

// NotExists returns a "NOT EXISTS (query)" criteria.
func NotExists(q *Selector) Criteria { return &Existence{Query: q, Not: true} }

func (c *Existence) render(b *Builder, _ Op) {
	if c.Not {
		b.WriteString("NOT ")
	}
	b.WriteString("EXISTS ").Arg(c.Query)
}

func (c *Existence) rewrite(func(string) string) Criteria {
	return &Existence{Query: c.Query.Clone(), Not: c.Not}
}

// Fragment is a raw SQL criteria.
type Fragment string

// Expr returns a criteria written verbatim. It is neither quoted nor escaped.
func Expr(sql string) Criteria { return Fragment(sql) }

func (c Fragment) render(b *Builder, _ Op) { b.WriteString(string(c)) }

func (c Fragment) rewrite(func(string) string) Criteria { return c }

// Junction combines its children with AND or OR.
type Junction struct {
	Op       Op
	Children []Criteria
}

// And returns the conjunction of its arguments. Each argument is a Criteria
// or a mapping (Pairs or map[string]any), the latter meaning an AND of
// equalities. Nested conjunctions are flattened.
func And(args ...any) Criteria { return junction(OpAnd, args) }

// Or returns the disjunction of its arguments. Arguments are converted as in And.
func Or(args ...any) Criteria { return junction(OpOr, args) }

func junction(op Op, args []any) Criteria {
	j := &Junction{Op: op}
	for _, a := range args {
		j.add(ToCriteria(a, false))
	}
	return j
}

// add appends c, inlining the children of a junction of the same operator.
func (j *Junction) add(c Criteria) {
	if cj, ok := c.(*Junction); ok && cj.Op == j.Op {
		j.Children = append(j.Children, cj.Children...)
		return
	}
	j.Children = append(j.Children, c)
}

func (j *Junction) render(b *Builder, parent Op) {
	cs := nonEmpty(j.Children)
	switch {
	case len(cs) == 0:
		return
	case len(cs) == 1:
		cs[0].render(b, parent)
		return
	}
	parens := parent == OpNot || parent != "" && parent != j.Op
	if parens {
		b.WriteByte('(')
	}
	for i, c := range cs {
		if i > 0 {
			b.Pad().WriteString(string(j.Op)).Pad()
		}
		c.render(b, j.Op)
	}
	if parens {
		b.WriteByte(')')
	}
}

func (j *Junction) rewrite(f func(string) string) Criteria {
	cs := make([]Criteria, len(j.Children))
	for i, c := range j.Children {
		cs[i] = c.rewrite(f)
	}
	return &Junction{Op: j.Op, Children: cs}
}

// Negation negates its child.
type Negation struct {
	Child Criteria
}

// Not returns the negation of its argument, converted as in And.
func Not(arg any) Criteria { return &Negation{Child: ToCriteria(arg, false)} }

func (n *Negation) render(b *Builder, parent Op) {
	if parent == OpAnd {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}
	b.WriteString("NOT ")
	n.Child.render(b, OpNot)
}

func (n *Negation) rewrite(f func(string) string) Criteria {
	return &Negation{Child: n.Child.rewrite(f)}
}

// errCriteria stands for a malformed criteria argument.
type errCriteria struct{ v any }

func (c errCriteria) render(b *Builder, _ Op) { b.AddError(bricks.NewCriteriaError(c.v)) }

func (c errCriteria) rewrite(func(string) string) Criteria { return c }

// nonEmpty returns cs without junctions that render nothing.
func nonEmpty(cs []Criteria) []Criteria {
	out := cs[:0:0]
	for _, c := range cs {
		if !isEmpty(c) {
			out = append(out, c)
		}
	}
	return out
}

// isEmpty reports whether c renders nothing.
func isEmpty(c Criteria) bool {
	j, ok := c.(*Junction)
	if !ok {
		return c == nil
	}
	for _, c := range j.Children {
		if !isEmpty(c) {
			return false
		}
	}
	return true
}

// conjoin ANDs cs into a single criteria, or returns nil if nothing renders.
func conjoin(cs ...Criteria) Criteria {
	j := &Junction{Op: OpAnd}
	for _, c := range cs {
		if !isEmpty(c) {
			j.add(c)
		}
	}
	if len(j.Children) == 0 {
		return nil
	}
	return j
}

// rewriteIdent passes the table qualifier of ident through f.
func rewriteIdent(ident string, f func(string) string) string {
	if f == nil {
		return ident
	}
	q, rest := qualifier(ident)
	if q == "" {
		return ident
	}
	return f(q) + rest
}

// rewriteValue copies v, rewriting column references and cloning subqueries.
func rewriteValue(v any, f func(string) string) any {
	if id, ok := v.(Ident); ok {
		return Ident(rewriteIdent(string(id), f))
	}
	return cloneValue(v)
}

// cloneValue deep-copies values that own mutable state.
func cloneValue(v any) any {
	switch v := v.(type) {
	case *Selector:
		return v.Clone()
	case []any:
		c := make([]any, len(v))
		for i := range v {
			c[i] = cloneValue(v[i])
		}
		return c
	}
	return v
}

// Field is a typed column name with criteria constructors, for callers
// that want the compiler to check the values they compare with.
//
//	var Age = sql.Field[int]("usr.age")
//	sel.Where(Age.GTE(18))
type Field[T any] string

// Name returns the column name.
func (f Field[T]) Name() string { return string(f) }

// EQ returns a criteria that checks if the column equals v.
func (f Field[T]) EQ(v T) Criteria { return EQ(string(f), v) }

// NEQ returns a criteria that checks if the column does not equal v.
func (f Field[T]) NEQ(v T) Criteria { return NEQ(string(f), v) }

// LT returns a criteria that checks if the column is less than v.
func (f Field[T]) LT(v T) Criteria { return LT(string(f), v) }

// LTE returns a criteria that checks if the column is less than or equal to v.
func (f Field[T]) LTE(v T) Criteria { return LTE(string(f), v) }

// GT returns a criteria that checks if the column is greater than v.
func (f Field[T]) GT(v T) Criteria { return GT(string(f), v) }

// GTE returns a criteria that checks if the column is greater than or equal to v.
func (f Field[T]) GTE(v T) Criteria { return GTE(string(f), v) }

// In returns a criteria that checks if the column value is in vs.
func (f Field[T]) In(vs ...T) Criteria { return In(string(f), anySlice(vs)...) }

// NotIn returns a criteria that checks if the column value is not in vs.
func (f Field[T]) NotIn(vs ...T) Criteria { return NotIn(string(f), anySlice(vs)...) }

// IsNull returns a criteria that checks if the column is NULL.
func (f Field[T]) IsNull() Criteria { return IsNull(string(f)) }

// IsNotNull returns a criteria that checks if the column is not NULL.
func (f Field[T]) IsNotNull() Criteria { return IsNotNull(string(f)) }

func anySlice[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = vs[i]
	}
	return out
}
