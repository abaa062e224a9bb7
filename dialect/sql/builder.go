package sql

import (
	"strings"

	"github.com/syssam/bricks"
	"github.com/syssam/bricks/dialect"
)

// Builder is the low-level SQL string builder shared by every statement.
// It writes quoted identifiers and values, and either inlines values
// (literal mode) or replaces them with placeholders and collects them as
// arguments (params mode).
type Builder struct {
	sb      strings.Builder
	dialect string
	params  bool
	args    []any
	errs    []error
}

// newBuilder returns a Builder rendering for the given dialect.
func newBuilder(dialect string, params bool) *Builder {
	return &Builder{dialect: dialect, params: params}
}

// WriteString writes a raw string to the builder.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// WriteByte writes a single byte to the builder.
func (b *Builder) WriteByte(c byte) *Builder {
	b.sb.WriteByte(c)
	return b
}

// Pad writes a space.
func (b *Builder) Pad() *Builder {
	return b.WriteByte(' ')
}

// Ident writes an identifier, quoting its final segment if it is reserved.
func (b *Builder) Ident(s string) *Builder {
	return b.WriteString(QuoteIdent(s))
}

// IdentComma writes a comma-separated list of identifiers.
func (b *Builder) IdentComma(idents ...string) *Builder {
	for i, s := range idents {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(s)
	}
	return b
}

// Table writes a table reference: "name" or "name alias".
func (b *Builder) Table(t TableRef) *Builder {
	b.Ident(t.Name)
	if t.Alias != "" && t.Alias != t.Name {
		b.Pad().Ident(t.Alias)
	}
	return b
}

// Arg writes a value. Idents, Raw fragments and subqueries are written in
// place; every other value is inlined or bound depending on the mode.
func (b *Builder) Arg(v any) *Builder {
	switch v := v.(type) {
	case Ident:
		return b.Ident(string(v))
	case Raw:
		return b.WriteString(string(v))
	case querier:
		b.WriteByte('(')
		v.render(b)
		return b.WriteByte(')')
	}
	if b.params {
		return b.bind(v)
	}
	s, err := literal(v)
	if err != nil {
		return b.AddError(err)
	}
	return b.WriteString(s)
}

// bind appends v to the arguments and writes its placeholder.
func (b *Builder) bind(v any) *Builder {
	if !bindable(v) {
		s, ok := v.(interface{ String() string })
		if !ok {
			return b.AddError(bricks.NewValueError(v))
		}
		v = s.String()
	}
	b.args = append(b.args, v)
	return b.WriteString(dialect.Placeholder(b.dialect, len(b.args)))
}

// Args writes a comma-separated list of values.
func (b *Builder) Args(vs ...any) *Builder {
	for i, v := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Arg(v)
	}
	return b
}

// Wrap writes f's output enclosed in parentheses.
func (b *Builder) Wrap(f func(*Builder)) *Builder {
	b.WriteByte('(')
	f(b)
	return b.WriteByte(')')
}

// AddError records a rendering error.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Err returns the errors recorded so far, if any.
func (b *Builder) Err() error {
	return bricks.NewAggregateError(b.errs...)
}

// String returns the text written so far.
func (b *Builder) String() string {
	return b.sb.String()
}

// querier is implemented by every statement that can be rendered into a Builder.
type querier interface {
	render(*Builder)
}

// build renders q and returns its text and arguments. Nothing is returned
// alongside an error: a statement renders completely or not at all.
func build(q querier, dialect string, params bool) (string, []any, error) {
	b := newBuilder(dialect, params)
	q.render(b)
	if err := b.Err(); err != nil {
		return "", nil, err
	}
	return b.String(), b.args, nil
}
