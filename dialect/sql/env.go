package sql

import (
	"log/slog"
	"sync"

	"github.com/syssam/bricks/dialect"
)

// Env carries the configuration statements are built against: the dialect,
// the table abbreviations, the join criteria strategy and the view registry.
// Configure it once with options; statements created from it only read it.
type Env struct {
	dialect      string
	abbrevs      *Abbrevs
	joinCriteria JoinCriteriaFunc
	logger       *slog.Logger

	mu    sync.RWMutex
	views map[string]*View
}

// Option configures an Env.
type Option func(*Env)

// WithDialect sets the dialect used for placeholders. Default is Postgres.
func WithDialect(name string) Option {
	return func(e *Env) {
		e.dialect = name
	}
}

// WithAbbrevs sets the table abbreviations, mapping abbreviation to full name.
func WithAbbrevs(m map[string]string) Option {
	return func(e *Env) {
		e.abbrevs = NewAbbrevs(m)
	}
}

// WithJoinCriteria sets the strategy used to infer ON conditions.
func WithJoinCriteria(f JoinCriteriaFunc) Option {
	return func(e *Env) {
		e.joinCriteria = f
	}
}

// WithLogger sets the logger receiving debug events about inferred joins
// and view expansions. Default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Env) {
		e.logger = l
	}
}

// NewEnv returns an Env configured with the given options.
func NewEnv(opts ...Option) *Env {
	e := &Env{
		dialect: dialect.Postgres,
		logger:  slog.New(slog.DiscardHandler),
		views:   make(map[string]*View),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dialect returns the dialect name of the Env.
func (e *Env) Dialect() string { return e.dialect }

// Abbrevs returns the abbreviation table of the Env, possibly nil.
func (e *Env) Abbrevs() *Abbrevs { return e.abbrevs }

// defaultEnv backs the package-level statement constructors.
var defaultEnv = NewEnv()

// Select returns a Selector for the given columns using the default Env:
// Postgres placeholders, no abbreviations and no join inference.
func Select(columns ...any) *Selector { return defaultEnv.Select(columns...) }

// Insert returns an InsertBuilder for table using the default Env.
func Insert(table string, args ...any) *InsertBuilder { return defaultEnv.Insert(table, args...) }

// InsertInto is an alias for Insert.
func InsertInto(table string, args ...any) *InsertBuilder { return defaultEnv.Insert(table, args...) }

// Update returns an UpdateBuilder for table using the default Env.
func Update(table string, args ...any) *UpdateBuilder { return defaultEnv.Update(table, args...) }

// Delete returns a DeleteBuilder for table using the default Env.
func Delete(table string) *DeleteBuilder { return defaultEnv.Delete(table) }
