package sql

import (
	"github.com/syssam/bricks"
)

// View is a named, reusable join and where fragment over a base table.
// Joins and criteria are written against the view's own table aliases;
// referencing the view as "name alias" in a FROM or JOIN clause
// instantiates it with the base aliased as alias and every inner alias
// prefixed with "alias_":
//
//	env.DefineView("activeUsers", "usr").
//		Join("psn").
//		Where(sql.EQ("usr.active", true))
//
//	env.Select().From("activeUsers au")
//	// SELECT * FROM user au INNER JOIN person au_psn ON au.psn_fk = au_psn.pk WHERE au.active = TRUE
//
// Instantiation reads the definition and never modifies it. A view should
// be fully defined before statements referencing it are rendered.
type View struct {
	source
	name string
	err  error
}

// DefineView registers a view named name over the base table token. If a
// view of that name already exists, the returned View is not registered and
// Err reports bricks.ErrViewExists.
func (e *Env) DefineView(name, base string) *View {
	v := &View{name: name}
	v.from = []tableItem{{token: base}}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.views[name]; ok {
		v.err = bricks.NewViewExistsError(name)
		return v
	}
	e.views[name] = v
	return v
}

// View returns the view registered under name.
func (e *Env) View(name string) (*View, bool) {
	v := e.lookupView(name)
	return v, v != nil
}

func (e *Env) lookupView(name string) *View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.views[name]
}

// Name returns the view name.
func (v *View) Name() string { return v.name }

// Err returns the error of the definition, if any.
func (v *View) Err() error {
	if v.err != nil {
		return v.err
	}
	return bricks.NewAggregateError(v.errs...)
}

// Join adds inner joins to the view. See Selector.Join.
func (v *View) Join(args ...any) *View {
	v.addJoin(InnerJoin, args)
	return v
}

// LeftJoin adds left joins to the view.
func (v *View) LeftJoin(args ...any) *View {
	v.addJoin(LeftJoin, args)
	return v
}

// RightJoin adds right joins to the view.
func (v *View) RightJoin(args ...any) *View {
	v.addJoin(RightJoin, args)
	return v
}

// FullJoin adds full joins to the view.
func (v *View) FullJoin(args ...any) *View {
	v.addJoin(FullJoin, args)
	return v
}

// CrossJoin adds cross joins to the view.
func (v *View) CrossJoin(args ...any) *View {
	v.addJoin(CrossJoin, args)
	return v
}

// On sets the condition of the last join of the view.
func (v *View) On(args ...any) *View {
	v.addOn(args)
	return v
}

// Where adds criteria that every instantiation of the view contributes to
// the WHERE clause of the referencing statement.
func (v *View) Where(args ...any) *View {
	v.addWhere(args)
	return v
}
