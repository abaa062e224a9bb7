// Package sql builds SQL statements from composable, chainable calls and
// renders them as literal SQL or as a parameterized query.
//
// # Statements
//
//   - Selector: SELECT with joins, criteria, grouping and pagination
//   - InsertBuilder: INSERT from row mappings, positional values or a query
//   - UpdateBuilder: UPDATE with SET assignments and criteria
//   - DeleteBuilder: DELETE with criteria
//
// Every statement renders with ToSQL (values inlined, strings quoted with
// doubled single quotes) or ToParams (placeholders and an ordered value
// list):
//
//	sql.Select().From("user").Where(sql.P("first_name", "Fred")).ToSQL()
//	// SELECT * FROM user WHERE first_name = 'Fred'
//
//	sql.Insert("user", sql.P("first_name", "Fred", "last_name", "Flintstone")).ToParams()
//	// INSERT INTO user (first_name, last_name) VALUES ($1, $2) [Fred Flintstone]
//
// Clause methods accept variadic tokens, a []string, or comma separated
// strings, and repeated calls append. Misuse is reported by the render call,
// never by the builder methods.
//
// # Criteria
//
// WHERE, ON and HAVING take Criteria nodes or mappings. A mapping (Pairs or a
// map) is an AND of equalities:
//
//	sql.Or(sql.P("name", "Fred"), sql.And(sql.GT("age", 18), sql.Not(sql.IsNull("email"))))
//	// name = 'Fred' OR (age > 18 AND (NOT email IS NULL))
//
// # Environments
//
// An Env carries the dialect, the table abbreviations, the join criteria
// strategy and the views. The package-level constructors use a default Env
// with Postgres placeholders and nothing else configured.
//
//	env := sql.NewEnv(
//	    sql.WithAbbrevs(map[string]string{"usr": "user", "psn": "person"}),
//	    sql.WithJoinCriteria(sql.AliasFK("_fk", "pk")),
//	)
//	env.Select().From("usr").Join("psn")
//	// SELECT * FROM user usr INNER JOIN person psn ON usr.psn_fk = psn.pk
//
// Tables named in a single Join call all join to the table before the call;
// consecutive calls chain. Views are named join and where fragments that
// are instantiated under an alias; see View.
//
// # Execution
//
// Driver wraps database/sql, ExecStatement and QueryStatement run a rendered
// statement, and constraint violations reported by PostgreSQL, MySQL and
// SQLite are wrapped in bricks.ConstraintError. StatsDriver records
// statement statistics.
package sql
