// Package dialect provides the database dialect abstraction of bricks.
//
// A dialect decides how statements are rendered for a database. Today that
// is the bind placeholder style:
//
//	dialect.Postgres = "postgres" // $1, $2, ...
//	dialect.MySQL    = "mysql"    // ?
//	dialect.SQLite   = "sqlite"   // ?
//
// # Driver Interface
//
// Rendered statements are executed through the Driver interface:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The database/sql implementation lives in dialect/sql:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	env := drv.Env()
//	rows, err := sql.QueryStatement(ctx, drv, env.Select("id").From("user"))
package dialect
