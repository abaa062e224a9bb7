package sql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/bricks"
	"github.com/syssam/bricks/dialect"
)

func openSQLite(t *testing.T) *Driver {
	t.Helper()
	drv, err := Open(dialect.SQLite, fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", t.Name()))
	require.NoError(t, err)
	// Every connection of an in-memory database is a new database.
	drv.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { drv.Close() })

	ctx := context.Background()
	for _, ddl := range []string{
		"CREATE TABLE person (pk INTEGER PRIMARY KEY, first_name TEXT NOT NULL, last_name TEXT NOT NULL)",
		`CREATE TABLE user (
			pk INTEGER PRIMARY KEY,
			token TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			psn_fk INTEGER REFERENCES person(pk)
		)`,
		`CREATE TABLE "order" (pk INTEGER PRIMARY KEY, usr_fk INTEGER REFERENCES user(pk), "group" TEXT)`,
	} {
		require.NoError(t, drv.Exec(ctx, ddl, []any{}, nil))
	}
	return drv
}

func TestSQLiteRoundTrip(t *testing.T) {
	drv := openSQLite(t)
	ctx := context.Background()
	env := drv.Env(
		WithAbbrevs(map[string]string{"usr": "user", "psn": "person", "ord": "order"}),
		WithJoinCriteria(AliasFK("_fk", "pk")),
	)
	env.DefineView("activeUsers", "usr").Join("psn").Where("usr.active", true)

	_, err := ExecStatement(ctx, drv, env.Insert("person").Values(
		P("pk", 1, "first_name", "Fred", "last_name", "Flintstone"),
		P("pk", 2, "first_name", "Barney", "last_name", "Muad'Dib"),
	))
	require.NoError(t, err)

	// Literal rendering is executed as is.
	query, err := env.Insert("user", P("pk", 1, "token", uuid.NewString(), "email", "fred@bedrock.org", "active", true, "psn_fk", 1)).ToSQL()
	require.NoError(t, err)
	require.NoError(t, drv.Exec(ctx, query, []any{}, nil))

	_, err = ExecStatement(ctx, drv, env.Insert("user", "pk, token, email, active, psn_fk").Values(2, uuid.New(), "barney@bedrock.org", false, 2))
	require.NoError(t, err)
	_, err = ExecStatement(ctx, drv, env.Insert("ord", P("pk", 1, "usr_fk", 1, "group", "a")))
	require.NoError(t, err)

	rows, err := QueryStatement(ctx, drv,
		env.Select("au_psn.first_name", "au_psn.last_name").From("activeUsers au").OrderBy("au.pk"))
	require.NoError(t, err)
	var names []string
	for rows.Next() {
		var first, last string
		require.NoError(t, rows.Scan(&first, &last))
		names = append(names, first+" "+last)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"Fred Flintstone"}, names)

	// Quotes survive both renderers.
	for _, render := range []func(Statement) (string, []any, error){
		func(s Statement) (string, []any, error) { q, err := s.ToSQL(); return q, []any{}, err },
		func(s Statement) (string, []any, error) { return s.ToParams() },
	} {
		q, args, err := render(env.Select("psn.pk").From("psn").Where("psn.last_name", "Muad'Dib"))
		require.NoError(t, err)
		rows := &Rows{}
		require.NoError(t, drv.Query(ctx, q, args, rows))
		require.True(t, rows.Next())
		var pk int
		require.NoError(t, rows.Scan(&pk))
		assert.Equal(t, 2, pk)
		require.NoError(t, rows.Close())
	}

	// Reserved words are quoted.
	rows, err = QueryStatement(ctx, drv, env.Select("ord.group").From("ord").Join("usr").On("ord.usr_fk", "usr.pk"))
	require.NoError(t, err)
	require.True(t, rows.Next())
	var group string
	require.NoError(t, rows.Scan(&group))
	assert.Equal(t, "a", group)
	require.NoError(t, rows.Close())

	res, err := ExecStatement(ctx, drv, env.Update("user", P("active", false)).Where(In("pk", 1, 2)))
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = ExecStatement(ctx, drv, env.Delete("order").Where(NotExists(env.Select("usr.pk").From("usr").Where(Expr(`usr.pk = "order".usr_fk`)))))
	require.NoError(t, err)
}

func TestSQLiteConstraintErrors(t *testing.T) {
	drv := openSQLite(t)
	ctx := context.Background()
	env := drv.Env()

	insert := env.Insert("user", P("token", "t", "email", "dup@bedrock.org"))
	_, err := ExecStatement(ctx, drv, insert)
	require.NoError(t, err)

	_, err = ExecStatement(ctx, drv, insert.Clone())
	require.Error(t, err)
	var ce *bricks.ConstraintError
	require.True(t, errors.As(err, &ce), "%v", err)
	assert.Equal(t, bricks.UniqueConstraint, ce.Kind)

	_, err = ExecStatement(ctx, drv, env.Insert("user", P("token", "t", "email", "x@bedrock.org", "psn_fk", 99)))
	require.True(t, errors.As(err, &ce), "%v", err)
	assert.Equal(t, bricks.ForeignKeyConstraint, ce.Kind)
}
