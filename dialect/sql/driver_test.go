package sql

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/bricks"
	"github.com/syssam/bricks/dialect"
)

func TestOpenDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)
	require.NotNil(t, drv)
	assert.Equal(t, dialect.Postgres, drv.Dialect())
	assert.Equal(t, db, drv.DB())

	mock.ExpectClose()
	require.NoError(t, drv.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDialectMethod(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"postgres", dialect.Postgres},
		{"mysql", dialect.MySQL},
		{"sqlite", dialect.SQLite},
		{"sqlite3", dialect.SQLite},
		{"postgres-otel", dialect.Postgres},
		{"unknown", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv := &Driver{dialect: tt.name}
			assert.Equal(t, tt.want, drv.Dialect())
		})
	}
}

func TestDriverEnv(t *testing.T) {
	drv := &Driver{dialect: "sqlite3"}
	env := drv.Env(WithAbbrevs(map[string]string{"usr": "user"}))
	q, args, err := env.Select().From("usr").Where("usr.id", 1).ToParams()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM user usr WHERE usr.id = ?", q)
	assert.Equal(t, []any{1}, args)
}

func TestQueryStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM user WHERE name = $1")).
		WithArgs("Fred").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Fred").AddRow(2, "Fred"))

	rows, err := QueryStatement(context.Background(), drv, drv.Env().Select("id", "name").From("user").Where("name", "Fred"))
	require.NoError(t, err)
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var (
			id   int
			name string
		)
		require.NoError(t, rows.Scan(&id, &name))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{1, 2}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)
	env := drv.Env()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user (first_name, last_name) VALUES ($1, $2)")).
		WithArgs("Fred", "Flintstone").
		WillReturnResult(sqlmock.NewResult(1, 1))
	res, err := ExecStatement(context.Background(), drv, env.Insert("user", P("first_name", "Fred", "last_name", "Flintstone")))
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE user SET active = $1 WHERE id = $2")).
		WithArgs(false, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = ExecStatement(context.Background(), drv, env.Update("user").Set("active", false).Where("id", 1))
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecStatementRenderError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)

	// Nothing reaches the database.
	_, err = ExecStatement(context.Background(), drv, Update("user"))
	assert.True(t, errors.Is(err, bricks.ErrInvalidStatement))
	_, err = QueryStatement(context.Background(), drv, Select().From("user").Where(1))
	assert.True(t, errors.Is(err, bricks.ErrMalformedCriteria))
	_, err = ExecStatement(context.Background(), drv, nil)
	assert.ErrorIs(t, err, ErrNoStatement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)
	env := drv.Env()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session WHERE user_id = $1")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	res, err := ExecStatement(context.Background(), tx, env.Delete("session").Where("user_id", 7))
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectBegin()
	mock.ExpectRollback()
	tx, err = drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnInvalidTypes(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)

	err = drv.Exec(context.Background(), "SELECT 1", "not a slice", nil)
	assert.ErrorContains(t, err, "expect []any for args")

	var n int
	err = drv.Exec(context.Background(), "SELECT 1", []any{}, &n)
	assert.ErrorContains(t, err, "expect *sql.Result")

	err = drv.Query(context.Background(), "SELECT 1", []any{}, &n)
	assert.ErrorContains(t, err, "expect *sql.Rows")
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind bricks.ConstraintKind
	}{
		{"pq unique", &pq.Error{Code: "23505"}, bricks.UniqueConstraint},
		{"pq foreign key", &pq.Error{Code: "23503"}, bricks.ForeignKeyConstraint},
		{"pq check", &pq.Error{Code: "23514"}, bricks.CheckConstraint},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, bricks.UniqueConstraint},
		{"mysql parent", &mysql.MySQLError{Number: 1451}, bricks.ForeignKeyConstraint},
		{"mysql child", &mysql.MySQLError{Number: 1452}, bricks.ForeignKeyConstraint},
		{"mysql check", &mysql.MySQLError{Number: 3819}, bricks.CheckConstraint},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: user.email (2067)"), bricks.UniqueConstraint},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), bricks.ForeignKeyConstraint},
		{"sqlite check", errors.New("CHECK constraint failed: age > 0"), bricks.CheckConstraint},
		{"wrapped", fmt.Errorf("exec: %w", &pq.Error{Code: "23505"}), bricks.UniqueConstraint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyError(tt.err)
			var ce *bricks.ConstraintError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.kind, ce.Kind)
			assert.True(t, errors.Is(err, tt.err))
		})
	}

	t.Run("unrelated", func(t *testing.T) {
		for _, err := range []error{
			nil,
			errors.New("connection refused"),
			&pq.Error{Code: "42601"},
			&mysql.MySQLError{Number: 1064},
		} {
			assert.Equal(t, err, ClassifyError(err))
		}
	})

	t.Run("already classified", func(t *testing.T) {
		err := bricks.NewConstraintError(bricks.UniqueConstraint, errors.New("x"))
		assert.Same(t, err, ClassifyError(err))
	})
}

func TestExecClassifiesErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)

	mock.ExpectExec("INSERT INTO user").WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key"})
	_, err = ExecStatement(context.Background(), drv, Insert("user", P("email", "a@b.c")))
	assert.True(t, bricks.IsConstraintError(err))
	assert.True(t, errors.Is(err, bricks.ErrConstraint))

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))
	_, err = QueryStatement(context.Background(), drv, Select().From("user"))
	assert.EqualError(t, err, "dialect/sql: query: boom")
	assert.False(t, bricks.IsConstraintError(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
