package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/syssam/bricks"
)

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// ClassifyError wraps a database constraint violation in a
// bricks.ConstraintError of the matching kind. Other errors are returned
// unchanged.
func ClassifyError(err error) error {
	if err == nil || bricks.IsConstraintError(err) {
		return err
	}
	if kind, ok := constraintKind(err); ok {
		return bricks.NewConstraintError(kind, err)
	}
	return err
}

func constraintKind(err error) (bricks.ConstraintKind, bool) {
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch string(pe.Code) {
		case pgUniqueViolation:
			return bricks.UniqueConstraint, true
		case pgForeignKeyViolation:
			return bricks.ForeignKeyConstraint, true
		case pgCheckViolation:
			return bricks.CheckConstraint, true
		}
		return "", false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return bricks.UniqueConstraint, true
		case mysqlForeignKeyParent, mysqlForeignKeyChild:
			return bricks.ForeignKeyConstraint, true
		case mysqlCheckConstraintViolate:
			return bricks.CheckConstraint, true
		}
		return "", false
	}
	// SQLite, and drivers without typed errors.
	msg := err.Error()
	switch {
	case containsAny(msg, "UNIQUE constraint failed", "violates unique constraint", "Error 1062"):
		return bricks.UniqueConstraint, true
	case containsAny(msg, "FOREIGN KEY constraint failed", "violates foreign key constraint", "Error 1451", "Error 1452"):
		return bricks.ForeignKeyConstraint, true
	case containsAny(msg, "CHECK constraint failed", "violates check constraint", "Error 3819"):
		return bricks.CheckConstraint, true
	}
	return "", false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
