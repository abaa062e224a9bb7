package sql

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/syssam/bricks"
)

// Ident is a column reference used in value position, such as the right-hand
// side of a join condition. It is quoted like any other identifier and never
// bound as an argument.
type Ident string

// Col returns an Ident for the given column name.
func Col(name string) Ident { return Ident(name) }

// Raw is an SQL fragment written to the statement verbatim. It bypasses both
// quoting and escaping; the caller is responsible for its safety.
type Raw string

// timeLayout is the layout used to render time.Time literals.
const timeLayout = "2006-01-02 15:04:05.999999999-07:00"

// escapeString doubles every single quote in s.
func escapeString(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	return strings.ReplaceAll(s, "'", "''")
}

// quoteString returns s as an SQL string literal.
func quoteString(s string) string {
	return "'" + escapeString(s) + "'"
}

// literal returns the inline SQL representation of a scalar value.
func literal(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return quoteString(v), nil
	case []byte:
		return quoteString(string(v)), nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return quoteString(v.Format(timeLayout)), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("bricks: value %T: %w", v, err)
		}
		if _, ok := dv.(driver.Valuer); ok {
			return "", bricks.NewValueError(v)
		}
		return literal(dv)
	case fmt.Stringer:
		return quoteString(v.String()), nil
	default:
		return "", bricks.NewValueError(v)
	}
}

// bindable reports whether v can be sent to a driver as an argument.
func bindable(v any) bool {
	switch v.(type) {
	case nil, string, []byte, bool, time.Time, driver.Valuer,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
