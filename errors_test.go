package bricks_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/bricks"
)

func TestCriteriaError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := bricks.NewCriteriaError(42)
		assert.Equal(t, "bricks: malformed criteria: unexpected int (42)", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := bricks.NewCriteriaError("x")
		assert.True(t, errors.Is(err, bricks.ErrMalformedCriteria))
		assert.False(t, errors.Is(err, bricks.ErrUnresolvableJoin))
	})

	t.Run("IsCriteriaError", func(t *testing.T) {
		err := bricks.NewCriteriaError(nil)
		assert.True(t, bricks.IsCriteriaError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, bricks.IsCriteriaError(wrapped))

		// Sentinel error
		assert.True(t, bricks.IsCriteriaError(bricks.ErrMalformedCriteria))

		// Non-matching error
		assert.False(t, bricks.IsCriteriaError(errors.New("other error")))
		assert.False(t, bricks.IsCriteriaError(nil))
	})
}

func TestJoinError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := bricks.NewJoinError("usr", "psn", "no criteria")
		assert.Equal(t, `bricks: unresolvable join "usr" -> "psn": no criteria`, err.Error())

		err = bricks.NewJoinError("", "psn", "no table to join with")
		assert.Equal(t, `bricks: unresolvable join to "psn": no table to join with`, err.Error())
	})

	t.Run("IsJoinError", func(t *testing.T) {
		err := bricks.NewJoinError("usr", "psn", "no criteria")
		assert.True(t, errors.Is(err, bricks.ErrUnresolvableJoin))
		assert.True(t, bricks.IsJoinError(fmt.Errorf("select: %w", err)))
		assert.True(t, bricks.IsJoinError(bricks.ErrUnresolvableJoin))
		assert.False(t, bricks.IsJoinError(bricks.ErrUnknownView))
		assert.False(t, bricks.IsJoinError(nil))

		var je *bricks.JoinError
		require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &je))
		assert.Equal(t, "psn", je.Right)
	})
}

func TestViewError(t *testing.T) {
	t.Run("Unknown", func(t *testing.T) {
		err := bricks.NewUnknownViewError("activeUsers")
		assert.Equal(t, `bricks: unknown view "activeUsers"`, err.Error())
		assert.True(t, errors.Is(err, bricks.ErrUnknownView))
		assert.False(t, errors.Is(err, bricks.ErrViewExists))
	})

	t.Run("Exists", func(t *testing.T) {
		err := bricks.NewViewExistsError("activeUsers")
		assert.Equal(t, `bricks: view "activeUsers" already defined`, err.Error())
		assert.True(t, errors.Is(err, bricks.ErrViewExists))
		assert.False(t, errors.Is(err, bricks.ErrUnknownView))
	})

	t.Run("IsViewError", func(t *testing.T) {
		assert.True(t, bricks.IsViewError(fmt.Errorf("wrap: %w", bricks.NewUnknownViewError("v"))))
		assert.False(t, bricks.IsViewError(bricks.ErrUnknownView))
		assert.False(t, bricks.IsViewError(nil))
	})
}

func TestValueError(t *testing.T) {
	err := bricks.NewValueError(struct{}{})
	assert.Equal(t, "bricks: unsupported value type struct {}", err.Error())
	assert.True(t, errors.Is(err, bricks.ErrUnsupportedValue))
}

func TestStatementError(t *testing.T) {
	err := bricks.NewStatementError("update", "no SET assignments for table %q", "user")
	assert.Equal(t, `bricks: update: no SET assignments for table "user"`, err.Error())
	assert.Equal(t, "update", err.Op)
	assert.True(t, errors.Is(err, bricks.ErrInvalidStatement))
}

func TestConstraintError(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: user.email")
	err := bricks.NewConstraintError(bricks.UniqueConstraint, cause)

	assert.Equal(t, "bricks: unique constraint failed: UNIQUE constraint failed: user.email", err.Error())
	assert.True(t, errors.Is(err, bricks.ErrConstraint))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, bricks.IsConstraintError(fmt.Errorf("exec: %w", err)))
	assert.False(t, bricks.IsConstraintError(cause))
	assert.False(t, bricks.IsConstraintError(nil))
}

func TestAggregateError(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.NoError(t, bricks.NewAggregateError())
		assert.NoError(t, bricks.NewAggregateError(nil, nil))
	})

	t.Run("Single", func(t *testing.T) {
		err := bricks.NewJoinError("a", "b", "x")
		got := bricks.NewAggregateError(nil, err)
		assert.Same(t, err, got)
	})

	t.Run("Multiple", func(t *testing.T) {
		got := bricks.NewAggregateError(
			bricks.NewCriteriaError(1),
			bricks.NewUnknownViewError("v"),
		)
		var agg *bricks.AggregateError
		require.True(t, errors.As(got, &agg))
		assert.Len(t, agg.Errors, 2)
		assert.True(t, errors.Is(got, bricks.ErrMalformedCriteria))
		assert.True(t, errors.Is(got, bricks.ErrUnknownView))
		assert.Contains(t, got.Error(), "bricks: multiple errors:")
		assert.Contains(t, got.Error(), `[2] bricks: unknown view "v"`)
	})
}
