package bricks

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for statement building and rendering.
var (
	// ErrMalformedCriteria is returned when a value passed where criteria was
	// expected is neither a mapping nor a criteria node.
	ErrMalformedCriteria = errors.New("bricks: malformed criteria")

	// ErrUnresolvableJoin is returned when a join has no ON clause and no
	// criteria could be inferred for it.
	ErrUnresolvableJoin = errors.New("bricks: unresolvable join")

	// ErrUnknownView is returned when a statement references an undefined view.
	ErrUnknownView = errors.New("bricks: unknown view")

	// ErrViewExists is returned when a view name is defined twice.
	ErrViewExists = errors.New("bricks: view already defined")

	// ErrUnsupportedValue is returned when a value cannot be rendered as SQL.
	ErrUnsupportedValue = errors.New("bricks: unsupported value")

	// ErrInvalidStatement is returned when a statement is missing a required clause.
	ErrInvalidStatement = errors.New("bricks: invalid statement")

	// ErrConstraint is returned when the database rejects a statement because
	// of a constraint violation.
	ErrConstraint = errors.New("bricks: constraint failed")
)

// CriteriaError represents a malformed criteria argument.
type CriteriaError struct {
	Value any // The offending argument
}

// Error returns the error string.
func (e *CriteriaError) Error() string {
	return fmt.Sprintf("bricks: malformed criteria: unexpected %T (%v)", e.Value, e.Value)
}

// Is reports whether the target error matches CriteriaError.
func (e *CriteriaError) Is(err error) bool {
	return err == ErrMalformedCriteria
}

// NewCriteriaError returns a new CriteriaError for the given argument.
func NewCriteriaError(v any) *CriteriaError {
	return &CriteriaError{Value: v}
}

// IsCriteriaError returns true if the error is a CriteriaError.
func IsCriteriaError(err error) bool {
	if err == nil {
		return false
	}
	var e *CriteriaError
	return errors.As(err, &e) || errors.Is(err, ErrMalformedCriteria)
}

// JoinError represents a join whose ON condition could not be resolved.
type JoinError struct {
	Left   string // Left-hand alias, empty if the join had no left side
	Right  string // Right-hand alias
	Reason string
}

// Error returns the error string.
func (e *JoinError) Error() string {
	if e.Left == "" {
		return fmt.Sprintf("bricks: unresolvable join to %q: %s", e.Right, e.Reason)
	}
	return fmt.Sprintf("bricks: unresolvable join %q -> %q: %s", e.Left, e.Right, e.Reason)
}

// Is reports whether the target error matches JoinError.
func (e *JoinError) Is(err error) bool {
	return err == ErrUnresolvableJoin
}

// NewJoinError returns a new JoinError.
func NewJoinError(left, right, reason string) *JoinError {
	return &JoinError{Left: left, Right: right, Reason: reason}
}

// IsJoinError returns true if the error is a JoinError.
func IsJoinError(err error) bool {
	if err == nil {
		return false
	}
	var e *JoinError
	return errors.As(err, &e) || errors.Is(err, ErrUnresolvableJoin)
}

// ViewError represents a failure to define or instantiate a view.
type ViewError struct {
	Name string
	err  error // ErrUnknownView or ErrViewExists
}

// Error returns the error string.
func (e *ViewError) Error() string {
	if errors.Is(e.err, ErrViewExists) {
		return fmt.Sprintf("bricks: view %q already defined", e.Name)
	}
	return fmt.Sprintf("bricks: unknown view %q", e.Name)
}

// Unwrap returns the underlying sentinel.
func (e *ViewError) Unwrap() error {
	return e.err
}

// NewUnknownViewError returns a ViewError for a reference to an undefined view.
func NewUnknownViewError(name string) *ViewError {
	return &ViewError{Name: name, err: ErrUnknownView}
}

// NewViewExistsError returns a ViewError for a duplicate definition.
func NewViewExistsError(name string) *ViewError {
	return &ViewError{Name: name, err: ErrViewExists}
}

// IsViewError returns true if the error is a ViewError.
func IsViewError(err error) bool {
	if err == nil {
		return false
	}
	var e *ViewError
	return errors.As(err, &e)
}

// ValueError represents a value that has no SQL representation.
type ValueError struct {
	Value any
}

// Error returns the error string.
func (e *ValueError) Error() string {
	return fmt.Sprintf("bricks: unsupported value type %T", e.Value)
}

// Is reports whether the target error matches ValueError.
func (e *ValueError) Is(err error) bool {
	return err == ErrUnsupportedValue
}

// NewValueError returns a new ValueError.
func NewValueError(v any) *ValueError {
	return &ValueError{Value: v}
}

// StatementError represents a statement that cannot be rendered as built.
type StatementError struct {
	Op  string // Statement kind (e.g., "insert", "update")
	Msg string
}

// Error returns the error string.
func (e *StatementError) Error() string {
	return fmt.Sprintf("bricks: %s: %s", e.Op, e.Msg)
}

// Is reports whether the target error matches StatementError.
func (e *StatementError) Is(err error) bool {
	return err == ErrInvalidStatement
}

// NewStatementError returns a new StatementError.
func NewStatementError(op, format string, args ...any) *StatementError {
	return &StatementError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ConstraintKind identifies the constraint a database rejected.
type ConstraintKind string

// Constraint kinds reported by ConstraintError.
const (
	UniqueConstraint     ConstraintKind = "unique"
	ForeignKeyConstraint ConstraintKind = "foreign key"
	CheckConstraint      ConstraintKind = "check"
)

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	Kind ConstraintKind
	wrap error
}

// Error returns the error string.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("bricks: %s constraint failed: %v", e.Kind, e.wrap)
}

// Unwrap returns the underlying driver error.
func (e *ConstraintError) Unwrap() error {
	return e.wrap
}

// Is reports whether the target error matches ConstraintError.
func (e *ConstraintError) Is(err error) bool {
	return err == ErrConstraint
}

// NewConstraintError returns a new ConstraintError wrapping the driver error.
func NewConstraintError(kind ConstraintKind, wrap error) *ConstraintError {
	return &ConstraintError{Kind: kind, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConstraintError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected while building a statement.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "bricks: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("bricks: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors so errors.Is and errors.As see each of them.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
