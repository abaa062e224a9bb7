// Package bricks holds the error taxonomy shared by the statement builder in
// dialect/sql and the dialect adapters.
//
// Building a statement never fails eagerly. Misuse is recorded on the builder
// and reported by the render call, so a statement either renders completely or
// returns one of the errors below:
//
//   - ErrMalformedCriteria: a WHERE/ON argument that is neither a mapping nor criteria
//   - ErrUnresolvableJoin: a JOIN without ON and without inferable criteria
//   - ErrUnknownView: a reference to a view that was never defined
//   - ErrUnsupportedValue: a value with no SQL representation
//   - ErrInvalidStatement: a statement missing a required clause
//
// Each sentinel has a typed counterpart carrying context, matched with
// errors.Is against the sentinel or with the IsX helpers.
package bricks
