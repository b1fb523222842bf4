// Package errs provides the typed errors shared by the fulfillment engine.
//
// Validation errors:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//
// Engine errors, returned typed so callers can pick retry vs. surface:
//   - ObjectNotFoundError: order, driver or payout is absent
//   - ConflictError: a race was lost (claim taken, payout pending, stale version)
//   - InvalidTransitionError: an illegal order state edge was attempted
//   - EmptyError: there is nothing to batch
//   - UnauthorizedError: the caller may not act on the resource
//   - InfrastructureError: storage or network failure
//
// Every type has a sentinel (ErrX), a struct with the details, NewX and
// NewXWithCause constructors, Error() and an Unwrap() that returns the
// sentinel, so errors.Is(err, errs.ErrConflict) works through fmt.Errorf
// wrapping and errors.As recovers the details.
package errs
