// Package errs provides standardized error types for the coordinator.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// The set maps onto the HTTP surface: required/invalid/out-of-range values are
// 400s, ObjectNotFound is 404, Conflict is 409, InsufficientFunds is a 400
// that also terminates the running payment saga, and CollaboratorUnavailable
// is a 503 surfaced only after bounded retries.
package errs
