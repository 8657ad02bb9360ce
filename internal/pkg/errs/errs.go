package errs

import (
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is. Each typed error below
// unwraps to exactly one of these.
var (
	ErrValueIsRequired         = fmt.Errorf("value is required")
	ErrValueIsInvalid          = fmt.Errorf("value is invalid")
	ErrValueIsOutOfRange       = fmt.Errorf("value is out of range")
	ErrObjectNotFound          = fmt.Errorf("object not found")
	ErrConflict                = fmt.Errorf("state conflict")
	ErrInsufficientFunds       = fmt.Errorf("insufficient funds")
	ErrCollaboratorUnavailable = fmt.Errorf("collaborator unavailable")
)

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%s", v), "\n", " ")
}

// ValueIsRequiredError reports a missing required value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError reports a malformed or semantically invalid value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside its permitted bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value any, minValue any, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value any, minValue any, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError reports a lookup for an unknown identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ConflictError reports an operation refused because of the object's current
// state: a claim that lost the race, or a status transition the lifecycle does
// not allow. Conflicts are expected outcomes, not defects, and are never
// retried.
type ConflictError struct {
	Operation string
	Details   string
	Cause     error
}

func NewConflictError(operation string, details string) *ConflictError {
	return &ConflictError{Operation: operation, Details: details}
}

func NewConflictErrorWithCause(operation string, details string, cause error) *ConflictError {
	return &ConflictError{Operation: operation, Details: details, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (cause: %s)", ErrConflict, e.Operation, e.Details, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConflict, e.Operation, e.Details)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// InsufficientFundsError reports a debit larger than the available balance.
// It is definitive: retrying cannot succeed, so it terminates the running saga
// and triggers compensation.
type InsufficientFundsError struct {
	CustomerID string
	Required   string
	Available  string
}

func NewInsufficientFundsError(customerID string, required string, available string) *InsufficientFundsError {
	return &InsufficientFundsError{CustomerID: customerID, Required: required, Available: available}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: customer %s has %s, needs %s",
		ErrInsufficientFunds, e.CustomerID, e.Available, e.Required)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// CollaboratorUnavailableError reports a timeout or connection failure talking
// to an external store or the broadcast bus, after bounded retries were
// exhausted. Unlike a ConflictError it says nothing about the operation's
// validity.
type CollaboratorUnavailableError struct {
	Service string
	Cause   error
}

func NewCollaboratorUnavailableError(service string, cause error) *CollaboratorUnavailableError {
	return &CollaboratorUnavailableError{Service: service, Cause: cause}
}

func (e *CollaboratorUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrCollaboratorUnavailable, e.Service, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrCollaboratorUnavailable, e.Service)
}

func (e *CollaboratorUnavailableError) Unwrap() error {
	return ErrCollaboratorUnavailable
}
