package queries

import (
	"errors"

	"hawker/internal/pkg/guard"
)

var ErrGetActivePickersQueryIsNotConstructed = errors.New(
	"GetActivePickersQuery must be created via NewGetActivePickersQuery constructor",
)

// GetActivePickersQuery retrieves the pickers currently connected to this
// process's notifier.
type GetActivePickersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActivePickersQuery creates a parameterless active-pickers query.
func NewGetActivePickersQuery() GetActivePickersQuery {
	return GetActivePickersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActivePickersQuery) Validate() error {
	return q.guard.Validate(ErrGetActivePickersQueryIsNotConstructed)
}
