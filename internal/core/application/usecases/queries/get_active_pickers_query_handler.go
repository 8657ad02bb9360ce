package queries

import (
	"context"

	"hawker/internal/pkg/errs"
)

// PickerRegistry is the notifier surface the active-pickers query reads.
type PickerRegistry interface {
	// ActivePickerIDs returns the ids of the pickers connected right now.
	ActivePickerIDs() []string
}

// GetActivePickersQueryHandler lists the pickers connected to this process.
type GetActivePickersQueryHandler struct {
	registry PickerRegistry
}

// NewGetActivePickersQueryHandler creates a handler backed by the notifier's
// connection registry.
func NewGetActivePickersQueryHandler(registry PickerRegistry) (GetActivePickersQueryHandler, error) {
	if registry == nil {
		return GetActivePickersQueryHandler{}, errs.NewValueIsRequiredError("registry")
	}

	return GetActivePickersQueryHandler{registry: registry}, nil
}

// Handle returns the connected picker ids.
func (h GetActivePickersQueryHandler) Handle(
	_ context.Context,
	query GetActivePickersQuery,
) ([]string, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.registry.ActivePickerIDs(), nil
}
