package ports

import (
	"context"

	"hawker/internal/core/domain/model/kernel"
)

// CustomerStore exposes the customer credit balance as a read-modify-write
// pair. The store offers no compare-and-swap; the saga orchestrator relies on
// compensation rather than atomicity.
type CustomerStore interface {
	// GetCredits reads the customer's current credit balance. Returns
	// errs.ErrObjectNotFound for an unknown customer.
	GetCredits(ctx context.Context, customerID kernel.UUID) (kernel.Money, error)

	// SetCredits overwrites the customer's credit balance.
	SetCredits(ctx context.Context, customerID kernel.UUID, balance kernel.Money) error
}

// PickerStore exposes the picker credit balance the same way.
type PickerStore interface {
	// GetCredits reads the picker's current credit balance. Returns
	// errs.ErrObjectNotFound for an unknown picker.
	GetCredits(ctx context.Context, pickerID kernel.UUID) (kernel.Money, error)

	// SetCredits overwrites the picker's credit balance.
	SetCredits(ctx context.Context, pickerID kernel.UUID, balance kernel.Money) error
}
