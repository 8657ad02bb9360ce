// Package ports defines the contracts between the coordinator core and its
// collaborators: the four backing stores, the broadcast bus and the real-time
// notifier. These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
)

// OrderStore is the authoritative home of order state. It lives in a separate
// service; every method is a network call with bounded timeout and retry.
type OrderStore interface {
	// Add persists a new order. The order must be valid and not already
	// exist in the store.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier. Returns
	// errs.ErrObjectNotFound when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ClaimIfPending performs the conditional write that resolves the claim
	// race: the store transitions the order from pending to assigned with
	// the given picker only if it is still pending. The first claim to
	// reach the store wins; losing claims receive errs.ErrConflict, which
	// callers treat as the normal rejection path rather than a failure.
	ClaimIfPending(ctx context.Context, orderID, pickerID kernel.UUID) (*order.Order, error)

	// ReleaseIfAssigned reverts an assigned order to pending, clearing the
	// picker, only if it is currently assigned to that picker. A mismatch
	// or a non-assigned status yields errs.ErrConflict.
	ReleaseIfAssigned(ctx context.Context, orderID, pickerID kernel.UUID) (*order.Order, error)

	// GetAllPending retrieves every order currently in pending status.
	// Used to reseed the pending cache on startup and resync.
	GetAllPending(ctx context.Context) ([]*order.Order, error)
}
