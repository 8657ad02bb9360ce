package commands

import (
	"context"

	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"
)

// ClaimOrderCommandHandler resolves the claim race. The Order Store performs
// the pending-to-assigned transition as a single conditional write; the
// first claim to reach it wins and every later claim gets errs.ErrConflict.
//
// The winning claim is announced on the bus as a picker_acceptance event.
// Cache eviction and client notification happen when that event is consumed,
// in this process like in every other, so the handler itself never touches
// the pending cache.
type ClaimOrderCommandHandler struct {
	orders    ports.OrderStore
	publisher ports.EventPublisher
}

// NewClaimOrderCommandHandler creates a handler for claim attempts.
func NewClaimOrderCommandHandler(
	orders ports.OrderStore,
	publisher ports.EventPublisher,
) (ClaimOrderCommandHandler, error) {
	if orders == nil {
		return ClaimOrderCommandHandler{}, errs.NewValueIsRequiredError("orders")
	}
	if publisher == nil {
		return ClaimOrderCommandHandler{}, errs.NewValueIsRequiredError("publisher")
	}

	return ClaimOrderCommandHandler{
		orders:    orders,
		publisher: publisher,
	}, nil
}

// Handle attempts the claim and returns the assigned order on success.
// A losing claim surfaces as errs.ErrConflict.
func (h *ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ord, err := h.orders.ClaimIfPending(ctx, cmd.OrderID(), cmd.PickerID())
	if err != nil {
		return nil, err
	}

	if err = h.publisher.Publish(ctx, events.PickerAcceptance{
		OrderID:  cmd.OrderID().String(),
		PickerID: cmd.PickerID().String(),
	}); err != nil {
		return nil, err
	}

	return ord, nil
}
