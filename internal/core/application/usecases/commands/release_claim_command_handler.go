package commands

import (
	"context"

	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"
)

// ReleaseClaimCommandHandler reverts an assigned order to pending. Only the
// assigned picker may release; the Order Store enforces the match with the
// same conditional-write mechanism the claim uses.
//
// The release is announced as order_returned_to_pending; consumers refetch
// the order and rebroadcast it to their pickers, which restarts the search.
type ReleaseClaimCommandHandler struct {
	orders    ports.OrderStore
	publisher ports.EventPublisher
}

// NewReleaseClaimCommandHandler creates a handler for claim releases.
func NewReleaseClaimCommandHandler(
	orders ports.OrderStore,
	publisher ports.EventPublisher,
) (ReleaseClaimCommandHandler, error) {
	if orders == nil {
		return ReleaseClaimCommandHandler{}, errs.NewValueIsRequiredError("orders")
	}
	if publisher == nil {
		return ReleaseClaimCommandHandler{}, errs.NewValueIsRequiredError("publisher")
	}

	return ReleaseClaimCommandHandler{
		orders:    orders,
		publisher: publisher,
	}, nil
}

// Handle releases the claim and returns the again-pending order.
func (h *ReleaseClaimCommandHandler) Handle(ctx context.Context, cmd ReleaseClaimCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ord, err := h.orders.ReleaseIfAssigned(ctx, cmd.OrderID(), cmd.PickerID())
	if err != nil {
		return nil, err
	}

	if err = h.publisher.Publish(ctx, events.OrderReturnedToPending{
		OrderID:  cmd.OrderID().String(),
		PickerID: cmd.PickerID().String(),
	}); err != nil {
		return nil, err
	}

	return ord, nil
}
