package commands

import (
	"context"

	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"
)

// UpdateLocationCommandHandler changes an order's drop-off point. The domain
// refuses the change once the order is delivering, so the destination can
// never move mid-delivery.
type UpdateLocationCommandHandler struct {
	orders    ports.OrderStore
	publisher ports.EventPublisher
}

// NewUpdateLocationCommandHandler creates a handler for location changes.
func NewUpdateLocationCommandHandler(
	orders ports.OrderStore,
	publisher ports.EventPublisher,
) (UpdateLocationCommandHandler, error) {
	if orders == nil {
		return UpdateLocationCommandHandler{}, errs.NewValueIsRequiredError("orders")
	}
	if publisher == nil {
		return UpdateLocationCommandHandler{}, errs.NewValueIsRequiredError("publisher")
	}

	return UpdateLocationCommandHandler{
		orders:    orders,
		publisher: publisher,
	}, nil
}

// Handle applies the location change and returns the updated order.
func (h *UpdateLocationCommandHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ord, err := h.orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = ord.UpdateLocation(cmd.Location()); err != nil {
		return nil, err
	}
	if err = h.orders.Update(ctx, ord); err != nil {
		return nil, err
	}

	if err = h.publisher.Publish(ctx, events.LocationUpdated{
		OrderID:     cmd.OrderID().String(),
		NewLocation: events.LocationFromDomain(cmd.Location()),
	}); err != nil {
		return nil, err
	}

	return ord, nil
}
