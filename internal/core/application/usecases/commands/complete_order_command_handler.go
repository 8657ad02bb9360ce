package commands

import (
	"context"

	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"
)

// CompleteOrderCommandHandler marks an order delivered, pays the picker the
// flat delivery fee through the picker-credit saga and announces the
// completion on the bus.
type CompleteOrderCommandHandler struct {
	orders    ports.OrderStore
	payments  Payments
	publisher ports.EventPublisher
}

// NewCompleteOrderCommandHandler creates a handler for completions.
func NewCompleteOrderCommandHandler(
	orders ports.OrderStore,
	payments Payments,
	publisher ports.EventPublisher,
) (CompleteOrderCommandHandler, error) {
	if orders == nil {
		return CompleteOrderCommandHandler{}, errs.NewValueIsRequiredError("orders")
	}
	if payments == nil {
		return CompleteOrderCommandHandler{}, errs.NewValueIsRequiredError("payments")
	}
	if publisher == nil {
		return CompleteOrderCommandHandler{}, errs.NewValueIsRequiredError("publisher")
	}

	return CompleteOrderCommandHandler{
		orders:    orders,
		payments:  payments,
		publisher: publisher,
	}, nil
}

// Handle completes the order and returns it in its completed state.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ord, err := h.orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = ord.Complete(); err != nil {
		return nil, err
	}
	if err = h.orders.Update(ctx, ord); err != nil {
		return nil, err
	}

	if _, err = h.payments.CreditPickerFee(ctx, ord); err != nil {
		return nil, err
	}

	if err = h.publisher.Publish(ctx, events.OrderCompleted{
		OrderID:    ord.ID().String(),
		CustomerID: ord.CustomerID().String(),
		PickerID:   ord.PickerID().String(),
	}); err != nil {
		return nil, err
	}

	return ord, nil
}
