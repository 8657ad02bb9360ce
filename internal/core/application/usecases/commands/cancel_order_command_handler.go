package commands

import (
	"context"

	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order. Valid while the order is
// pending, assigned or preparing; once delivering the drop-off is underway
// and cancellation is refused with errs.ErrConflict.
//
// A paid order is refunded through the refund saga before the cancellation
// is announced on the bus.
type CancelOrderCommandHandler struct {
	orders    ports.OrderStore
	payments  Payments
	publisher ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for cancellations.
func NewCancelOrderCommandHandler(
	orders ports.OrderStore,
	payments Payments,
	publisher ports.EventPublisher,
) (CancelOrderCommandHandler, error) {
	if orders == nil {
		return CancelOrderCommandHandler{}, errs.NewValueIsRequiredError("orders")
	}
	if payments == nil {
		return CancelOrderCommandHandler{}, errs.NewValueIsRequiredError("payments")
	}
	if publisher == nil {
		return CancelOrderCommandHandler{}, errs.NewValueIsRequiredError("publisher")
	}

	return CancelOrderCommandHandler{
		orders:    orders,
		payments:  payments,
		publisher: publisher,
	}, nil
}

// Handle cancels the order and returns it in its cancelled state.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ord, err := h.orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = ord.Cancel(); err != nil {
		return nil, err
	}
	if err = h.orders.Update(ctx, ord); err != nil {
		return nil, err
	}

	if ord.IsPaid() {
		if err = h.payments.RefundOrder(ctx, cmd.OrderID()); err != nil {
			return nil, err
		}
	}

	if err = h.publisher.Publish(ctx, events.OrderCancelled{
		OrderID: cmd.OrderID().String(),
	}); err != nil {
		return nil, err
	}

	return ord, nil
}
