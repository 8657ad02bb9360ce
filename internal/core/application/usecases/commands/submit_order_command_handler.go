package commands

import (
	"context"

	"hawker/internal/core/application/pending"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/domain/model/payment"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"
)

// SubmitOrderCommandHandler places an order: creates it in the Order Store,
// runs the debit saga against the order total, and announces the paid order
// to the picker pool over the bus.
//
// If the debit fails, the order is cancelled in the store and the payment
// error is returned to the caller. If a later step fails after the debit
// succeeded, the charge is refunded and the order cancelled, so a failed
// submission never leaves the customer out of pocket.
type SubmitOrderCommandHandler struct {
	orders       ports.OrderStore
	payments     Payments
	publisher    ports.EventPublisher
	pendingCache *pending.Cache
}

// NewSubmitOrderCommandHandler creates a handler for order submission.
func NewSubmitOrderCommandHandler(
	orders ports.OrderStore,
	payments Payments,
	publisher ports.EventPublisher,
	pendingCache *pending.Cache,
) (SubmitOrderCommandHandler, error) {
	if orders == nil {
		return SubmitOrderCommandHandler{}, errs.NewValueIsRequiredError("orders")
	}
	if payments == nil {
		return SubmitOrderCommandHandler{}, errs.NewValueIsRequiredError("payments")
	}
	if publisher == nil {
		return SubmitOrderCommandHandler{}, errs.NewValueIsRequiredError("publisher")
	}
	if pendingCache == nil {
		return SubmitOrderCommandHandler{}, errs.NewValueIsRequiredError("pendingCache")
	}

	return SubmitOrderCommandHandler{
		orders:       orders,
		payments:     payments,
		publisher:    publisher,
		pendingCache: pendingCache,
	}, nil
}

// Handle processes the submission and returns the created order.
func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ord, err := order.NewOrder(kernel.NewUUID(), cmd.CustomerID(), cmd.StallID(),
		cmd.Items(), cmd.Location())
	if err != nil {
		return nil, err
	}

	if err = h.orders.Add(ctx, ord); err != nil {
		return nil, err
	}

	entry, err := h.payments.Debit(ctx, ord)
	if err != nil {
		h.cancelUnpaid(ctx, ord)
		return nil, err
	}

	amount, err := entry.AbsAmount()
	if err != nil {
		h.compensateDebit(ctx, ord, entry)
		return nil, err
	}
	if err = ord.MarkPaid(amount); err != nil {
		h.compensateDebit(ctx, ord, entry)
		return nil, err
	}
	if err = h.orders.Update(ctx, ord); err != nil {
		h.compensateDebit(ctx, ord, entry)
		return nil, err
	}

	snapshot, err := events.SnapshotFromOrder(ord)
	if err != nil {
		h.compensateDebit(ctx, ord, entry)
		return nil, err
	}
	h.pendingCache.Upsert(snapshot)

	if err = h.publisher.Publish(ctx, events.NewOrder{
		OrderID: snapshot.OrderID,
		Order:   snapshot,
	}); err != nil {
		h.compensateDebit(ctx, ord, entry)
		return nil, err
	}

	return ord, nil
}

// cancelUnpaid voids an order whose debit failed. Errors here do not mask
// the payment error.
func (h *SubmitOrderCommandHandler) cancelUnpaid(ctx context.Context, ord *order.Order) {
	if err := ord.Cancel(); err != nil {
		return
	}
	_ = h.orders.Update(ctx, ord)
}

// compensateDebit unwinds a submission that failed after the customer was
// already charged: the order leaves the local pending pool and the captured
// payment is reversed through the refund saga, which also cancels the order
// in the store. If the refund itself fails the ledger entry survives for a
// manual refund, and the order is still cancelled so it cannot be claimed.
// Errors here do not mask the error that triggered the unwind.
func (h *SubmitOrderCommandHandler) compensateDebit(ctx context.Context, ord *order.Order, entry *payment.Transaction) {
	h.pendingCache.Remove(ord.ID().String())
	if err := h.payments.Refund(ctx, entry.LogID()); err != nil {
		h.cancelUnpaid(ctx, ord)
	}
}
