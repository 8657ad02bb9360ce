package commands

import (
	"context"

	"hawker/internal/pkg/errs"
)

// RefundPaymentCommandHandler runs the refund saga for one ledger entry.
// Refunding an already refunded entry is a successful no-op.
type RefundPaymentCommandHandler struct {
	payments Payments
}

// NewRefundPaymentCommandHandler creates a handler for explicit refunds.
func NewRefundPaymentCommandHandler(payments Payments) (RefundPaymentCommandHandler, error) {
	if payments == nil {
		return RefundPaymentCommandHandler{}, errs.NewValueIsRequiredError("payments")
	}

	return RefundPaymentCommandHandler{
		payments: payments,
	}, nil
}

// Handle runs the refund.
func (h *RefundPaymentCommandHandler) Handle(ctx context.Context, cmd RefundPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.payments.Refund(ctx, cmd.LogID())
}
