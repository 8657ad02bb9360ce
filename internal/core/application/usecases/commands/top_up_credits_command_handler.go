package commands

import (
	"context"

	"hawker/internal/core/domain/model/payment"
	"hawker/internal/pkg/errs"
)

// TopUpCreditsCommandHandler credits a customer balance through the top-up
// saga and returns the resulting ledger entry.
type TopUpCreditsCommandHandler struct {
	payments Payments
}

// NewTopUpCreditsCommandHandler creates a handler for balance top-ups.
func NewTopUpCreditsCommandHandler(payments Payments) (TopUpCreditsCommandHandler, error) {
	if payments == nil {
		return TopUpCreditsCommandHandler{}, errs.NewValueIsRequiredError("payments")
	}

	return TopUpCreditsCommandHandler{
		payments: payments,
	}, nil
}

// Handle runs the top-up and returns the journal entry.
func (h *TopUpCreditsCommandHandler) Handle(ctx context.Context, cmd TopUpCreditsCommand) (*payment.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.payments.TopUp(ctx, cmd.CustomerID(), cmd.Amount())
}
