package commands

import (
	"errors"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/pkg/errs"
	"hawker/internal/pkg/guard"
)

var ErrRefundPaymentCommandIsNotConstructed = errors.New(
	"RefundPaymentCommand must be created via NewRefundPaymentCommand constructor",
)

// RefundPaymentCommand represents an explicit refund request for a payment
// ledger entry.
type RefundPaymentCommand struct { //nolint:recvcheck //using for validation
	logID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefundPaymentCommand creates a refund command.
func NewRefundPaymentCommand(logID kernel.UUID) (RefundPaymentCommand, error) {
	cmd := RefundPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setLogID(logID); err != nil {
		return RefundPaymentCommand{}, err
	}

	return cmd, nil
}

// Validate checks that the command was created through the constructor.
func (c RefundPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRefundPaymentCommandIsNotConstructed)
}

// LogID returns the refunded ledger entry's identifier.
func (c RefundPaymentCommand) LogID() kernel.UUID {
	return c.logID
}

func (c *RefundPaymentCommand) setLogID(logID kernel.UUID) error {
	if err := logID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("logId", err)
	}
	c.logID = logID
	return nil
}
