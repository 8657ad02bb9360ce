package commands

import (
	"errors"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/pkg/errs"
	"hawker/internal/pkg/guard"
)

var ErrTopUpCreditsCommandIsNotConstructed = errors.New(
	"TopUpCreditsCommand must be created via NewTopUpCreditsCommand constructor",
)

// TopUpCreditsCommand represents a customer adding credits to their balance.
type TopUpCreditsCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	amount     kernel.Money

	guard guard.ConstructorGuard
}

// NewTopUpCreditsCommand creates a top-up command. The amount must be
// strictly positive.
func NewTopUpCreditsCommand(customerID kernel.UUID, amount kernel.Money) (TopUpCreditsCommand, error) {
	cmd := TopUpCreditsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setAmount(amount),
	); err != nil {
		return TopUpCreditsCommand{}, err
	}

	return cmd, nil
}

// Validate checks that the command was created through the constructor.
func (c TopUpCreditsCommand) Validate() error {
	return c.guard.Validate(ErrTopUpCreditsCommandIsNotConstructed)
}

// CustomerID returns the customer's identifier.
func (c TopUpCreditsCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Amount returns the credited amount.
func (c TopUpCreditsCommand) Amount() kernel.Money {
	return c.amount
}

func (c *TopUpCreditsCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	c.customerID = customerID
	return nil
}

func (c *TopUpCreditsCommand) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidError("top-up amount must be greater than 0")
	}
	c.amount = amount
	return nil
}
