package commands

import (
	"errors"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/pkg/errs"
	"hawker/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand represents a picker's attempt to take a pending order.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	pickerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimOrderCommand creates a claim command.
func NewClaimOrderCommand(orderID, pickerID kernel.UUID) (ClaimOrderCommand, error) {
	cmd := ClaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPickerID(pickerID),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return cmd, nil
}

// Validate checks that the command was created through the constructor.
func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

// OrderID returns the claimed order's identifier.
func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PickerID returns the claiming picker's identifier.
func (c ClaimOrderCommand) PickerID() kernel.UUID {
	return c.pickerID
}

func (c *ClaimOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *ClaimOrderCommand) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickerId", err)
	}
	c.pickerID = pickerID
	return nil
}
