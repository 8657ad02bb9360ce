package commands

import (
	"errors"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/pkg/errs"
	"hawker/internal/pkg/guard"
)

var ErrReleaseClaimCommandIsNotConstructed = errors.New(
	"ReleaseClaimCommand must be created via NewReleaseClaimCommand constructor",
)

// ReleaseClaimCommand represents a picker giving an assigned order back to
// the pending pool.
type ReleaseClaimCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	pickerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReleaseClaimCommand creates a release command.
func NewReleaseClaimCommand(orderID, pickerID kernel.UUID) (ReleaseClaimCommand, error) {
	cmd := ReleaseClaimCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPickerID(pickerID),
	); err != nil {
		return ReleaseClaimCommand{}, err
	}

	return cmd, nil
}

// Validate checks that the command was created through the constructor.
func (c ReleaseClaimCommand) Validate() error {
	return c.guard.Validate(ErrReleaseClaimCommandIsNotConstructed)
}

// OrderID returns the released order's identifier.
func (c ReleaseClaimCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PickerID returns the releasing picker's identifier.
func (c ReleaseClaimCommand) PickerID() kernel.UUID {
	return c.pickerID
}

func (c *ReleaseClaimCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *ReleaseClaimCommand) setPickerID(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickerId", err)
	}
	c.pickerID = pickerID
	return nil
}
