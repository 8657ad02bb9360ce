package commands

import (
	"errors"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/pkg/errs"
	"hawker/internal/pkg/guard"
)

var ErrUpdateLocationCommandIsNotConstructed = errors.New(
	"UpdateLocationCommand must be created via NewUpdateLocationCommand constructor",
)

// UpdateLocationCommand represents a customer moving the drop-off point of
// an order that has not gone out for delivery yet.
type UpdateLocationCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	location kernel.Location

	guard guard.ConstructorGuard
}

// NewUpdateLocationCommand creates a location-change command.
func NewUpdateLocationCommand(orderID kernel.UUID, location kernel.Location) (UpdateLocationCommand, error) {
	cmd := UpdateLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setLocation(location),
	); err != nil {
		return UpdateLocationCommand{}, err
	}

	return cmd, nil
}

// Validate checks that the command was created through the constructor.
func (c UpdateLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLocationCommandIsNotConstructed)
}

// OrderID returns the order's identifier.
func (c UpdateLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Location returns the new delivery location.
func (c UpdateLocationCommand) Location() kernel.Location {
	return c.location
}

func (c *UpdateLocationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateLocationCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}
