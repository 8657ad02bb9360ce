package commands

import (
	"errors"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/pkg/errs"
	"hawker/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand represents a customer's request to place an order:
// who orders, from which stall, what, and where it should be delivered.
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	stallID    kernel.UUID
	items      []order.Item
	location   kernel.Location

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand creates a submission command. Requires valid customer
// and stall ids, at least one line item and a valid delivery location.
func NewSubmitOrderCommand(
	customerID kernel.UUID,
	stallID kernel.UUID,
	items []order.Item,
	location kernel.Location,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setStallID(stallID),
		cmd.setItems(items),
		cmd.setLocation(location),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return cmd, nil
}

// Validate checks that the command was created through the constructor.
func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

// CustomerID returns the ordering customer's identifier.
func (c SubmitOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// StallID returns the food stall's identifier.
func (c SubmitOrderCommand) StallID() kernel.UUID {
	return c.stallID
}

// Items returns the ordered line items.
func (c SubmitOrderCommand) Items() []order.Item {
	return c.items
}

// Location returns the delivery location.
func (c SubmitOrderCommand) Location() kernel.Location {
	return c.location
}

func (c *SubmitOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	c.customerID = customerID
	return nil
}

func (c *SubmitOrderCommand) setStallID(stallID kernel.UUID) error {
	if err := stallID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("stallId", err)
	}
	c.stallID = stallID
	return nil
}

func (c *SubmitOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	c.items = items
	return nil
}

func (c *SubmitOrderCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}
