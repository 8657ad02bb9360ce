package order

import (
	"errors"
	"time"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root for a delivery order: who ordered, from which
// stall, what was ordered, where it goes and where it is in its lifecycle.
//
// Invariants:
//   - customer, stall and order ids are valid UUIDs
//   - at least one line item, each individually valid
//   - a picker id is present exactly while status requires one
//   - status transitions follow the Status state machine
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	stallID    kernel.UUID
	pickerID   *kernel.UUID
	items      []Item
	location   kernel.Location
	status     Status

	paid          bool
	creditCharged kernel.Money

	createdAt   time.Time
	completedAt *time.Time

	isConstructed bool
}

// NewOrder creates a new Order in pending status with no picker and no
// captured payment.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	stallID kernel.UUID,
	items []Item,
	location kernel.Location,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		creditCharged: kernel.Zero(),
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setStallID(stallID),
		o.setItems(items),
		o.setLocation(location),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from an external snapshot (an Order
// Store response or a bus event payload). The snapshot's status and picker
// assignment must be mutually consistent.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	stallID kernel.UUID,
	items []Item,
	location kernel.Location,
	status Status,
	pickerID *kernel.UUID,
	paid bool,
	creditCharged kernel.Money,
	createdAt time.Time,
	completedAt *time.Time,
) (*Order, error) {
	o := &Order{
		paid:          paid,
		createdAt:     createdAt,
		completedAt:   completedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setStallID(stallID),
		o.setItems(items),
		o.setLocation(location),
		o.setStatus(status, pickerID),
		o.setCreditCharged(creditCharged),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created via a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// StallID returns the food stall's identifier.
func (o *Order) StallID() kernel.UUID {
	return o.stallID
}

// PickerID returns the assigned picker's identifier, or nil before
// assignment and after release.
func (o *Order) PickerID() *kernel.UUID {
	return o.pickerID
}

// Items returns the ordered line items.
func (o *Order) Items() []Item {
	return o.items
}

// Location returns the current delivery location.
func (o *Order) Location() kernel.Location {
	return o.location
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// IsPaid reports whether the debit saga captured payment for this order.
func (o *Order) IsPaid() bool {
	return o.paid
}

// CreditCharged returns the amount captured by the debit saga, zero before
// payment.
func (o *Order) CreditCharged() kernel.Money {
	return o.creditCharged
}

// CreatedAt returns the order creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CompletedAt returns the delivery completion time, nil until completed.
func (o *Order) CompletedAt() *time.Time {
	return o.completedAt
}

// Total sums the line item subtotals. This is the amount the debit saga
// charges on submission.
func (o *Order) Total() (kernel.Money, error) {
	if err := o.Validate(); err != nil {
		return kernel.Money{}, err
	}

	total := kernel.Zero()
	for _, item := range o.items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return kernel.Money{}, err
		}
		if total, err = total.Add(subtotal); err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}

// MarkPaid records the captured amount after a successful debit.
func (o *Order) MarkPaid(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	o.paid = true
	o.creditCharged = amount
	return nil
}

// Assign claims the order for a picker. Only valid while pending; a losing
// concurrent claim surfaces as a ConflictError.
func (o *Order) Assign(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickerID = &pickerID
	return nil
}

// Release reverts an assigned order to pending. Only the assigned picker may
// release; a mismatched picker id is a conflict.
func (o *Order) Release(pickerID kernel.UUID) error {
	if err := pickerID.Validate(); err != nil {
		return err
	}
	if o.pickerID == nil || !o.pickerID.IsEqual(pickerID) {
		return errs.NewConflictError("release", "order is not assigned to this picker")
	}

	newStatus, err := o.status.Release()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickerID = nil
	return nil
}

// StartPreparing moves the order to preparing.
func (o *Order) StartPreparing() error {
	newStatus, err := o.status.StartPreparing()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// StartDelivering moves the order to delivering.
func (o *Order) StartDelivering() error {
	newStatus, err := o.status.StartDelivering()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Complete marks the order delivered and timestamps completion. Requires an
// assigned picker.
func (o *Order) Complete() error {
	if o.pickerID == nil {
		return errs.NewConflictError("complete", "order has no assigned picker")
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = newStatus
	o.completedAt = &now
	return nil
}

// Cancel marks the order cancelled. Allowed while pending, assigned or
// preparing; refusal once delivering is the caller's 409.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// UpdateLocation changes the drop-off point. Rejected once the order is
// delivering or terminal, so the destination cannot move mid-delivery.
func (o *Order) UpdateLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	if !o.status.AllowsLocationEdit() {
		return errs.NewConflictError("update location",
			"order location can no longer be changed")
	}
	o.location = location
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setStallID(stallID kernel.UUID) error {
	if err := stallID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("stallId", err)
	}
	o.stallID = stallID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}

func (o *Order) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}

func (o *Order) setStatus(status Status, pickerID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}

	hasPicker := pickerID != nil
	needsPicker := status == Assigned || status == Preparing || status == Delivering || status == Completed
	if hasPicker && status == Pending {
		return errs.NewValueIsInvalidError("pending order cannot have a picker")
	}
	if !hasPicker && needsPicker {
		return errs.NewValueIsInvalidError("status requires an assigned picker")
	}

	if hasPicker {
		if err := pickerID.Validate(); err != nil {
			return err
		}
	}

	o.status = status
	o.pickerID = pickerID
	return nil
}

func (o *Order) setCreditCharged(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	o.creditCharged = amount
	return nil
}
