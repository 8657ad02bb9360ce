// Package payment models the append-only payment ledger entries written by
// the saga orchestrator. The ledger itself is owned by the external Payment
// Ledger service; one Transaction is appended per completed or attempted saga
// step.
package payment

import (
	"errors"
	"fmt"
	"time"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// EventType classifies a ledger entry.
type EventType string

const (
	// EventPayment is a customer debit for an order.
	EventPayment EventType = "Payment"
	// EventCreditTopUp is a customer crediting their own balance.
	EventCreditTopUp EventType = "CreditTopUp"
	// EventPickerFee is the flat delivery fee credited to a picker.
	EventPickerFee EventType = "PickerFee"
	// EventRefund is a reversal of an earlier payment.
	EventRefund EventType = "Refund"
)

// EventTypeFromString parses a wire event type.
func EventTypeFromString(s string) (EventType, error) {
	switch et := EventType(s); et {
	case EventPayment, EventCreditTopUp, EventPickerFee, EventRefund:
		return et, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("eventType",
			fmt.Errorf("%q is not a valid payment event type", s))
	}
}

// Status is the settlement state of a ledger entry.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusPaid     Status = "Paid"
	StatusComplete Status = "Completed"
	StatusFailed   Status = "Failed"
	StatusRefunded Status = "Refunded"
)

// StatusFromString parses a wire payment status.
func StatusFromString(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusPaid, StatusComplete, StatusFailed, StatusRefunded:
		return st, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("paymentStatus",
			fmt.Errorf("%q is not a valid payment status", s))
	}
}

// ErrTransactionIsNotConstructed is returned when validating a zero-value
// Transaction.
var ErrTransactionIsNotConstructed = errors.New(
	"Transaction must be created via a New*Entry constructor or RestoreTransaction")

// Transaction is a single ledger entry. Amounts are signed: negative means
// the customer was debited, positive means an account was credited.
type Transaction struct {
	logID      kernel.UUID
	customerID kernel.UUID
	orderID    *kernel.UUID
	pickerID   *kernel.UUID
	eventType  EventType
	details    string
	amount     decimal.Decimal
	status     Status
	timestamp  time.Time

	isConstructed bool
}

// NewPaymentEntry records a captured order payment: a debit of amount against
// the customer, already settled (status Paid).
func NewPaymentEntry(customerID, orderID kernel.UUID, amount kernel.Money) (*Transaction, error) {
	if err := validatePositive(amount); err != nil {
		return nil, err
	}
	if err := errors.Join(customerID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	return &Transaction{
		logID:         kernel.NewUUID(),
		customerID:    customerID,
		orderID:       &orderID,
		eventType:     EventPayment,
		details:       fmt.Sprintf("Payment for order %s", orderID),
		amount:        amount.Amount().Neg(),
		status:        StatusPaid,
		timestamp:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// NewTopUpEntry records a customer crediting their balance.
func NewTopUpEntry(customerID kernel.UUID, amount kernel.Money) (*Transaction, error) {
	if err := validatePositive(amount); err != nil {
		return nil, err
	}
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	return &Transaction{
		logID:         kernel.NewUUID(),
		customerID:    customerID,
		eventType:     EventCreditTopUp,
		details:       "Credit top-up",
		amount:        amount.Amount(),
		status:        StatusComplete,
		timestamp:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// NewPickerFeeEntry journals the flat delivery fee credited to a picker on
// order completion.
func NewPickerFeeEntry(customerID, orderID, pickerID kernel.UUID, fee kernel.Money) (*Transaction, error) {
	if err := validatePositive(fee); err != nil {
		return nil, err
	}
	if err := errors.Join(customerID.Validate(), orderID.Validate(), pickerID.Validate()); err != nil {
		return nil, err
	}

	return &Transaction{
		logID:         kernel.NewUUID(),
		customerID:    customerID,
		orderID:       &orderID,
		pickerID:      &pickerID,
		eventType:     EventPickerFee,
		details:       fmt.Sprintf("Delivery fee for order %s", orderID),
		amount:        fee.Amount(),
		status:        StatusComplete,
		timestamp:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreTransaction reconstructs a ledger entry from a Payment Ledger
// response.
func RestoreTransaction(
	logID kernel.UUID,
	customerID kernel.UUID,
	orderID *kernel.UUID,
	pickerID *kernel.UUID,
	eventType EventType,
	details string,
	amount decimal.Decimal,
	status Status,
	timestamp time.Time,
) (*Transaction, error) {
	if err := errors.Join(logID.Validate(), customerID.Validate()); err != nil {
		return nil, err
	}
	if _, err := EventTypeFromString(string(eventType)); err != nil {
		return nil, err
	}
	if _, err := StatusFromString(string(status)); err != nil {
		return nil, err
	}

	return &Transaction{
		logID:         logID,
		customerID:    customerID,
		orderID:       orderID,
		pickerID:      pickerID,
		eventType:     eventType,
		details:       details,
		amount:        amount,
		status:        status,
		timestamp:     timestamp,
		isConstructed: true,
	}, nil
}

// Validate ensures the Transaction was properly constructed.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// LogID returns the ledger entry identifier.
func (t *Transaction) LogID() kernel.UUID {
	return t.logID
}

// CustomerID returns the customer this entry belongs to.
func (t *Transaction) CustomerID() kernel.UUID {
	return t.customerID
}

// OrderID returns the related order, nil for entries that are not tied to an
// order (top-ups).
func (t *Transaction) OrderID() *kernel.UUID {
	return t.orderID
}

// PickerID returns the credited picker for fee entries, nil otherwise.
func (t *Transaction) PickerID() *kernel.UUID {
	return t.pickerID
}

// EventType returns the entry classification.
func (t *Transaction) EventType() EventType {
	return t.eventType
}

// Details returns the human-readable entry description.
func (t *Transaction) Details() string {
	return t.details
}

// Amount returns the signed amount: negative for debits, positive for
// credits.
func (t *Transaction) Amount() decimal.Decimal {
	return t.amount
}

// AbsAmount returns the unsigned magnitude as Money, used when reversing a
// debit.
func (t *Transaction) AbsAmount() (kernel.Money, error) {
	return kernel.NewMoney(t.amount.Abs())
}

// Status returns the settlement state.
func (t *Transaction) Status() Status {
	return t.status
}

// Timestamp returns when the entry was written.
func (t *Transaction) Timestamp() time.Time {
	return t.timestamp
}

// IsRefunded reports whether this entry was already reversed. The refund saga
// checks this to stay idempotent across retries.
func (t *Transaction) IsRefunded() bool {
	return t.status == StatusRefunded
}

func validatePositive(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidError("amount must be greater than 0")
	}
	return nil
}
