package saga

import (
	"context"
	"errors"
	"log/slog"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/domain/model/payment"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"
)

// Orchestrator runs the payment sagas. Balance mutations are plain
// read-modify-write against the stores, with no compare-and-swap; recovery
// from partial failure is compensation, not atomicity.
type Orchestrator struct {
	customers ports.CustomerStore
	pickers   ports.PickerStore
	ledger    ports.PaymentLedger
	orders    ports.OrderStore
	pickerFee kernel.Money
	logger    *slog.Logger
}

// NewOrchestrator creates the saga orchestrator. pickerFee is the flat fee
// credited to a picker on order completion.
func NewOrchestrator(
	customers ports.CustomerStore,
	pickers ports.PickerStore,
	ledger ports.PaymentLedger,
	orders ports.OrderStore,
	pickerFee kernel.Money,
	logger *slog.Logger,
) (*Orchestrator, error) {
	if customers == nil {
		return nil, errs.NewValueIsRequiredError("customers")
	}
	if pickers == nil {
		return nil, errs.NewValueIsRequiredError("pickers")
	}
	if ledger == nil {
		return nil, errs.NewValueIsRequiredError("ledger")
	}
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	if err := pickerFee.Validate(); err != nil {
		return nil, err
	}
	if !pickerFee.IsPositive() {
		return nil, errs.NewValueIsInvalidError("pickerFee must be greater than 0")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		customers: customers,
		pickers:   pickers,
		ledger:    ledger,
		orders:    orders,
		pickerFee: pickerFee,
		logger:    logger.With("component", "saga"),
	}, nil
}

// Debit charges the customer the order total and journals a Payment entry.
// Returns errs.ErrInsufficientFunds when the balance does not cover the
// total. If journaling fails after the balance write, the balance write is
// compensated. The caller decides what happens to the order on failure.
func (o *Orchestrator) Debit(ctx context.Context, ord *order.Order) (*payment.Transaction, error) {
	total, err := ord.Total()
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, errs.NewValueIsInvalidError("order total must be greater than 0")
	}

	var (
		balance kernel.Money
		entry   *payment.Transaction
	)
	customerID := ord.CustomerID()

	s := New("debit",
		Step{
			Name: "read customer balance",
			Run: func(ctx context.Context) error {
				balance, err = o.customers.GetCredits(ctx, customerID)
				if err != nil {
					return err
				}
				if balance.LessThan(total) {
					return errs.NewInsufficientFundsError(
						customerID.String(), total.String(), balance.String())
				}
				return nil
			},
		},
		Step{
			Name: "debit customer balance",
			Run: func(ctx context.Context) error {
				debited, err := balance.Sub(total)
				if err != nil {
					return err
				}
				return o.customers.SetCredits(ctx, customerID, debited)
			},
			Compensate: func(ctx context.Context) error {
				return o.credit(ctx, o.customers, customerID, total)
			},
		},
		Step{
			Name: "append payment entry",
			Run: func(ctx context.Context) error {
				entry, err = payment.NewPaymentEntry(customerID, ord.ID(), total)
				if err != nil {
					return err
				}
				return o.ledger.Append(ctx, entry)
			},
		},
	)

	if err := s.Execute(ctx, o.logger); err != nil {
		return nil, err
	}
	return entry, nil
}

// CreditPickerFee pays the flat delivery fee to the picker of a completed
// order and journals a PickerFee entry. The journal write is best effort: the
// fee has already been paid by then, so a journaling failure is logged and
// the saga still succeeds, returning a nil entry.
func (o *Orchestrator) CreditPickerFee(ctx context.Context, ord *order.Order) (*payment.Transaction, error) {
	if ord.Status() != order.Completed {
		return nil, errs.NewConflictError("credit picker fee", "order is not completed")
	}
	if ord.PickerID() == nil {
		return nil, errs.NewConflictError("credit picker fee", "order has no assigned picker")
	}
	pickerID := *ord.PickerID()

	var (
		balance kernel.Money
		entry   *payment.Transaction
	)

	s := New("picker-credit",
		Step{
			Name: "read picker balance",
			Run: func(ctx context.Context) error {
				var err error
				balance, err = o.pickers.GetCredits(ctx, pickerID)
				return err
			},
		},
		Step{
			Name: "credit picker balance",
			Run: func(ctx context.Context) error {
				credited, err := balance.Add(o.pickerFee)
				if err != nil {
					return err
				}
				return o.pickers.SetCredits(ctx, pickerID, credited)
			},
			Compensate: func(ctx context.Context) error {
				return o.debit(ctx, o.pickers, pickerID, o.pickerFee)
			},
		},
		Step{
			Name: "journal picker fee",
			Run: func(ctx context.Context) error {
				e, err := payment.NewPickerFeeEntry(ord.CustomerID(), ord.ID(), pickerID, o.pickerFee)
				if err == nil {
					err = o.ledger.Append(ctx, e)
				}
				if err != nil {
					// The fee is already paid; the journal entry is lost,
					// not the money.
					o.logger.Warn("picker fee journaling failed",
						"orderId", ord.ID().String(),
						"pickerId", pickerID.String(),
						"error", err)
					return nil
				}
				entry = e
				return nil
			},
		},
	)

	if err := s.Execute(ctx, o.logger); err != nil {
		return nil, err
	}
	return entry, nil
}

// Refund reverses the payment recorded under logID: marks the ledger entry
// refunded, re-credits the customer and cancels the order if it still can
// be. Refunding an already refunded entry is a no-op.
func (o *Orchestrator) Refund(ctx context.Context, logID kernel.UUID) error {
	entry, err := o.ledger.Get(ctx, logID)
	if err != nil {
		return err
	}
	return o.refund(ctx, entry)
}

// RefundOrder reverses the payment captured for an order on submission.
// Returns errs.ErrObjectNotFound if the order was never paid.
func (o *Orchestrator) RefundOrder(ctx context.Context, orderID kernel.UUID) error {
	entry, err := o.ledger.GetPaymentForOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return o.refund(ctx, entry)
}

func (o *Orchestrator) refund(ctx context.Context, entry *payment.Transaction) error {
	if entry.EventType() != payment.EventPayment {
		return errs.NewConflictError("refund", "ledger entry is not a payment")
	}
	if entry.IsRefunded() {
		return nil
	}

	amount, err := entry.AbsAmount()
	if err != nil {
		return err
	}
	customerID := entry.CustomerID()

	s := New("refund",
		Step{
			Name: "mark entry refunded",
			Run: func(ctx context.Context) error {
				return o.ledger.MarkRefunded(ctx, entry.LogID())
			},
		},
		Step{
			Name: "credit customer balance",
			Run: func(ctx context.Context) error {
				return o.credit(ctx, o.customers, customerID, amount)
			},
		},
		Step{
			Name: "cancel order",
			Run: func(ctx context.Context) error {
				if entry.OrderID() == nil {
					return nil
				}
				return o.cancelIfPossible(ctx, *entry.OrderID())
			},
		},
	)

	return s.Execute(ctx, o.logger)
}

// TopUp credits a customer balance and journals a CreditTopUp entry. The
// amount must be strictly positive.
func (o *Orchestrator) TopUp(ctx context.Context, customerID kernel.UUID, amount kernel.Money) (*payment.Transaction, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, errs.NewValueIsInvalidError("top-up amount must be greater than 0")
	}

	var entry *payment.Transaction

	s := New("top-up",
		Step{
			Name: "credit customer balance",
			Run: func(ctx context.Context) error {
				return o.credit(ctx, o.customers, customerID, amount)
			},
			Compensate: func(ctx context.Context) error {
				return o.debit(ctx, o.customers, customerID, amount)
			},
		},
		Step{
			Name: "append top-up entry",
			Run: func(ctx context.Context) error {
				var err error
				entry, err = payment.NewTopUpEntry(customerID, amount)
				if err != nil {
					return err
				}
				return o.ledger.Append(ctx, entry)
			},
		},
	)

	if err := s.Execute(ctx, o.logger); err != nil {
		return nil, err
	}
	return entry, nil
}

// creditStore is the common balance surface of CustomerStore and PickerStore.
type creditStore interface {
	GetCredits(ctx context.Context, id kernel.UUID) (kernel.Money, error)
	SetCredits(ctx context.Context, id kernel.UUID, balance kernel.Money) error
}

func (o *Orchestrator) credit(ctx context.Context, store creditStore, id kernel.UUID, amount kernel.Money) error {
	balance, err := store.GetCredits(ctx, id)
	if err != nil {
		return err
	}
	credited, err := balance.Add(amount)
	if err != nil {
		return err
	}
	return store.SetCredits(ctx, id, credited)
}

func (o *Orchestrator) debit(ctx context.Context, store creditStore, id kernel.UUID, amount kernel.Money) error {
	balance, err := store.GetCredits(ctx, id)
	if err != nil {
		return err
	}
	debited, err := balance.Sub(amount)
	if err != nil {
		return err
	}
	return store.SetCredits(ctx, id, debited)
}

func (o *Orchestrator) cancelIfPossible(ctx context.Context, orderID kernel.UUID) error {
	ord, err := o.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	if !ord.Status().AllowsCancel() {
		return nil
	}
	if err := ord.Cancel(); err != nil {
		return err
	}
	return o.orders.Update(ctx, ord)
}
