// Package commands contains the write operations of the coordinator.
// Implements the Command pattern for the CQRS split: each command is a
// validated value object, each handler orchestrates stores, sagas and the
// broadcast bus for one operation.
package commands

import (
	"context"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/domain/model/payment"
)

// Payments is the saga orchestrator surface the command handlers depend on.
type Payments interface {
	// Debit charges the customer the order total and journals the payment.
	Debit(ctx context.Context, ord *order.Order) (*payment.Transaction, error)

	// CreditPickerFee pays the flat delivery fee on completion.
	CreditPickerFee(ctx context.Context, ord *order.Order) (*payment.Transaction, error)

	// Refund reverses the payment recorded under a ledger log id.
	Refund(ctx context.Context, logID kernel.UUID) error

	// RefundOrder reverses the payment captured for an order.
	RefundOrder(ctx context.Context, orderID kernel.UUID) error

	// TopUp credits a customer balance.
	TopUp(ctx context.Context, customerID kernel.UUID, amount kernel.Money) (*payment.Transaction, error)
}
