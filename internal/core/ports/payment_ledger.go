package ports

import (
	"context"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/payment"
)

// PaymentLedger is the append-only transaction log service. Entries are never
// deleted; a refund flips an entry's status rather than removing it.
type PaymentLedger interface {
	// Append writes a new transaction entry.
	Append(ctx context.Context, entry *payment.Transaction) error

	// Get retrieves an entry by its log identifier. Returns
	// errs.ErrObjectNotFound when no such entry exists.
	Get(ctx context.Context, logID kernel.UUID) (*payment.Transaction, error)

	// GetPaymentForOrder retrieves the Payment entry recorded for an order
	// on submission. Used by the refund saga to recover the customer and
	// amount. Returns errs.ErrObjectNotFound if the order was never paid.
	GetPaymentForOrder(ctx context.Context, orderID kernel.UUID) (*payment.Transaction, error)

	// MarkRefunded flips an entry's status to refunded. Idempotent: marking
	// an already refunded entry succeeds without effect.
	MarkRefunded(ctx context.Context, logID kernel.UUID) error
}
