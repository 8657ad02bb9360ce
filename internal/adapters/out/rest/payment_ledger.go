package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/payment"

	"github.com/shopspring/decimal"
)

// transactionDTO is the Payment Ledger's wire form of a ledger entry. The
// amount travels as a decimal string so no precision is lost in transit.
type transactionDTO struct {
	LogID      string    `json:"log_id"`
	CustomerID string    `json:"customer_id"`
	OrderID    *string   `json:"order_id,omitempty"`
	PickerID   *string   `json:"picker_id,omitempty"`
	EventType  string    `json:"event_type"`
	Details    string    `json:"details"`
	Amount     string    `json:"amount"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// PaymentLedgerClient implements ports.PaymentLedger.
type PaymentLedgerClient struct {
	client *client
}

// NewPaymentLedgerClient creates a Payment Ledger client.
func NewPaymentLedgerClient(baseURL string, timeout time.Duration, retries int) (*PaymentLedgerClient, error) {
	c, err := newClient(baseURL, "payment-ledger", timeout, retries)
	if err != nil {
		return nil, err
	}
	return &PaymentLedgerClient{client: c}, nil
}

// Append writes a new entry.
func (l *PaymentLedgerClient) Append(ctx context.Context, entry *payment.Transaction) error {
	dto, err := toTransactionDTO(entry)
	if err != nil {
		return err
	}
	return l.client.do(ctx, http.MethodPost, "/payments", dto, nil)
}

// Get fetches one entry by log id.
func (l *PaymentLedgerClient) Get(ctx context.Context, logID kernel.UUID) (*payment.Transaction, error) {
	var dto transactionDTO
	if err := l.client.do(ctx, http.MethodGet, "/payments/"+logID.String(), nil, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain()
}

// GetPaymentForOrder fetches the Payment entry recorded for an order.
func (l *PaymentLedgerClient) GetPaymentForOrder(ctx context.Context, orderID kernel.UUID) (*payment.Transaction, error) {
	var dto transactionDTO
	path := fmt.Sprintf("/payments?order_id=%s&event_type=%s", orderID, payment.EventPayment)
	if err := l.client.do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain()
}

// MarkRefunded flips an entry to refunded. The ledger treats repeating the
// call as a success.
func (l *PaymentLedgerClient) MarkRefunded(ctx context.Context, logID kernel.UUID) error {
	return l.client.do(ctx, http.MethodPost, "/payments/"+logID.String()+"/refund", nil, nil)
}

func toTransactionDTO(entry *payment.Transaction) (transactionDTO, error) {
	if err := entry.Validate(); err != nil {
		return transactionDTO{}, err
	}

	dto := transactionDTO{
		LogID:      entry.LogID().String(),
		CustomerID: entry.CustomerID().String(),
		EventType:  string(entry.EventType()),
		Details:    entry.Details(),
		Amount:     entry.Amount().String(),
		Status:     string(entry.Status()),
		Timestamp:  entry.Timestamp(),
	}
	if entry.OrderID() != nil {
		dto.OrderID = ptr(entry.OrderID().String())
	}
	if entry.PickerID() != nil {
		dto.PickerID = ptr(entry.PickerID().String())
	}
	return dto, nil
}

func (d transactionDTO) toDomain() (*payment.Transaction, error) {
	logID, err := kernel.UUIDFromString(d.LogID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromString(d.CustomerID)
	if err != nil {
		return nil, err
	}

	var orderID, pickerID *kernel.UUID
	if d.OrderID != nil {
		id, err := kernel.UUIDFromString(*d.OrderID)
		if err != nil {
			return nil, err
		}
		orderID = &id
	}
	if d.PickerID != nil {
		id, err := kernel.UUIDFromString(*d.PickerID)
		if err != nil {
			return nil, err
		}
		pickerID = &id
	}

	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, err
	}

	return payment.RestoreTransaction(logID, customerID, orderID, pickerID,
		payment.EventType(d.EventType), d.Details, amount,
		payment.Status(d.Status), d.Timestamp)
}
