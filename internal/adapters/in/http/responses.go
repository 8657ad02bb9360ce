package http

import (
	"time"

	"hawker/internal/core/domain/model/payment"
)

// transactionResponse is the wire form of a payment ledger entry returned by
// the top-up endpoint.
type transactionResponse struct {
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

func transactionResponseFrom(entry *payment.Transaction) transactionResponse {
	resp := transactionResponse{
		LogID:      entry.LogID().String(),
		CustomerID: entry.CustomerID().String(),
		EventType:  string(entry.EventType()),
		Details:    entry.Details(),
		Amount:     entry.Amount().String(),
		Status:     string(entry.Status()),
		Timestamp:  entry.Timestamp(),
	}
	if entry.OrderID() != nil {
		id := entry.OrderID().String()
		resp.OrderID = &id
	}
	if entry.PickerID() != nil {
		id := entry.PickerID().String()
		resp.PickerID = &id
	}
	return resp
}
