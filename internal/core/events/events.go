// Package events defines the closed set of messages exchanged over the
// broadcast bus, their JSON envelope and the dispatch entry point.
//
// The wire form is a flat JSON object discriminated by a "type" field. Decode
// fails on unknown types; there is no fallback path, so every producer and
// consumer in the fleet speaks exactly this set.
package events

import (
	"context"
	"time"
)

// Type names as they appear in the envelope's "type" field.
const (
	TypeNewOrder               = "new_order"
	TypePickerAcceptance       = "picker_acceptance"
	TypeOrderCancelled         = "order_cancelled"
	TypeOrderReturnedToPending = "order_returned_to_pending"
	TypeOrderCompleted         = "order_completed"
	TypeLocationUpdated        = "location_updated"
)

// Event is the closed union of bus messages. Only the types in this package
// implement it.
type Event interface {
	// EventType returns the envelope discriminator.
	EventType() string

	isEvent()
}

// ItemPayload is the wire form of an order line item.
type ItemPayload struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// LocationPayload is the wire form of a delivery location.
type LocationPayload struct {
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Postal      string      `json:"postal"`
}

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OrderSnapshot is the full order state carried inside a NewOrder event, so
// receiving processes can seed their pending cache without a store round
// trip. It may be stale by the time it is read; the Order Store stays
// authoritative.
type OrderSnapshot struct {
	OrderID       string          `json:"order_id"`
	CustomerID    string          `json:"customer_id"`
	StallID       string          `json:"stall_id"`
	PickerID      *string         `json:"picker_id,omitempty"`
	Status        string          `json:"status"`
	Items         []ItemPayload   `json:"items"`
	Location      LocationPayload `json:"location"`
	IsPaid        bool            `json:"is_paid"`
	CreditCharged float64         `json:"credit"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// NewOrder announces a freshly paid order awaiting a picker.
type NewOrder struct {
	OrderID string        `json:"order_id"`
	Order   OrderSnapshot `json:"order"`
}

func (NewOrder) EventType() string { return TypeNewOrder }
func (NewOrder) isEvent()          {}

// PickerAcceptance announces that a picker's claim won the conditional write
// in the Order Store. Consumers drop the order from their pending caches and
// notify their connected clients; replays are no-ops.
type PickerAcceptance struct {
	OrderID  string `json:"order_id"`
	PickerID string `json:"picker_id"`
}

func (PickerAcceptance) EventType() string { return TypePickerAcceptance }
func (PickerAcceptance) isEvent()          {}

// OrderCancelled announces a cancellation.
type OrderCancelled struct {
	OrderID string `json:"order_id"`
}

func (OrderCancelled) EventType() string { return TypeOrderCancelled }
func (OrderCancelled) isEvent()          {}

// OrderReturnedToPending announces a picker releasing a claimed order back
// into the pending pool. Consumers refetch the order before rebroadcasting,
// since the releasing process may hold a stale snapshot.
type OrderReturnedToPending struct {
	OrderID  string `json:"order_id"`
	PickerID string `json:"picker_id"`
}

func (OrderReturnedToPending) EventType() string { return TypeOrderReturnedToPending }
func (OrderReturnedToPending) isEvent()          {}

// OrderCompleted announces a delivered order.
type OrderCompleted struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	PickerID   string `json:"picker_id"`
}

func (OrderCompleted) EventType() string { return TypeOrderCompleted }
func (OrderCompleted) isEvent()          {}

// LocationUpdated announces a changed drop-off point for an order that is
// not yet delivering.
type LocationUpdated struct {
	OrderID     string          `json:"order_id"`
	NewLocation LocationPayload `json:"new_location"`
}

func (LocationUpdated) EventType() string { return TypeLocationUpdated }
func (LocationUpdated) isEvent()          {}

// Handler receives decoded bus events. Implemented by the coordinator.
type Handler interface {
	HandleNewOrder(ctx context.Context, e NewOrder) error
	HandlePickerAcceptance(ctx context.Context, e PickerAcceptance) error
	HandleOrderCancelled(ctx context.Context, e OrderCancelled) error
	HandleOrderReturnedToPending(ctx context.Context, e OrderReturnedToPending) error
	HandleOrderCompleted(ctx context.Context, e OrderCompleted) error
	HandleLocationUpdated(ctx context.Context, e LocationUpdated) error
}

// Dispatch routes a decoded event to its Handler method. The type switch is
// exhaustive over the closed event set.
func Dispatch(ctx context.Context, h Handler, e Event) error {
	switch ev := e.(type) {
	case NewOrder:
		return h.HandleNewOrder(ctx, ev)
	case PickerAcceptance:
		return h.HandlePickerAcceptance(ctx, ev)
	case OrderCancelled:
		return h.HandleOrderCancelled(ctx, ev)
	case OrderReturnedToPending:
		return h.HandleOrderReturnedToPending(ctx, ev)
	case OrderCompleted:
		return h.HandleOrderCompleted(ctx, ev)
	case LocationUpdated:
		return h.HandleLocationUpdated(ctx, ev)
	default:
		return errUnknownEvent(e.EventType())
	}
}
