package ports

import (
	"hawker/internal/core/domain/model/kernel"
)

// Message types pushed to connected websocket clients. These are the
// client-facing vocabulary; bus event types are translated into these before
// the push.
const (
	MsgOrderWaiting    = "order_waiting"
	MsgOrderTaken      = "order_taken"
	MsgPickerUpdate    = "picker_update"
	MsgOrderCancelled  = "order_cancelled"
	MsgOrderCompleted  = "order_completed"
	MsgLocationUpdated = "location_updated"
)

// Notifier delivers best-effort push notifications to connected clients. It
// is not a durable queue: a disconnected client misses events until it
// reconnects and resynchronizes. Pushes are fire-and-forget; a failed push is
// an implicit disconnect, never an error to the caller.
type Notifier interface {
	// BroadcastToPickers pushes a message to every connected picker.
	BroadcastToPickers(msgType string, payload any)

	// NotifyCustomer pushes a message to the customers subscribed to an
	// order. No-op if nobody is subscribed.
	NotifyCustomer(orderID kernel.UUID, msgType string, payload any)

	// NotifyPicker pushes a message to one connected picker. No-op if the
	// picker is not connected.
	NotifyPicker(pickerID kernel.UUID, msgType string, payload any)
}
