// Package ws pushes real-time order updates to connected pickers and
// customers over websockets. Delivery is best effort: the hub is not a
// durable queue, and a client that cannot keep up is dropped and expected
// to re-register.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"hawker/internal/core/application/pending"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"

	"github.com/gorilla/websocket"
)

const currentStateTimeout = 5 * time.Second

// message is the wire envelope in both directions.
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type registerPickerData struct {
	PickerID string `json:"picker_id"`
}

type registerCustomerData struct {
	CustomerID string `json:"customer_id"`
	OrderID    string `json:"order_id"`
}

type currentStateData struct {
	OrderID  string `json:"order_id"`
	PickerID string `json:"picker_id,omitempty"`
	Status   string `json:"status"`
}

// Hub implements ports.Notifier and the active-picker registry. Pickers form
// one broadcast group; customers subscribe per order. Registration replays
// the state a freshly connected client would otherwise have missed: pickers
// get the pending backlog, customers get their order's current status.
type Hub struct {
	pendingCache *pending.Cache
	orders       ports.OrderStore
	upgrader     websocket.Upgrader
	logger       *slog.Logger

	mu        sync.Mutex
	pickers   map[string]*client
	customers map[string]map[*client]struct{}
}

// NewHub creates a hub backed by the shared pending cache and the Order
// Store (used for the customer current-state push).
func NewHub(pendingCache *pending.Cache, orders ports.OrderStore, logger *slog.Logger) (*Hub, error) {
	if pendingCache == nil {
		return nil, errs.NewValueIsRequiredError("pendingCache")
	}
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		pendingCache: pendingCache,
		orders:       orders,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:    logger.With("component", "ws"),
		pickers:   make(map[string]*client),
		customers: make(map[string]map[*client]struct{}),
	}, nil
}

// Upgrade switches an HTTP request to a websocket connection and starts
// serving it. The connection stays anonymous until the client sends a
// register_picker or register_customer message.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := newClient(h, conn)
	go c.writePump()
	go c.readPump()
	return nil
}

// BroadcastToPickers pushes one message to every registered picker.
func (h *Hub) BroadcastToPickers(msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.Warn("broadcast payload not encodable", "type", msgType, "error", err)
		return
	}

	h.mu.Lock()
	var dead []*client
	for _, c := range h.pickers {
		if !c.enqueue(data) {
			dead = append(dead, c)
		}
	}
	h.mu.Unlock()

	h.dropAll(dead)
}

// NotifyCustomer pushes one message to every client subscribed to the order.
func (h *Hub) NotifyCustomer(orderID kernel.UUID, msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.Warn("customer payload not encodable", "type", msgType, "error", err)
		return
	}

	h.mu.Lock()
	var dead []*client
	for c := range h.customers[orderID.String()] {
		if !c.enqueue(data) {
			dead = append(dead, c)
		}
	}
	h.mu.Unlock()

	h.dropAll(dead)
}

// NotifyPicker pushes one message to a single registered picker.
func (h *Hub) NotifyPicker(pickerID kernel.UUID, msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.Warn("picker payload not encodable", "type", msgType, "error", err)
		return
	}

	h.mu.Lock()
	c, ok := h.pickers[pickerID.String()]
	if ok && !c.enqueue(data) {
		h.mu.Unlock()
		h.drop(c)
		return
	}
	h.mu.Unlock()
}

// ActivePickerIDs lists the currently registered pickers.
func (h *Hub) ActivePickerIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.pickers))
	for id := range h.pickers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (h *Hub) handleRegistration(c *client, raw []byte) {
	var msg message
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("dropping malformed client message", "error", err)
		return
	}

	switch msg.Type {
	case "register_picker":
		var data registerPickerData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.PickerID == "" {
			h.logger.Warn("register_picker without picker_id")
			return
		}
		h.registerPicker(c, data.PickerID)
	case "register_customer":
		var data registerCustomerData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.OrderID == "" {
			h.logger.Warn("register_customer without order_id")
			return
		}
		h.registerCustomer(c, data.OrderID)
	default:
		h.logger.Warn("unknown client message", "type", msg.Type)
	}
}

// registerPicker joins the broadcast group and replays the pending backlog to
// this one connection, oldest order first.
func (h *Hub) registerPicker(c *client, pickerID string) {
	h.mu.Lock()
	previous := h.pickers[pickerID]
	h.pickers[pickerID] = c
	c.pickerID = pickerID
	h.mu.Unlock()

	if previous != nil && previous != c {
		h.drop(previous)
	}

	for _, snapshot := range h.pendingCache.All() {
		data, err := encode(ports.MsgOrderWaiting, snapshot)
		if err != nil {
			h.logger.Warn("backlog entry not encodable", "order_id", snapshot.OrderID, "error", err)
			continue
		}
		if !c.enqueue(data) {
			h.drop(c)
			return
		}
	}

	h.logger.Info("picker registered", "picker_id", pickerID)
}

// registerCustomer joins the per-order group and, when the order has already
// moved past pending, pushes its current state so a refreshing client is not
// stuck waiting for a transition it missed.
func (h *Hub) registerCustomer(c *client, orderID string) {
	h.mu.Lock()
	group, ok := h.customers[orderID]
	if !ok {
		group = make(map[*client]struct{})
		h.customers[orderID] = group
	}
	group[c] = struct{}{}
	c.orderIDs[orderID] = struct{}{}
	h.mu.Unlock()

	h.pushCurrentState(c, orderID)
	h.logger.Info("customer registered", "order_id", orderID)
}

func (h *Hub) pushCurrentState(c *client, orderID string) {
	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		h.logger.Warn("register_customer with malformed order id", "order_id", orderID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), currentStateTimeout)
	defer cancel()

	ord, err := h.orders.Get(ctx, id)
	if err != nil {
		h.logger.Warn("current-state lookup failed", "order_id", orderID, "error", err)
		return
	}
	if ord.Status() == order.Pending {
		return
	}

	state := currentStateData{
		OrderID: orderID,
		Status:  ord.Status().String(),
	}
	if ord.PickerID() != nil {
		state.PickerID = ord.PickerID().String()
	}

	data, err := encode(ports.MsgPickerUpdate, state)
	if err != nil {
		h.logger.Warn("current state not encodable", "order_id", orderID, "error", err)
		return
	}
	if !c.enqueue(data) {
		h.drop(c)
	}
}

// drop removes the client from every group and closes its connection.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if c.pickerID != "" && h.pickers[c.pickerID] == c {
		delete(h.pickers, c.pickerID)
	}
	for orderID := range c.orderIDs {
		group := h.customers[orderID]
		delete(group, c)
		if len(group) == 0 {
			delete(h.customers, orderID)
		}
	}
	h.mu.Unlock()

	c.close()
}

func (h *Hub) dropAll(clients []*client) {
	for _, c := range clients {
		h.drop(c)
	}
}

func encode(msgType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(message{Type: msgType, Data: data})
}
