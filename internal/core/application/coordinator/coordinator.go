// Package coordinator consumes the broadcast bus and keeps this process's
// view of the order pool in step with the fleet: it maintains the pending
// cache and pushes the resulting notifications to connected clients.
//
// Events arrive from every process, the local one included. A publisher
// never applies its own side effects directly; it waits for the event to
// come back through the bus so each process, winner or bystander, reacts to
// every event exactly once.
package coordinator

import (
	"context"
	"log/slog"
	"sync"

	"hawker/internal/core/application/pending"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"
	"hawker/internal/pkg/errs"
)

type orderRef struct {
	OrderID string `json:"order_id"`
}

type pickerUpdate struct {
	OrderID  string `json:"order_id"`
	PickerID string `json:"picker_id,omitempty"`
	Status   string `json:"status"`
}

type completedUpdate struct {
	OrderID  string `json:"order_id"`
	PickerID string `json:"picker_id"`
}

type locationUpdate struct {
	OrderID     string                 `json:"order_id"`
	NewLocation events.LocationPayload `json:"new_location"`
}

// Coordinator reacts to consumed bus events. It implements events.Handler.
//
// The bus keeps no order across publishers, so an acceptance can arrive
// before the announcement it resolves. The accepted set records which
// acceptances this process has already applied; entries live until the
// order leaves the assigned state.
type Coordinator struct {
	pendingCache *pending.Cache
	orders       ports.OrderStore
	notifier     ports.Notifier
	logger       *slog.Logger

	mu       sync.Mutex
	accepted map[string]struct{}
}

// NewCoordinator creates the event-side coordinator.
func NewCoordinator(
	pendingCache *pending.Cache,
	orders ports.OrderStore,
	notifier ports.Notifier,
	logger *slog.Logger,
) (*Coordinator, error) {
	if pendingCache == nil {
		return nil, errs.NewValueIsRequiredError("pendingCache")
	}
	if orders == nil {
		return nil, errs.NewValueIsRequiredError("orders")
	}
	if notifier == nil {
		return nil, errs.NewValueIsRequiredError("notifier")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		pendingCache: pendingCache,
		orders:       orders,
		notifier:     notifier,
		logger:       logger.With("component", "coordinator"),
		accepted:     make(map[string]struct{}),
	}, nil
}

// HandleNewOrder caches the order and offers it to every connected picker.
// The announcement can trail the acceptance that resolved it, so an order
// this process already saw accepted does not re-enter the pool.
func (c *Coordinator) HandleNewOrder(_ context.Context, e events.NewOrder) error {
	if c.isAccepted(e.OrderID) {
		return nil
	}

	c.pendingCache.Upsert(e.Order)
	c.notifier.BroadcastToPickers(ports.MsgOrderWaiting, e.Order)
	return nil
}

// HandlePickerAcceptance applies a resolved claim: the order leaves the
// pending pool, other pickers learn it is taken and the customer learns who
// is picking. The authoritative store write already happened in the process
// that published the event. A cache miss is not proof of a replay, since
// the acceptance can overtake the announcement; the store decides whether
// the claim is current before the miss is treated as stale.
func (c *Coordinator) HandlePickerAcceptance(ctx context.Context, e events.PickerAcceptance) error {
	if !c.markAccepted(e.OrderID) {
		return nil
	}

	if !c.pendingCache.Remove(e.OrderID) {
		current, err := c.claimIsCurrent(ctx, e)
		if err != nil {
			c.clearAccepted(e.OrderID)
			return err
		}
		if !current {
			c.clearAccepted(e.OrderID)
			return nil
		}
	}

	c.notifier.BroadcastToPickers(ports.MsgOrderTaken, orderRef{OrderID: e.OrderID})
	c.notifyCustomer(e.OrderID, ports.MsgPickerUpdate, pickerUpdate{
		OrderID:  e.OrderID,
		PickerID: e.PickerID,
		Status:   order.Assigned.String(),
	})
	return nil
}

// claimIsCurrent asks the store whether the acceptance still describes the
// order: assigned, to that picker.
func (c *Coordinator) claimIsCurrent(ctx context.Context, e events.PickerAcceptance) (bool, error) {
	orderID, err := kernel.UUIDFromString(e.OrderID)
	if err != nil {
		return false, err
	}

	ord, err := c.orders.Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	if ord.Status() != order.Assigned || ord.PickerID() == nil {
		return false, nil
	}
	return ord.PickerID().String() == e.PickerID, nil
}

// HandleOrderCancelled drops the order and tells both sides. The cancelled
// order may already be assigned and gone from the cache, so the
// notifications go out regardless.
func (c *Coordinator) HandleOrderCancelled(_ context.Context, e events.OrderCancelled) error {
	c.pendingCache.Remove(e.OrderID)
	c.clearAccepted(e.OrderID)
	c.notifier.BroadcastToPickers(ports.MsgOrderCancelled, orderRef{OrderID: e.OrderID})
	c.notifyCustomer(e.OrderID, ports.MsgOrderCancelled, orderRef{OrderID: e.OrderID})
	return nil
}

// HandleOrderReturnedToPending puts a released order back into rotation. The
// releasing process may hold a stale snapshot, so the order is refetched
// from the store; if it got reclaimed or cancelled in the meantime, the
// event is stale and ignored.
func (c *Coordinator) HandleOrderReturnedToPending(ctx context.Context, e events.OrderReturnedToPending) error {
	orderID, err := kernel.UUIDFromString(e.OrderID)
	if err != nil {
		return err
	}

	ord, err := c.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if ord.Status() != order.Pending {
		return nil
	}

	snapshot, err := events.SnapshotFromOrder(ord)
	if err != nil {
		return err
	}

	c.clearAccepted(e.OrderID)
	c.pendingCache.Upsert(snapshot)
	c.notifier.BroadcastToPickers(ports.MsgOrderWaiting, snapshot)
	c.notifyCustomer(e.OrderID, ports.MsgPickerUpdate, pickerUpdate{
		OrderID: e.OrderID,
		Status:  order.Pending.String(),
	})
	return nil
}

// HandleOrderCompleted notifies the customer and the delivering picker.
func (c *Coordinator) HandleOrderCompleted(_ context.Context, e events.OrderCompleted) error {
	c.pendingCache.Remove(e.OrderID)
	c.clearAccepted(e.OrderID)

	update := completedUpdate{OrderID: e.OrderID, PickerID: e.PickerID}
	c.notifyCustomer(e.OrderID, ports.MsgOrderCompleted, update)
	c.notifyPicker(e.PickerID, ports.MsgOrderCompleted, update)
	return nil
}

// HandleLocationUpdated refreshes the cached snapshot and tells the assigned
// picker, if any, that the drop-off moved. Other pickers are not told; the
// order is no longer interesting to them once assigned, and while it is
// still pending the refreshed snapshot reaches them on replay.
func (c *Coordinator) HandleLocationUpdated(ctx context.Context, e events.LocationUpdated) error {
	if snapshot, ok := c.pendingCache.Get(e.OrderID); ok {
		snapshot.Location = e.NewLocation
		c.pendingCache.Upsert(snapshot)
	}

	orderID, err := kernel.UUIDFromString(e.OrderID)
	if err != nil {
		return err
	}

	ord, err := c.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if ord.PickerID() == nil {
		return nil
	}

	c.notifyPicker(ord.PickerID().String(), ports.MsgLocationUpdated, locationUpdate{
		OrderID:     e.OrderID,
		NewLocation: e.NewLocation,
	})
	return nil
}

// Resync replaces the pending cache with the Order Store's current pending
// set. Run on startup and whenever the bus subscription is re-established,
// since events may have been missed while disconnected.
func (c *Coordinator) Resync(ctx context.Context) error {
	pendingOrders, err := c.orders.GetAllPending(ctx)
	if err != nil {
		return err
	}

	snapshots := make([]events.OrderSnapshot, 0, len(pendingOrders))
	for _, ord := range pendingOrders {
		snapshot, err := events.SnapshotFromOrder(ord)
		if err != nil {
			return err
		}
		snapshots = append(snapshots, snapshot)
	}

	c.pendingCache.Replace(snapshots)

	// an order pending again was released while disconnected; its old
	// acceptance no longer counts
	c.mu.Lock()
	for _, snapshot := range snapshots {
		delete(c.accepted, snapshot.OrderID)
	}
	c.mu.Unlock()

	c.logger.Info("pending cache resynced", "orders", len(snapshots))
	return nil
}

// markAccepted records an applied acceptance. Returns false if this process
// already applied one for the order, which makes redelivery a no-op.
func (c *Coordinator) markAccepted(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.accepted[orderID]; ok {
		return false
	}
	c.accepted[orderID] = struct{}{}
	return true
}

func (c *Coordinator) isAccepted(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.accepted[orderID]
	return ok
}

func (c *Coordinator) clearAccepted(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.accepted, orderID)
}

func (c *Coordinator) notifyCustomer(orderID string, msgType string, payload any) {
	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		c.logger.Warn("event carries malformed order id", "orderId", orderID)
		return
	}
	c.notifier.NotifyCustomer(id, msgType, payload)
}

func (c *Coordinator) notifyPicker(pickerID string, msgType string, payload any) {
	id, err := kernel.UUIDFromString(pickerID)
	if err != nil {
		c.logger.Warn("event carries malformed picker id", "pickerId", pickerID)
		return
	}
	c.notifier.NotifyPicker(id, msgType, payload)
}
