package coordinator_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hawker/internal/core/application/coordinator"
	"hawker/internal/core/application/pending"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
	"hawker/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type push struct {
	target  string
	id      string
	msgType string
}

// recordingNotifier records pushes in arrival order, safe for concurrent use.
type recordingNotifier struct {
	mu     sync.Mutex
	pushes []push
}

func (n *recordingNotifier) BroadcastToPickers(msgType string, _ any) {
	n.record(push{target: "pickers", msgType: msgType})
}

func (n *recordingNotifier) NotifyCustomer(orderID kernel.UUID, msgType string, _ any) {
	n.record(push{target: "customer", id: orderID.String(), msgType: msgType})
}

func (n *recordingNotifier) NotifyPicker(pickerID kernel.UUID, msgType string, _ any) {
	n.record(push{target: "picker", id: pickerID.String(), msgType: msgType})
}

func (n *recordingNotifier) record(p push) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, p)
}

func (n *recordingNotifier) all() []push {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]push(nil), n.pushes...)
}

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderStore) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderStore) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderStore) ClaimIfPending(_ context.Context, _, _ kernel.UUID) (*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderStore) ReleaseIfAssigned(_ context.Context, _, _ kernel.UUID) (*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockOrderStore) GetAllPending(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()

	price, err := kernel.MoneyFromString("3.00")
	require.NoError(t, err)
	item, err := order.NewItem("laksa", 2, price)
	require.NoError(t, err)
	location, err := kernel.NewLocation("1 Maxwell Rd", 1.28, 103.84, "069111")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{item}, location)
	require.NoError(t, err)
	return o
}

func snapshotOf(t *testing.T, o *order.Order) events.OrderSnapshot {
	t.Helper()

	s, err := events.SnapshotFromOrder(o)
	require.NoError(t, err)
	return s
}

func newCoordinator(t *testing.T, cache *pending.Cache, orders *MockOrderStore, notifier *recordingNotifier) *coordinator.Coordinator {
	t.Helper()

	c, err := coordinator.NewCoordinator(cache, orders, notifier, nil)
	require.NoError(t, err)
	return c
}

func TestCoordinator_HandleNewOrder_CachesAndBroadcasts(t *testing.T) {
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	c := newCoordinator(t, cache, new(MockOrderStore), notifier)

	ord := newTestOrder(t)
	snapshot := snapshotOf(t, ord)

	require.NoError(t, c.HandleNewOrder(t.Context(), events.NewOrder{
		OrderID: snapshot.OrderID,
		Order:   snapshot,
	}))

	assert.True(t, cache.Contains(snapshot.OrderID))
	require.Len(t, notifier.all(), 1)
	assert.Equal(t, push{target: "pickers", msgType: ports.MsgOrderWaiting}, notifier.all()[0])
}

func TestCoordinator_HandlePickerAcceptance_FirstDelivery(t *testing.T) {
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	c := newCoordinator(t, cache, new(MockOrderStore), notifier)

	ord := newTestOrder(t)
	snapshot := snapshotOf(t, ord)
	cache.Upsert(snapshot)
	pickerID := kernel.NewUUID()

	e := events.PickerAcceptance{OrderID: snapshot.OrderID, PickerID: pickerID.String()}
	require.NoError(t, c.HandlePickerAcceptance(t.Context(), e))

	assert.False(t, cache.Contains(snapshot.OrderID))
	assert.Equal(t, []push{
		{target: "pickers", msgType: ports.MsgOrderTaken},
		{target: "customer", id: snapshot.OrderID, msgType: ports.MsgPickerUpdate},
	}, notifier.all())
}

func TestCoordinator_HandlePickerAcceptance_ReplayIsNoOp(t *testing.T) {
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	c := newCoordinator(t, cache, new(MockOrderStore), notifier)

	ord := newTestOrder(t)
	snapshot := snapshotOf(t, ord)
	cache.Upsert(snapshot)

	e := events.PickerAcceptance{OrderID: snapshot.OrderID, PickerID: kernel.NewUUID().String()}
	require.NoError(t, c.HandlePickerAcceptance(t.Context(), e))
	require.NoError(t, c.HandlePickerAcceptance(t.Context(), e))
	require.NoError(t, c.HandlePickerAcceptance(t.Context(), e))

	// only the first delivery notifies
	assert.Len(t, notifier.all(), 2)
}

func TestCoordinator_HandlePickerAcceptance_BeforeAnnouncement(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, notifier)

	// the acceptance overtakes the new-order announcement on the bus
	ord := newTestOrder(t)
	pendingSnapshot := snapshotOf(t, ord)
	pickerID := kernel.NewUUID()
	require.NoError(t, ord.Assign(pickerID))
	orders.On("Get", ctx, ord.ID()).Return(ord, nil).Once()

	require.NoError(t, c.HandlePickerAcceptance(ctx, events.PickerAcceptance{
		OrderID:  ord.ID().String(),
		PickerID: pickerID.String(),
	}))

	assert.Equal(t, []push{
		{target: "pickers", msgType: ports.MsgOrderTaken},
		{target: "customer", id: ord.ID().String(), msgType: ports.MsgPickerUpdate},
	}, notifier.all())

	// the late announcement must not put the claimed order back in the pool
	require.NoError(t, c.HandleNewOrder(ctx, events.NewOrder{
		OrderID: pendingSnapshot.OrderID,
		Order:   pendingSnapshot,
	}))

	assert.False(t, cache.Contains(pendingSnapshot.OrderID))
	assert.Len(t, notifier.all(), 2)
	orders.AssertExpectations(t)
}

func TestCoordinator_HandlePickerAcceptance_StaleAcceptanceIsIgnored(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, notifier)

	// released and pending again by the time the old acceptance lands
	ord := newTestOrder(t)
	orders.On("Get", ctx, ord.ID()).Return(ord, nil).Once()

	require.NoError(t, c.HandlePickerAcceptance(ctx, events.PickerAcceptance{
		OrderID:  ord.ID().String(),
		PickerID: kernel.NewUUID().String(),
	}))

	assert.Empty(t, notifier.all())
	orders.AssertExpectations(t)
}

func TestCoordinator_HandlePickerAcceptance_ReassignedOrderIgnoresOldClaim(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, notifier)

	ord := newTestOrder(t)
	require.NoError(t, ord.Assign(kernel.NewUUID()))
	orders.On("Get", ctx, ord.ID()).Return(ord, nil).Once()

	require.NoError(t, c.HandlePickerAcceptance(ctx, events.PickerAcceptance{
		OrderID:  ord.ID().String(),
		PickerID: kernel.NewUUID().String(),
	}))

	assert.Empty(t, notifier.all())
}

func TestCoordinator_HandleOrderCancelled_NotifiesEvenWithoutCacheEntry(t *testing.T) {
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	c := newCoordinator(t, cache, new(MockOrderStore), notifier)

	orderID := kernel.NewUUID().String()
	require.NoError(t, c.HandleOrderCancelled(t.Context(), events.OrderCancelled{OrderID: orderID}))

	assert.Equal(t, []push{
		{target: "pickers", msgType: ports.MsgOrderCancelled},
		{target: "customer", id: orderID, msgType: ports.MsgOrderCancelled},
	}, notifier.all())
}

func TestCoordinator_HandleOrderReturnedToPending_RefetchesAndRebroadcasts(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, notifier)

	ord := newTestOrder(t)
	pickerID := kernel.NewUUID()
	orders.On("Get", ctx, ord.ID()).Return(ord, nil).Once()

	require.NoError(t, c.HandleOrderReturnedToPending(ctx, events.OrderReturnedToPending{
		OrderID:  ord.ID().String(),
		PickerID: pickerID.String(),
	}))

	assert.True(t, cache.Contains(ord.ID().String()))
	assert.Equal(t, []push{
		{target: "pickers", msgType: ports.MsgOrderWaiting},
		{target: "customer", id: ord.ID().String(), msgType: ports.MsgPickerUpdate},
	}, notifier.all())
}

func TestCoordinator_HandleOrderReturnedToPending_AllowsReclaim(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, notifier)

	ord := newTestOrder(t)
	snapshot := snapshotOf(t, ord)
	cache.Upsert(snapshot)
	orders.On("Get", ctx, ord.ID()).Return(ord, nil).Once()

	accept := events.PickerAcceptance{
		OrderID:  ord.ID().String(),
		PickerID: kernel.NewUUID().String(),
	}
	require.NoError(t, c.HandlePickerAcceptance(ctx, accept))
	require.NoError(t, c.HandleOrderReturnedToPending(ctx, events.OrderReturnedToPending{
		OrderID:  ord.ID().String(),
		PickerID: accept.PickerID,
	}))

	// a fresh claim after the release notifies again
	require.NoError(t, c.HandlePickerAcceptance(ctx, events.PickerAcceptance{
		OrderID:  ord.ID().String(),
		PickerID: kernel.NewUUID().String(),
	}))

	pushes := notifier.all()
	require.Len(t, pushes, 6)
	assert.Equal(t, push{target: "pickers", msgType: ports.MsgOrderTaken}, pushes[4])
	assert.Equal(t, push{
		target:  "customer",
		id:      ord.ID().String(),
		msgType: ports.MsgPickerUpdate,
	}, pushes[5])
}

func TestCoordinator_HandleOrderReturnedToPending_StaleEventIsIgnored(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, notifier)

	// reclaimed by another picker before this process caught up
	ord := newTestOrder(t)
	require.NoError(t, ord.Assign(kernel.NewUUID()))
	orders.On("Get", ctx, ord.ID()).Return(ord, nil).Once()

	require.NoError(t, c.HandleOrderReturnedToPending(ctx, events.OrderReturnedToPending{
		OrderID:  ord.ID().String(),
		PickerID: kernel.NewUUID().String(),
	}))

	assert.False(t, cache.Contains(ord.ID().String()))
	assert.Empty(t, notifier.all())
}

func TestCoordinator_HandleOrderCompleted_NotifiesBothSides(t *testing.T) {
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	c := newCoordinator(t, cache, new(MockOrderStore), notifier)

	orderID := kernel.NewUUID().String()
	pickerID := kernel.NewUUID().String()
	require.NoError(t, c.HandleOrderCompleted(t.Context(), events.OrderCompleted{
		OrderID:    orderID,
		CustomerID: kernel.NewUUID().String(),
		PickerID:   pickerID,
	}))

	assert.Equal(t, []push{
		{target: "customer", id: orderID, msgType: ports.MsgOrderCompleted},
		{target: "picker", id: pickerID, msgType: ports.MsgOrderCompleted},
	}, notifier.all())
}

func TestCoordinator_HandleLocationUpdated_RefreshesCacheAndNotifiesPicker(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, notifier)

	pickerID := kernel.NewUUID()
	ord := newTestOrder(t)
	require.NoError(t, ord.Assign(pickerID))
	orders.On("Get", ctx, ord.ID()).Return(ord, nil).Once()

	stale := snapshotOf(t, ord)
	cache.Upsert(stale)

	newLocation := events.LocationPayload{
		Address:     "32 New Market Rd",
		Coordinates: events.Coordinates{Lat: 1.285, Lng: 103.843},
		Postal:      "050032",
	}
	require.NoError(t, c.HandleLocationUpdated(ctx, events.LocationUpdated{
		OrderID:     ord.ID().String(),
		NewLocation: newLocation,
	}))

	cached, ok := cache.Get(ord.ID().String())
	require.True(t, ok)
	assert.Equal(t, newLocation, cached.Location)

	require.Len(t, notifier.all(), 1)
	assert.Equal(t, push{
		target:  "picker",
		id:      pickerID.String(),
		msgType: ports.MsgLocationUpdated,
	}, notifier.all()[0])
}

func TestCoordinator_HandleLocationUpdated_UnassignedOrderNotifiesNobody(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	notifier := &recordingNotifier{}
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, notifier)

	ord := newTestOrder(t)
	orders.On("Get", ctx, ord.ID()).Return(ord, nil).Once()

	require.NoError(t, c.HandleLocationUpdated(ctx, events.LocationUpdated{
		OrderID: ord.ID().String(),
	}))

	assert.Empty(t, notifier.all())
}

func TestCoordinator_Resync_ReplacesCache(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	cache.Upsert(events.OrderSnapshot{OrderID: "stale"})
	orders := new(MockOrderStore)
	c := newCoordinator(t, cache, orders, &recordingNotifier{})

	fresh := newTestOrder(t)
	orders.On("GetAllPending", ctx).Return([]*order.Order{fresh}, nil).Once()

	require.NoError(t, c.Resync(ctx))

	assert.Equal(t, 1, cache.Len())
	assert.False(t, cache.Contains("stale"))
	assert.True(t, cache.Contains(fresh.ID().String()))
}

func TestCoordinator_Resync_StoreFailureKeepsCache(t *testing.T) {
	ctx := t.Context()
	cache := pending.NewCache()
	cache.Upsert(events.OrderSnapshot{OrderID: "kept"})
	orders := new(MockOrderStore)
	orders.On("GetAllPending", ctx).Return(nil, errors.New("store down")).Once()

	c := newCoordinator(t, cache, orders, &recordingNotifier{})
	require.Error(t, c.Resync(ctx))
	assert.True(t, cache.Contains("kept"))
}
