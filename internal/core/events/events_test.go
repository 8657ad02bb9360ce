package events_test

import (
	"context"
	"encoding/json"
	"testing"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_InjectsTypeDiscriminator(t *testing.T) {
	e := events.PickerAcceptance{
		OrderID:  "o-1",
		PickerID: "p-1",
	}

	data, err := events.Marshal(e)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "picker_acceptance", fields["type"])
	assert.Equal(t, "o-1", fields["order_id"])
	assert.Equal(t, "p-1", fields["picker_id"])
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
	}{
		{"picker acceptance", events.PickerAcceptance{OrderID: "o-1", PickerID: "p-1"}},
		{"order cancelled", events.OrderCancelled{OrderID: "o-2"}},
		{"returned to pending", events.OrderReturnedToPending{OrderID: "o-3", PickerID: "p-2"}},
		{"order completed", events.OrderCompleted{OrderID: "o-4", CustomerID: "c-1", PickerID: "p-3"}},
		{"location updated", events.LocationUpdated{
			OrderID: "o-5",
			NewLocation: events.LocationPayload{
				Address:     "1 Maxwell Rd",
				Coordinates: events.Coordinates{Lat: 1.28, Lng: 103.84},
				Postal:      "069111",
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := events.Marshal(tt.event)
			require.NoError(t, err)

			decoded, err := events.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, tt.event, decoded)
		})
	}
}

func TestUnmarshal_UnknownType(t *testing.T) {
	_, err := events.Unmarshal([]byte(`{"type":"order_exploded","order_id":"o-1"}`))
	assert.Error(t, err)
}

func TestUnmarshal_MissingType(t *testing.T) {
	_, err := events.Unmarshal([]byte(`{"order_id":"o-1"}`))
	assert.Error(t, err)
}

func TestUnmarshal_MalformedJSON(t *testing.T) {
	_, err := events.Unmarshal([]byte(`{"type":`))
	assert.Error(t, err)
}

type recordingHandler struct {
	seen []string
}

func (h *recordingHandler) record(s string) error {
	h.seen = append(h.seen, s)
	return nil
}

func (h *recordingHandler) HandleNewOrder(_ context.Context, e events.NewOrder) error {
	return h.record(e.EventType())
}

func (h *recordingHandler) HandlePickerAcceptance(_ context.Context, e events.PickerAcceptance) error {
	return h.record(e.EventType())
}

func (h *recordingHandler) HandleOrderCancelled(_ context.Context, e events.OrderCancelled) error {
	return h.record(e.EventType())
}

func (h *recordingHandler) HandleOrderReturnedToPending(_ context.Context, e events.OrderReturnedToPending) error {
	return h.record(e.EventType())
}

func (h *recordingHandler) HandleOrderCompleted(_ context.Context, e events.OrderCompleted) error {
	return h.record(e.EventType())
}

func (h *recordingHandler) HandleLocationUpdated(_ context.Context, e events.LocationUpdated) error {
	return h.record(e.EventType())
}

func TestDispatch_RoutesEveryEvent(t *testing.T) {
	all := []events.Event{
		events.NewOrder{OrderID: "o-1"},
		events.PickerAcceptance{OrderID: "o-1", PickerID: "p-1"},
		events.OrderCancelled{OrderID: "o-1"},
		events.OrderReturnedToPending{OrderID: "o-1", PickerID: "p-1"},
		events.OrderCompleted{OrderID: "o-1", CustomerID: "c-1", PickerID: "p-1"},
		events.LocationUpdated{OrderID: "o-1"},
	}

	h := &recordingHandler{}
	for _, e := range all {
		require.NoError(t, events.Dispatch(context.Background(), h, e))
	}

	assert.Equal(t, []string{
		"new_order",
		"picker_acceptance",
		"order_cancelled",
		"order_returned_to_pending",
		"order_completed",
		"location_updated",
	}, h.seen)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	o := newTestOrder(t)

	snapshot, err := events.SnapshotFromOrder(o)
	require.NoError(t, err)

	restored, err := snapshot.ToOrder()
	require.NoError(t, err)

	assert.True(t, restored.ID().IsEqual(o.ID()))
	assert.True(t, restored.CustomerID().IsEqual(o.CustomerID()))
	assert.True(t, restored.StallID().IsEqual(o.StallID()))
	assert.Equal(t, o.Status(), restored.Status())
	assert.Equal(t, o.IsPaid(), restored.IsPaid())
	assert.Len(t, restored.Items(), len(o.Items()))

	wantTotal, err := o.Total()
	require.NoError(t, err)
	gotTotal, err := restored.Total()
	require.NoError(t, err)
	assert.True(t, wantTotal.IsEqual(gotTotal))
}

func TestSnapshot_RoundTripThroughJSON(t *testing.T) {
	o := newTestOrder(t)

	snapshot, err := events.SnapshotFromOrder(o)
	require.NoError(t, err)

	data, err := events.Marshal(events.NewOrder{OrderID: snapshot.OrderID, Order: snapshot})
	require.NoError(t, err)

	decoded, err := events.Unmarshal(data)
	require.NoError(t, err)

	newOrder, ok := decoded.(events.NewOrder)
	require.True(t, ok)

	restored, err := newOrder.Order.ToOrder()
	require.NoError(t, err)
	assert.Equal(t, order.Pending, restored.Status())
}

func TestSnapshot_ToOrder_RejectsBadFields(t *testing.T) {
	o := newTestOrder(t)
	snapshot, err := events.SnapshotFromOrder(o)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(s *events.OrderSnapshot)
	}{
		{"bad order id", func(s *events.OrderSnapshot) { s.OrderID = "not-a-uuid" }},
		{"bad status", func(s *events.OrderSnapshot) { s.Status = "teleporting" }},
		{"picker on pending", func(s *events.OrderSnapshot) {
			id := kernel.NewUUID().String()
			s.PickerID = &id
		}},
		{"no items", func(s *events.OrderSnapshot) { s.Items = nil }},
		{"negative price", func(s *events.OrderSnapshot) { s.Items[0].UnitPrice = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutated := snapshot
			mutated.Items = append([]events.ItemPayload(nil), snapshot.Items...)
			tt.mutate(&mutated)

			_, err := mutated.ToOrder()
			assert.Error(t, err)
		})
	}
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()

	price, err := kernel.MoneyFromString("4.50")
	require.NoError(t, err)
	item, err := order.NewItem("chicken rice", 2, price)
	require.NoError(t, err)

	location, err := kernel.NewLocation("1 Maxwell Rd", 1.28, 103.84, "069111")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{item}, location)
	require.NoError(t, err)
	return o
}
