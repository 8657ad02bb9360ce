package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
)

// OrderStoreClient implements ports.OrderStore against the Order Store
// service. Orders travel as the same snapshot shape used on the bus.
type OrderStoreClient struct {
	client *client
}

// NewOrderStoreClient creates an Order Store client.
func NewOrderStoreClient(baseURL string, timeout time.Duration, retries int) (*OrderStoreClient, error) {
	c, err := newClient(baseURL, "order-store", timeout, retries)
	if err != nil {
		return nil, err
	}
	return &OrderStoreClient{client: c}, nil
}

// transitionRequest is the Order Store's conditional status write: the store
// applies the transition only while the order is still in the expected
// status, and answers 409 otherwise. The claim race is decided here.
type transitionRequest struct {
	ExpectedStatus string  `json:"expected_status"`
	NewStatus      string  `json:"new_status"`
	PickerID       *string `json:"picker_id,omitempty"`
}

// Add persists a new order.
func (s *OrderStoreClient) Add(ctx context.Context, aggregate *order.Order) error {
	snapshot, err := events.SnapshotFromOrder(aggregate)
	if err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodPost, "/orders", snapshot, nil)
}

// Update overwrites an existing order.
func (s *OrderStoreClient) Update(ctx context.Context, aggregate *order.Order) error {
	snapshot, err := events.SnapshotFromOrder(aggregate)
	if err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodPut, "/orders/"+snapshot.OrderID, snapshot, nil)
}

// Get fetches one order.
func (s *OrderStoreClient) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	var snapshot events.OrderSnapshot
	if err := s.client.do(ctx, http.MethodGet, "/orders/"+id.String(), nil, &snapshot); err != nil {
		return nil, err
	}
	return snapshot.ToOrder()
}

// ClaimIfPending asks the store for the pending-to-assigned transition.
// A 409 from the store means the claim lost the race and surfaces as
// errs.ErrConflict.
func (s *OrderStoreClient) ClaimIfPending(ctx context.Context, orderID, pickerID kernel.UUID) (*order.Order, error) {
	return s.transition(ctx, orderID, transitionRequest{
		ExpectedStatus: order.Pending.String(),
		NewStatus:      order.Assigned.String(),
		PickerID:       ptr(pickerID.String()),
	})
}

// ReleaseIfAssigned asks the store for the assigned-to-pending transition,
// conditional on the order being assigned to this picker.
func (s *OrderStoreClient) ReleaseIfAssigned(ctx context.Context, orderID, pickerID kernel.UUID) (*order.Order, error) {
	return s.transition(ctx, orderID, transitionRequest{
		ExpectedStatus: order.Assigned.String(),
		NewStatus:      order.Pending.String(),
		PickerID:       ptr(pickerID.String()),
	})
}

// GetAllPending lists every order currently pending.
func (s *OrderStoreClient) GetAllPending(ctx context.Context) ([]*order.Order, error) {
	var snapshots []events.OrderSnapshot
	path := fmt.Sprintf("/orders?status=%s", order.Pending)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &snapshots); err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(snapshots))
	for _, snapshot := range snapshots {
		ord, err := snapshot.ToOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, nil
}

func (s *OrderStoreClient) transition(ctx context.Context, orderID kernel.UUID, req transitionRequest) (*order.Order, error) {
	var snapshot events.OrderSnapshot
	path := "/orders/" + orderID.String() + "/status"
	if err := s.client.do(ctx, http.MethodPost, path, req, &snapshot); err != nil {
		return nil, err
	}
	return snapshot.ToOrder()
}

func ptr[T any](v T) *T { return &v }
