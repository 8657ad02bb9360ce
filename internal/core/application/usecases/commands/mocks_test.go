package commands_test

import (
	"context"
	"testing"

	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/domain/model/payment"
	"hawker/internal/core/events"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func (m *MockOrderStore) ClaimIfPending(ctx context.Context, orderID, pickerID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID, pickerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderStore) ReleaseIfAssigned(ctx context.Context, orderID, pickerID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID, pickerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderStore) GetAllPending(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockPayments struct{ mock.Mock }

func (m *MockPayments) Debit(ctx context.Context, ord *order.Order) (*payment.Transaction, error) {
	args := m.Called(ctx, ord)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockPayments) CreditPickerFee(ctx context.Context, ord *order.Order) (*payment.Transaction, error) {
	args := m.Called(ctx, ord)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockPayments) Refund(ctx context.Context, logID kernel.UUID) error {
	args := m.Called(ctx, logID)
	return args.Error(0)
}

func (m *MockPayments) RefundOrder(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockPayments) TopUp(ctx context.Context, customerID kernel.UUID, amount kernel.Money) (*payment.Transaction, error) {
	args := m.Called(ctx, customerID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func mustLocation(t *testing.T) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation("1 Maxwell Rd", 1.28, 103.84, "069111")
	require.NoError(t, err)
	return l
}

func mustItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem("laksa", 2, mustMoney(t, "3.00"))
	require.NoError(t, err)
	return []order.Item{item}
}

// newPendingOrder builds an order with a $6.00 total.
func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		mustItems(t), mustLocation(t))
	require.NoError(t, err)
	return o
}

func newAssignedOrder(t *testing.T, pickerID kernel.UUID) *order.Order {
	t.Helper()
	o := newPendingOrder(t)
	require.NoError(t, o.Assign(pickerID))
	return o
}
