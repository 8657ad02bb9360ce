package saga_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hawker/internal/core/application/saga"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/domain/model/payment"
	"hawker/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerStore struct{ mock.Mock }

func (m *MockCustomerStore) GetCredits(ctx context.Context, id kernel.UUID) (kernel.Money, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(kernel.Money), args.Error(1)
}

func (m *MockCustomerStore) SetCredits(ctx context.Context, id kernel.UUID, balance kernel.Money) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

type MockPickerStore struct{ mock.Mock }

func (m *MockPickerStore) GetCredits(ctx context.Context, id kernel.UUID) (kernel.Money, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(kernel.Money), args.Error(1)
}

func (m *MockPickerStore) SetCredits(ctx context.Context, id kernel.UUID, balance kernel.Money) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

type MockPaymentLedger struct{ mock.Mock }

func (m *MockPaymentLedger) Append(ctx context.Context, entry *payment.Transaction) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPaymentLedger) Get(ctx context.Context, logID kernel.UUID) (*payment.Transaction, error) {
	args := m.Called(ctx, logID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockPaymentLedger) GetPaymentForOrder(ctx context.Context, orderID kernel.UUID) (*payment.Transaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}

func (m *MockPaymentLedger) MarkRefunded(ctx context.Context, logID kernel.UUID) error {
	args := m.Called(ctx, logID)
	return args.Error(0)
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

func (m *MockOrderStore) GetAllPending(_ context.Context) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func moneyEq(t *testing.T, s string) any {
	t.Helper()
	want := mustMoney(t, s)
	return mock.MatchedBy(func(m kernel.Money) bool {
		return m.IsEqual(want)
	})
}

// newPendingOrder builds an order with a $6.00 total.
func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()

	item, err := order.NewItem("laksa", 2, mustMoney(t, "3.00"))
	require.NoError(t, err)
	location, err := kernel.NewLocation("1 Maxwell Rd", 1.28, 103.84, "069111")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{item}, location)
	require.NoError(t, err)
	return o
}

func newCompletedOrder(t *testing.T, pickerID kernel.UUID) *order.Order {
	t.Helper()

	o := newPendingOrder(t)
	require.NoError(t, o.Assign(pickerID))
	require.NoError(t, o.Complete())
	return o
}

func newOrchestrator(
	t *testing.T,
	customers *MockCustomerStore,
	pickers *MockPickerStore,
	ledger *MockPaymentLedger,
	orders *MockOrderStore,
) *saga.Orchestrator {
	t.Helper()

	o, err := saga.NewOrchestrator(customers, pickers, ledger, orders,
		mustMoney(t, "2.00"), nil)
	require.NoError(t, err)
	return o
}

func TestNewOrchestrator_RequiresDependencies(t *testing.T) {
	_, err := saga.NewOrchestrator(nil, new(MockPickerStore), new(MockPaymentLedger),
		new(MockOrderStore), mustMoney(t, "2.00"), nil)
	require.Error(t, err)

	_, err = saga.NewOrchestrator(new(MockCustomerStore), new(MockPickerStore),
		new(MockPaymentLedger), new(MockOrderStore), kernel.Zero(), nil)
	require.Error(t, err)
}

func TestOrchestrator_Debit_Success(t *testing.T) {
	ctx := t.Context()
	ord := newPendingOrder(t)

	customers := new(MockCustomerStore)
	ledger := new(MockPaymentLedger)
	mock.InOrder(
		customers.On("GetCredits", ctx, ord.CustomerID()).
			Return(mustMoney(t, "10.00"), nil).Once(),
		customers.On("SetCredits", ctx, ord.CustomerID(), moneyEq(t, "4.00")).
			Return(nil).Once(),
		ledger.On("Append", ctx, mock.AnythingOfType("*payment.Transaction")).
			Return(nil).Once(),
	)

	orch := newOrchestrator(t, customers, new(MockPickerStore), ledger, new(MockOrderStore))
	entry, err := orch.Debit(ctx, ord)
	require.NoError(t, err)

	assert.Equal(t, payment.EventPayment, entry.EventType())
	assert.Equal(t, payment.StatusPaid, entry.Status())
	assert.True(t, entry.Amount().Equal(decimal.RequireFromString("-6.00")))
	customers.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestOrchestrator_Debit_InsufficientFunds(t *testing.T) {
	ctx := t.Context()
	ord := newPendingOrder(t)

	customers := new(MockCustomerStore)
	customers.On("GetCredits", ctx, ord.CustomerID()).
		Return(mustMoney(t, "1.00"), nil).Once()

	orch := newOrchestrator(t, customers, new(MockPickerStore), new(MockPaymentLedger), new(MockOrderStore))
	_, err := orch.Debit(ctx, ord)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

	customers.AssertNotCalled(t, "SetCredits", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Debit_JournalFailureRecreditsCustomer(t *testing.T) {
	ctx := t.Context()
	ord := newPendingOrder(t)

	customers := new(MockCustomerStore)
	ledger := new(MockPaymentLedger)
	mock.InOrder(
		customers.On("GetCredits", ctx, ord.CustomerID()).
			Return(mustMoney(t, "10.00"), nil).Once(),
		customers.On("SetCredits", ctx, ord.CustomerID(), moneyEq(t, "4.00")).
			Return(nil).Once(),
		ledger.On("Append", ctx, mock.AnythingOfType("*payment.Transaction")).
			Return(errors.New("ledger down")).Once(),
		customers.On("GetCredits", mock.Anything, ord.CustomerID()).
			Return(mustMoney(t, "4.00"), nil).Once(),
		customers.On("SetCredits", mock.Anything, ord.CustomerID(), moneyEq(t, "10.00")).
			Return(nil).Once(),
	)

	orch := newOrchestrator(t, customers, new(MockPickerStore), ledger, new(MockOrderStore))
	_, err := orch.Debit(ctx, ord)
	require.Error(t, err)

	customers.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestOrchestrator_CreditPickerFee_Success(t *testing.T) {
	ctx := t.Context()
	pickerID := kernel.NewUUID()
	ord := newCompletedOrder(t, pickerID)

	pickers := new(MockPickerStore)
	ledger := new(MockPaymentLedger)
	mock.InOrder(
		pickers.On("GetCredits", ctx, pickerID).
			Return(mustMoney(t, "5.00"), nil).Once(),
		pickers.On("SetCredits", ctx, pickerID, moneyEq(t, "7.00")).
			Return(nil).Once(),
		ledger.On("Append", ctx, mock.AnythingOfType("*payment.Transaction")).
			Return(nil).Once(),
	)

	orch := newOrchestrator(t, new(MockCustomerStore), pickers, ledger, new(MockOrderStore))
	entry, err := orch.CreditPickerFee(ctx, ord)
	require.NoError(t, err)

	assert.Equal(t, payment.EventPickerFee, entry.EventType())
	assert.True(t, entry.Amount().Equal(decimal.RequireFromString("2.00")))
	pickers.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestOrchestrator_CreditPickerFee_NotCompleted(t *testing.T) {
	ord := newPendingOrder(t)

	orch := newOrchestrator(t, new(MockCustomerStore), new(MockPickerStore),
		new(MockPaymentLedger), new(MockOrderStore))
	_, err := orch.CreditPickerFee(t.Context(), ord)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestOrchestrator_CreditPickerFee_JournalFailureIsLossy(t *testing.T) {
	ctx := t.Context()
	pickerID := kernel.NewUUID()
	ord := newCompletedOrder(t, pickerID)

	pickers := new(MockPickerStore)
	ledger := new(MockPaymentLedger)
	mock.InOrder(
		pickers.On("GetCredits", ctx, pickerID).
			Return(mustMoney(t, "5.00"), nil).Once(),
		pickers.On("SetCredits", ctx, pickerID, moneyEq(t, "7.00")).
			Return(nil).Once(),
		ledger.On("Append", ctx, mock.AnythingOfType("*payment.Transaction")).
			Return(errors.New("ledger down")).Once(),
	)

	orch := newOrchestrator(t, new(MockCustomerStore), pickers, ledger, new(MockOrderStore))
	entry, err := orch.CreditPickerFee(ctx, ord)
	require.NoError(t, err)
	assert.Nil(t, entry)

	// the fee stays credited
	pickers.AssertExpectations(t)
}

func paymentEntry(t *testing.T, customerID kernel.UUID, orderID *kernel.UUID, status payment.Status) *payment.Transaction {
	t.Helper()

	entry, err := payment.RestoreTransaction(kernel.NewUUID(), customerID, orderID, nil,
		payment.EventPayment, "Payment", decimal.RequireFromString("-6.00"),
		status, time.Now().UTC())
	require.NoError(t, err)
	return entry
}

func TestOrchestrator_Refund_Success(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	ord := newPendingOrder(t)
	orderID := ord.ID()
	entry := paymentEntry(t, customerID, &orderID, payment.StatusPaid)

	customers := new(MockCustomerStore)
	ledger := new(MockPaymentLedger)
	orders := new(MockOrderStore)
	mock.InOrder(
		ledger.On("Get", ctx, entry.LogID()).Return(entry, nil).Once(),
		ledger.On("MarkRefunded", ctx, entry.LogID()).Return(nil).Once(),
		customers.On("GetCredits", ctx, customerID).
			Return(mustMoney(t, "4.00"), nil).Once(),
		customers.On("SetCredits", ctx, customerID, moneyEq(t, "10.00")).
			Return(nil).Once(),
		orders.On("Get", ctx, orderID).Return(ord, nil).Once(),
		orders.On("Update", ctx, ord).Return(nil).Once(),
	)

	orch := newOrchestrator(t, customers, new(MockPickerStore), ledger, orders)
	require.NoError(t, orch.Refund(ctx, entry.LogID()))

	assert.Equal(t, order.Cancelled, ord.Status())
	customers.AssertExpectations(t)
	ledger.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestOrchestrator_Refund_AlreadyRefundedIsNoOp(t *testing.T) {
	ctx := t.Context()
	entry := paymentEntry(t, kernel.NewUUID(), nil, payment.StatusRefunded)

	ledger := new(MockPaymentLedger)
	ledger.On("Get", ctx, entry.LogID()).Return(entry, nil).Once()

	customers := new(MockCustomerStore)
	orch := newOrchestrator(t, customers, new(MockPickerStore), ledger, new(MockOrderStore))
	require.NoError(t, orch.Refund(ctx, entry.LogID()))

	ledger.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything)
	customers.AssertNotCalled(t, "SetCredits", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Refund_RejectsNonPaymentEntry(t *testing.T) {
	ctx := t.Context()
	entry, err := payment.NewTopUpEntry(kernel.NewUUID(), mustMoney(t, "5.00"))
	require.NoError(t, err)

	ledger := new(MockPaymentLedger)
	ledger.On("Get", ctx, entry.LogID()).Return(entry, nil).Once()

	orch := newOrchestrator(t, new(MockCustomerStore), new(MockPickerStore), ledger, new(MockOrderStore))
	assert.ErrorIs(t, orch.Refund(ctx, entry.LogID()), errs.ErrConflict)
}

func TestOrchestrator_RefundOrder_SkipsCancelledOrder(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	ord := newPendingOrder(t)
	require.NoError(t, ord.Cancel())
	orderID := ord.ID()
	entry := paymentEntry(t, customerID, &orderID, payment.StatusPaid)

	customers := new(MockCustomerStore)
	ledger := new(MockPaymentLedger)
	orders := new(MockOrderStore)
	mock.InOrder(
		ledger.On("GetPaymentForOrder", ctx, orderID).Return(entry, nil).Once(),
		ledger.On("MarkRefunded", ctx, entry.LogID()).Return(nil).Once(),
		customers.On("GetCredits", ctx, customerID).
			Return(mustMoney(t, "4.00"), nil).Once(),
		customers.On("SetCredits", ctx, customerID, moneyEq(t, "10.00")).
			Return(nil).Once(),
		orders.On("Get", ctx, orderID).Return(ord, nil).Once(),
	)

	orch := newOrchestrator(t, customers, new(MockPickerStore), ledger, orders)
	require.NoError(t, orch.RefundOrder(ctx, orderID))

	orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestOrchestrator_TopUp_Success(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()

	customers := new(MockCustomerStore)
	ledger := new(MockPaymentLedger)
	mock.InOrder(
		customers.On("GetCredits", ctx, customerID).
			Return(mustMoney(t, "1.50"), nil).Once(),
		customers.On("SetCredits", ctx, customerID, moneyEq(t, "11.50")).
			Return(nil).Once(),
		ledger.On("Append", ctx, mock.AnythingOfType("*payment.Transaction")).
			Return(nil).Once(),
	)

	orch := newOrchestrator(t, customers, new(MockPickerStore), ledger, new(MockOrderStore))
	entry, err := orch.TopUp(ctx, customerID, mustMoney(t, "10.00"))
	require.NoError(t, err)

	assert.Equal(t, payment.EventCreditTopUp, entry.EventType())
	customers.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestOrchestrator_TopUp_RejectsZeroAmount(t *testing.T) {
	orch := newOrchestrator(t, new(MockCustomerStore), new(MockPickerStore),
		new(MockPaymentLedger), new(MockOrderStore))

	_, err := orch.TopUp(t.Context(), kernel.NewUUID(), kernel.Zero())
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
