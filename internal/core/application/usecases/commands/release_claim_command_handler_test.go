package commands_test

import (
	"testing"

	"hawker/internal/core/application/usecases/commands"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/events"
	"hawker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReleaseClaimCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	pickerID := kernel.NewUUID()
	released := newPendingOrder(t)
	cmd, err := commands.NewReleaseClaimCommand(released.ID(), pickerID)
	require.NoError(t, err)

	orders := new(MockOrderStore)
	publisher := new(MockEventPublisher)
	mock.InOrder(
		orders.On("ReleaseIfAssigned", ctx, released.ID(), pickerID).
			Return(released, nil).Once(),
		publisher.On("Publish", ctx, events.OrderReturnedToPending{
			OrderID:  released.ID().String(),
			PickerID: pickerID.String(),
		}).Return(nil).Once(),
	)

	h, err := commands.NewReleaseClaimCommandHandler(orders, publisher)
	require.NoError(t, err)

	ord, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Same(t, released, ord)

	orders.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestReleaseClaimCommandHandler_Handle_WrongPicker(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	pickerID := kernel.NewUUID()
	cmd, err := commands.NewReleaseClaimCommand(orderID, pickerID)
	require.NoError(t, err)

	orders := new(MockOrderStore)
	orders.On("ReleaseIfAssigned", ctx, orderID, pickerID).
		Return(nil, errs.NewConflictError("release", "order is not assigned to this picker")).Once()

	publisher := new(MockEventPublisher)
	h, err := commands.NewReleaseClaimCommandHandler(orders, publisher)
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	assert.ErrorIs(t, err, errs.ErrConflict)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestReleaseClaimCommandHandler_Handle_ValidationError(t *testing.T) {
	h, err := commands.NewReleaseClaimCommandHandler(new(MockOrderStore), new(MockEventPublisher))
	require.NoError(t, err)

	_, err = h.Handle(t.Context(), commands.ReleaseClaimCommand{})
	assert.ErrorIs(t, err, commands.ErrReleaseClaimCommandIsNotConstructed)
}
