package commands_test

import (
	"testing"

	"hawker/internal/core/application/usecases/commands"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitOrderCommand(t *testing.T) {
	cmd, err := commands.NewSubmitOrderCommand(kernel.NewUUID(), kernel.NewUUID(),
		mustItems(t), mustLocation(t))
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Len(t, cmd.Items(), 1)
}

func TestNewSubmitOrderCommand_Invalid(t *testing.T) {
	customerID := kernel.NewUUID()
	stallID := kernel.NewUUID()

	tests := []struct {
		name       string
		customerID kernel.UUID
		stallID    kernel.UUID
		items      []order.Item
	}{
		{"missing customer", kernel.UUID{}, stallID, mustItems(t)},
		{"missing stall", customerID, kernel.UUID{}, mustItems(t)},
		{"no items", customerID, stallID, nil},
		{"unconstructed item", customerID, stallID, []order.Item{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewSubmitOrderCommand(tt.customerID, tt.stallID,
				tt.items, mustLocation(t))
			assert.Error(t, err)
		})
	}
}

func TestSubmitOrderCommand_Validate_ZeroValue(t *testing.T) {
	var cmd commands.SubmitOrderCommand
	assert.ErrorIs(t, cmd.Validate(), commands.ErrSubmitOrderCommandIsNotConstructed)
}

func TestNewSubmitOrderCommand_RequiredFieldError(t *testing.T) {
	_, err := commands.NewSubmitOrderCommand(kernel.UUID{}, kernel.NewUUID(),
		mustItems(t), mustLocation(t))
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
