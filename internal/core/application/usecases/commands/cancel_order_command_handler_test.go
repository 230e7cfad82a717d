package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

func cancelOrder(t *testing.T, h *harness, by kernel.UserID) (order.CancelActor, error) {
	t.Helper()
	cmd, err := commands.NewCancelOrderCommand(by, customer)
	require.NoError(t, err)
	return commands.NewCancelOrderCommandHandler(h.deps).Handle(t.Context(), cmd)
}

func TestCancelOrderCommandHandler_Handle_ByCustomer(t *testing.T) {
	// Arrange
	h := newHarness(t)
	accepted := acceptedByDriver(t, h)

	// Act
	actor, err := cancelOrder(t, h, customer)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.CancelledByCustomer, actor)

	_, err = h.deps.Orders.Get(t.Context(), customer)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	h.gw.AssertCalled(t, "Delete", mock.Anything, accepted.DispatchPost())
	assert.Contains(t, texts(h.gw.Sent(int64(driver))), messages.TextCustomerCancelledToDriver)
	assert.Contains(t, texts(h.gw.Sent(int64(customer))), messages.TextCustomerCancelled)
	assert.Zero(t, h.clock.Pending())
}

func TestCancelOrderCommandHandler_Handle_ByDriverReopens(t *testing.T) {
	// Arrange
	h := newHarness(t)
	accepted := acceptedByDriver(t, h)

	// Act
	actor, err := cancelOrder(t, h, driver)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.CancelledByDriver, actor)

	o, err := h.deps.Orders.Get(t.Context(), customer)
	require.NoError(t, err)
	assert.Equal(t, order.Open, o.Status())
	assert.True(t, o.IsInstance(accepted.ID()))
	assert.False(t, o.HasReminders())

	h.gw.AssertCalled(t, "Delete", mock.Anything, accepted.CustomerInfo())
	h.gw.AssertCalled(t, "EditText", mock.Anything, accepted.DispatchPost(), mock.MatchedBy(func(m ports.Message) bool {
		return len(m.Actions) == 1 && m.Actions[0][0].Data == messages.AcceptData(customer)
	}))
	assert.Contains(t, texts(h.gw.Sent(int64(customer))), messages.TextDriverCancelledToCustomer)

	// the order can be taken again
	require.NoError(t, accept(t, h, driver))
}

func TestCancelOrderCommandHandler_Handle_ByAdmin(t *testing.T) {
	h := newHarness(t)
	h.withOrder(t, fergana)

	actor, err := cancelOrder(t, h, admin)

	require.NoError(t, err)
	assert.Equal(t, order.CancelledByAdmin, actor)
	assert.Contains(t, texts(h.gw.Sent(int64(customer))), messages.TextAdminCancelledToCustomer)
	_, err = h.deps.Orders.Get(t.Context(), customer)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCancelOrderCommandHandler_Handle_Rejections(t *testing.T) {
	t.Run("stranger", func(t *testing.T) {
		h := newHarness(t)
		h.withOrder(t, fergana)

		_, err := cancelOrder(t, h, stranger)

		assert.ErrorIs(t, err, order.ErrUnauthorized)
	})

	t.Run("completed", func(t *testing.T) {
		h := newHarness(t)
		acceptedByDriver(t, h)
		require.NoError(t, complete(t, h, driver))

		_, err := cancelOrder(t, h, customer)

		assert.ErrorIs(t, err, order.ErrAlreadyFinal)
	})

	t.Run("missing", func(t *testing.T) {
		h := newHarness(t)

		_, err := cancelOrder(t, h, customer)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
