package commands_test

import (
	"errors"
	"sync"
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

func accept(t *testing.T, h *harness, by kernel.UserID) error {
	t.Helper()
	cmd, err := commands.NewAcceptOrderCommand(by, customer)
	require.NoError(t, err)
	return commands.NewAcceptOrderCommandHandler(h.deps).Handle(t.Context(), cmd)
}

func TestNewAcceptOrderCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewAcceptOrderCommand(0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestAcceptOrderCommandHandler_Handle_NotConstructed(t *testing.T) {
	h := newHarness(t)
	err := commands.NewAcceptOrderCommandHandler(h.deps).Handle(t.Context(), commands.AcceptOrderCommand{})
	assert.ErrorIs(t, err, commands.ErrAcceptOrderCommandIsNotConstructed)
}

func TestAcceptOrderCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.withProfile(t, customer, "Mijoz Bir")
	h.withProfile(t, driver, "Haydovchi", fergana)
	posted := h.withOrder(t, fergana)

	// Act
	err := accept(t, h, driver)

	// Assert
	require.NoError(t, err)

	o, err := h.deps.Orders.Get(t.Context(), customer)
	require.NoError(t, err)
	assert.Equal(t, order.Accepted, o.Status())
	got, ok := o.Driver()
	assert.True(t, ok)
	assert.Equal(t, driver, got)
	assert.True(t, o.HasReminders())
	assert.False(t, o.DriverInfo().IsZero())
	assert.False(t, o.CustomerInfo().IsZero())

	toDriver := h.gw.Sent(int64(driver))
	require.Len(t, toDriver, 1)
	assert.Contains(t, toDriver[0].Text, "Mijoz Bir")
	assert.Equal(t, messages.DriverOrderActions(customer), toDriver[0].Actions)

	toCustomer := h.gw.Sent(int64(customer))
	require.Len(t, toCustomer, 1)
	assert.Contains(t, toCustomer[0].Text, "Haydovchi")

	h.gw.AssertCalled(t, "EditText", mock.Anything, posted.DispatchPost(), mock.MatchedBy(func(m ports.Message) bool {
		return m.Actions == nil && len(m.Text) > 0 &&
			m.Text == messages.DispatchPost("Mijoz Bir", posted.Details(), messages.TextStatusAccepted)
	}))
}

func TestAcceptOrderCommandHandler_Handle_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(t *testing.T, h *harness)
		by      kernel.UserID
		wantErr error
	}{
		{
			name:    "no order",
			arrange: func(t *testing.T, h *harness) { h.withProfile(t, driver, "D", fergana) },
			by:      driver,
			wantErr: errs.ErrObjectNotFound,
		},
		{
			name: "own order",
			arrange: func(t *testing.T, h *harness) {
				h.withProfile(t, customer, "C", fergana)
				h.withOrder(t, fergana)
			},
			by:      customer,
			wantErr: order.ErrUnauthorized,
		},
		{
			name: "other region",
			arrange: func(t *testing.T, h *harness) {
				h.withProfile(t, driver, "D", tashkent)
				h.withOrder(t, fergana)
			},
			by:      driver,
			wantErr: order.ErrRegionMismatch,
		},
		{
			name:    "no phone",
			arrange: func(t *testing.T, h *harness) { h.withOrder(t, fergana) },
			by:      driver,
			wantErr: order.ErrPhoneRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			h := newHarness(t)
			tt.arrange(t, h)

			// Act
			err := accept(t, h, tt.by)

			// Assert
			require.ErrorIs(t, err, tt.wantErr)
			if o, err := h.deps.Orders.Get(t.Context(), customer); err == nil {
				assert.Equal(t, order.Open, o.Status())
			}
		})
	}
}

func TestAcceptOrderCommandHandler_Handle_PhoneRequiredPromptsDriver(t *testing.T) {
	h := newHarness(t)
	h.withOrder(t, fergana)

	err := accept(t, h, driver)

	require.ErrorIs(t, err, order.ErrPhoneRequired)
	sent := h.gw.Sent(int64(driver))
	require.Len(t, sent, 1)
	assert.Equal(t, messages.TextAcceptNeedsPhone, sent[0].Text)
	require.NotNil(t, sent[0].Keyboard)
	assert.True(t, sent[0].Keyboard.Rows[0][0].RequestContact)
}

func TestAcceptOrderCommandHandler_Handle_RegionMismatchNamesDriverRegions(t *testing.T) {
	h := newHarness(t)
	h.withProfile(t, driver, "D", tashkent)
	h.withOrder(t, fergana)

	err := accept(t, h, driver)

	var mismatch *order.RegionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, fergana, mismatch.Region)
	assert.Equal(t, []string{tashkent}, mismatch.DriverRegions)
}

func TestAcceptOrderCommandHandler_Handle_DriverWithoutRegionsIsGrantedOrderRegion(t *testing.T) {
	// Given a driver with a phone but no region anywhere
	h := newHarness(t)
	h.withProfile(t, driver, "D")
	h.withOrder(t, fergana)

	// When they accept
	require.NoError(t, accept(t, h, driver))

	// Then the order region becomes theirs
	p, err := h.deps.Profiles.Get(t.Context(), driver)
	require.NoError(t, err)
	assert.Equal(t, []string{fergana}, p.Regions())
}

func TestAcceptOrderCommandHandler_Handle_SecondAcceptFails(t *testing.T) {
	h := newHarness(t)
	h.withProfile(t, driver, "D", fergana)
	h.withProfile(t, stranger, "S", fergana)
	h.withOrder(t, fergana)

	require.NoError(t, accept(t, h, driver))
	err := accept(t, h, stranger)

	assert.ErrorIs(t, err, order.ErrInvalidState)
	assert.Empty(t, h.gw.Sent(int64(stranger)))
}

func TestAcceptOrderCommandHandler_Handle_ConcurrentAcceptsHaveOneWinner(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.withOrder(t, fergana)
	drivers := make([]kernel.UserID, 0, 10)
	for id := kernel.UserID(100); id < 110; id++ {
		h.withProfile(t, id, "D", fergana)
		drivers = append(drivers, id)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
		taken   int
	)

	// Act
	for _, id := range drivers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := accept(t, h, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, order.ErrInvalidState):
				taken++
			}
		}()
	}
	wg.Wait()

	// Assert
	assert.Equal(t, 1, winners)
	assert.Equal(t, len(drivers)-1, taken)
}

func TestAcceptOrderCommandHandler_Handle_UndeliverableDMReopensOrder(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.withProfile(t, driver, "D", fergana)
	h.withOrder(t, fergana)
	h.gw.Fail("Send", errors.New("bot was blocked by the user"), mock.Anything, int64(driver), mock.Anything)

	// Act
	err := accept(t, h, driver)

	// Assert
	require.ErrorIs(t, err, commands.ErrGatewayDeliveryFailed)
	o, err := h.deps.Orders.Get(t.Context(), customer)
	require.NoError(t, err)
	assert.Equal(t, order.Open, o.Status())
	_, assigned := o.Driver()
	assert.False(t, assigned)
	h.gw.AssertNotCalled(t, "EditText", mock.Anything, mock.Anything, mock.Anything)
}
