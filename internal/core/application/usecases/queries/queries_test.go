package queries_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports/mocks"
	"dispatch/internal/pkg/errs"
)

func TestGetUserCountsQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetUserCountsQuery{}.Validate()

	assert.ErrorIs(t, err, queries.ErrGetUserCountsQueryIsNotConstructed)
}

func TestGetUserCountsQueryHandler_Handle(t *testing.T) {
	// Arrange
	store := mocks.NewProfileStore(map[kernel.UserID]profile.Snapshot{
		1: {Name: "Ali", Phone: "+998901112233"},
		2: {Name: "Vali"},
		3: {Phone: "+998907778899"},
	})
	profiles, err := memory.NewProfileRepository(t.Context(), store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	// Act
	counts, err := queries.NewGetUserCountsQueryHandler(profiles).Handle(t.Context(), queries.NewGetUserCountsQuery())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, queries.GetUserCountsQueryResponse{Total: 3, WithPhone: 2}, counts)
}

type failingProfiles struct {
	mock.Mock
	*memory.ProfileRepository
}

func (f *failingProfiles) Count(ctx context.Context) (int, int, error) {
	args := f.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func TestGetUserCountsQueryHandler_Handle_StoreError(t *testing.T) {
	profiles := &failingProfiles{}
	profiles.On("Count", mock.Anything).Return(0, 0, errors.New("unavailable"))

	_, err := queries.NewGetUserCountsQueryHandler(profiles).Handle(t.Context(), queries.NewGetUserCountsQuery())

	assert.EqualError(t, err, "unavailable")
}

func TestNewGetOrderQuery_InvalidCustomer(t *testing.T) {
	_, err := queries.NewGetOrderQuery(0)

	assert.Error(t, err)
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	orders := memory.NewOrderRepository()
	handler := queries.NewGetOrderQueryHandler(orders)
	query, err := queries.NewGetOrderQuery(10)
	require.NoError(t, err)

	t.Run("missing order", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), query)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("accepted order", func(t *testing.T) {
		// Given an order accepted by driver 20
		when, err := kernel.ParseTimeOfDay("07:30")
		require.NoError(t, err)
		o, err := order.NewOrder(10, order.Details{
			Region: "Farg'ona", Vehicle: "Labo", Pickup: "Bozor", Dropoff: "Vokzal", When: when,
		}, kernel.MessageRef{ChatID: -100, MessageID: 1})
		require.NoError(t, err)
		_, err = o.Accept(20, true, []string{"Farg'ona"})
		require.NoError(t, err)
		_, err = orders.Put(t.Context(), o)
		require.NoError(t, err)

		// When it is looked up
		got, err := handler.Handle(t.Context(), query)

		// Then the read model mirrors it
		require.NoError(t, err)
		assert.Equal(t, queries.GetOrderQueryResponse{
			ID:         o.ID().String(),
			CustomerID: 10,
			Status:     "accepted",
			Region:     "Farg'ona",
			Vehicle:    "Labo",
			Pickup:     "Bozor",
			Dropoff:    "Vokzal",
			When:       "07:30",
			DriverID:   20,
		}, got)
	})
}
