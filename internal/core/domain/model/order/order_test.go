package order_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

const (
	customer kernel.UserID = 100
	driver   kernel.UserID = 200
	stranger kernel.UserID = 300
)

type countingHandle struct{ cancels atomic.Int32 }

func (h *countingHandle) Cancel() { h.cancels.Add(1) }

func details(t *testing.T) order.Details {
	t.Helper()
	when, err := kernel.ParseTimeOfDay("19:00")
	require.NoError(t, err)
	return order.Details{Region: "Farg'ona", Vehicle: "Labo", Pickup: "Bozor", Dropoff: "Vokzal", When: when}
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(customer, details(t), kernel.MessageRef{ChatID: -1001, MessageID: 10})
	require.NoError(t, err)
	return o
}

func acceptedOrder(t *testing.T) (*order.Order, *countingHandle) {
	t.Helper()
	o := newOrder(t)
	_, err := o.Accept(driver, true, []string{"Farg'ona"})
	require.NoError(t, err)
	h := &countingHandle{}
	require.NoError(t, o.AttachReminders(h))
	return o, h
}

func TestNewOrder(t *testing.T) {
	t.Run("creates an open order", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		require.NoError(t, o.ID().Validate())
		assert.Equal(t, order.Open, o.Status())
		assert.Equal(t, customer, o.CustomerID())
		_, hasDriver := o.Driver()
		assert.False(t, hasDriver)
		assert.Equal(t, kernel.MessageRef{ChatID: -1001, MessageID: 10}, o.DispatchPost())
	})

	t.Run("each order is a new instance", func(t *testing.T) {
		a, b := newOrder(t), newOrder(t)
		assert.False(t, a.IsInstance(b.ID()))
		assert.True(t, a.IsInstance(a.ID()))
	})

	t.Run("requires customer, region and time", func(t *testing.T) {
		_, err := order.NewOrder(0, order.Details{}, kernel.MessageRef{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "region")
		assert.Contains(t, err.Error(), "when")
	})

	t.Run("reports missing region and time together", func(t *testing.T) {
		_, err := order.NewOrder(customer, order.Details{Pickup: "Bozor"}, kernel.MessageRef{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "region")
		assert.Contains(t, err.Error(), "when")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Accept(t *testing.T) {
	t.Run("assigns the driver", func(t *testing.T) {
		o := newOrder(t)

		grant, err := o.Accept(driver, true, []string{"Andijon", "Farg'ona"})

		require.NoError(t, err)
		assert.False(t, grant)
		assert.Equal(t, order.Accepted, o.Status())
		got, ok := o.Driver()
		assert.True(t, ok)
		assert.Equal(t, driver, got)
	})

	t.Run("driver without regions is granted the order region", func(t *testing.T) {
		o := newOrder(t)

		grant, err := o.Accept(driver, true, nil)

		require.NoError(t, err)
		assert.True(t, grant)
	})

	t.Run("second accept fails", func(t *testing.T) {
		o, _ := acceptedOrder(t)

		_, err := o.Accept(stranger, true, nil)

		require.ErrorIs(t, err, order.ErrInvalidState)
		got, _ := o.Driver()
		assert.Equal(t, driver, got)
	})

	t.Run("customer cannot accept", func(t *testing.T) {
		o := newOrder(t)

		_, err := o.Accept(customer, true, nil)

		require.ErrorIs(t, err, order.ErrUnauthorized)
		assert.Equal(t, order.Open, o.Status())
	})

	t.Run("phone required", func(t *testing.T) {
		o := newOrder(t)

		_, err := o.Accept(driver, false, []string{"Farg'ona"})

		require.ErrorIs(t, err, order.ErrPhoneRequired)
		assert.Equal(t, order.Open, o.Status())
	})

	t.Run("region mismatch names driver regions", func(t *testing.T) {
		o := newOrder(t)

		_, err := o.Accept(driver, true, []string{"Andijon", "Namangan"})

		require.ErrorIs(t, err, order.ErrRegionMismatch)
		var mismatch *order.RegionMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "Farg'ona", mismatch.Region)
		assert.Equal(t, []string{"Andijon", "Namangan"}, mismatch.DriverRegions)
		assert.Equal(t, order.Open, o.Status())
	})
}

func TestOrder_Accept_Concurrent(t *testing.T) {
	// Arrange
	o := newOrder(t)
	var mu sync.Mutex
	var wins atomic.Int32
	var wg sync.WaitGroup

	// Act
	for i := range 50 {
		wg.Add(1)
		go func(id kernel.UserID) {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			if _, err := o.Accept(id, true, nil); err == nil {
				wins.Add(1)
			} else if !errors.Is(err, order.ErrInvalidState) {
				t.Errorf("unexpected error: %v", err)
			}
		}(kernel.UserID(1000 + i))
	}
	wg.Wait()

	// Assert
	assert.Equal(t, int32(1), wins.Load())
}

func TestOrder_AttachReminders(t *testing.T) {
	t.Run("replacing cancels the previous group", func(t *testing.T) {
		o, first := acceptedOrder(t)
		second := &countingHandle{}

		require.NoError(t, o.AttachReminders(second))

		assert.Equal(t, int32(1), first.cancels.Load())
		assert.Equal(t, int32(0), second.cancels.Load())
	})

	t.Run("open order rejects and cancels the group", func(t *testing.T) {
		o := newOrder(t)
		h := &countingHandle{}

		err := o.AttachReminders(h)

		require.ErrorIs(t, err, order.ErrInvalidState)
		assert.Equal(t, int32(1), h.cancels.Load())
		assert.False(t, o.HasReminders())
	})
}

func TestOrder_Complete(t *testing.T) {
	t.Run("assigned driver completes", func(t *testing.T) {
		o, h := acceptedOrder(t)

		require.NoError(t, o.Complete(driver))

		assert.Equal(t, order.Completed, o.Status())
		assert.Equal(t, int32(1), h.cancels.Load())
		assert.False(t, o.HasReminders())
	})

	t.Run("other actor is rejected", func(t *testing.T) {
		o, h := acceptedOrder(t)

		require.ErrorIs(t, o.Complete(stranger), order.ErrNotAssignedDriver)
		require.ErrorIs(t, o.Complete(customer), order.ErrNotAssignedDriver)

		assert.Equal(t, order.Accepted, o.Status())
		assert.Equal(t, int32(0), h.cancels.Load())
	})

	t.Run("open order has no driver", func(t *testing.T) {
		o := newOrder(t)
		require.ErrorIs(t, o.Complete(driver), order.ErrNotAssignedDriver)
	})

	t.Run("completed twice", func(t *testing.T) {
		o, _ := acceptedOrder(t)
		require.NoError(t, o.Complete(driver))

		require.ErrorIs(t, o.Complete(driver), order.ErrInvalidState)
	})
}

func TestOrder_Rate(t *testing.T) {
	completed := func(t *testing.T) *order.Order {
		o, _ := acceptedOrder(t)
		require.NoError(t, o.Complete(driver))
		return o
	}

	t.Run("customer rates once", func(t *testing.T) {
		o := completed(t)

		stored, changed, err := o.Rate(customer, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, stored)
		assert.True(t, changed)

		stored, changed, err = o.Rate(customer, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, stored)
		assert.False(t, changed)

		rating, ok := o.Rating()
		assert.True(t, ok)
		assert.Equal(t, 4, rating)
	})

	t.Run("score is clamped", func(t *testing.T) {
		high := completed(t)
		stored, _, err := high.Rate(customer, 9)
		require.NoError(t, err)
		assert.Equal(t, order.MaxRating, stored)

		low := completed(t)
		stored, _, err = low.Rate(customer, -3)
		require.NoError(t, err)
		assert.Equal(t, order.MinRating, stored)
	})

	t.Run("only the owner", func(t *testing.T) {
		o := completed(t)
		_, _, err := o.Rate(driver, 5)
		require.ErrorIs(t, err, order.ErrNotOwner)
	})

	t.Run("only completed orders", func(t *testing.T) {
		o, _ := acceptedOrder(t)
		_, _, err := o.Rate(customer, 5)
		require.ErrorIs(t, err, order.ErrInvalidState)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("customer removes", func(t *testing.T) {
		o, h := acceptedOrder(t)

		c, err := o.Cancel(customer, false)

		require.NoError(t, err)
		assert.Equal(t, order.CancelledByCustomer, c.Actor)
		assert.True(t, c.Removed)
		assert.Equal(t, driver, c.Driver)
		assert.Equal(t, int32(1), h.cancels.Load())
	})

	t.Run("assigned driver reopens", func(t *testing.T) {
		o, h := acceptedOrder(t)
		o.SetCustomerInfo(kernel.MessageRef{ChatID: int64(customer), MessageID: 5})
		o.SetDriverInfo(kernel.MessageRef{ChatID: int64(driver), MessageID: 6})

		c, err := o.Cancel(driver, false)

		require.NoError(t, err)
		assert.Equal(t, order.CancelledByDriver, c.Actor)
		assert.False(t, c.Removed)
		assert.Equal(t, kernel.MessageRef{ChatID: int64(customer), MessageID: 5}, c.CustomerInfo)
		assert.Equal(t, kernel.MessageRef{ChatID: int64(driver), MessageID: 6}, c.DriverInfo)
		assert.Equal(t, order.Open, o.Status())
		_, hasDriver := o.Driver()
		assert.False(t, hasDriver)
		assert.True(t, o.CustomerInfo().IsZero())
		assert.Equal(t, int32(1), h.cancels.Load())

		_, err = o.Accept(stranger, true, nil)
		require.NoError(t, err)
	})

	t.Run("admin removes", func(t *testing.T) {
		o, _ := acceptedOrder(t)

		c, err := o.Cancel(stranger, true)

		require.NoError(t, err)
		assert.Equal(t, order.CancelledByAdmin, c.Actor)
		assert.True(t, c.Removed)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		o, h := acceptedOrder(t)

		_, err := o.Cancel(stranger, false)

		require.ErrorIs(t, err, order.ErrUnauthorized)
		assert.Equal(t, order.Accepted, o.Status())
		assert.Equal(t, int32(0), h.cancels.Load())
	})

	t.Run("completed is final even for the customer", func(t *testing.T) {
		o, _ := acceptedOrder(t)
		require.NoError(t, o.Complete(driver))

		_, err := o.Cancel(customer, true)

		require.ErrorIs(t, err, order.ErrAlreadyFinal)
	})
}
