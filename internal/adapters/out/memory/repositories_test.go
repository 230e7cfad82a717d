package memory_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/invite"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports/mocks"
	"dispatch/internal/pkg/errs"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newOrder(t *testing.T, customer kernel.UserID) *order.Order {
	t.Helper()
	when, err := kernel.ParseTimeOfDay("19:00")
	require.NoError(t, err)
	o, err := order.NewOrder(customer, order.Details{Region: "Farg'ona", When: when}, kernel.MessageRef{ChatID: -100, MessageID: 1})
	require.NoError(t, err)
	return o
}

func TestOrderRepository_ConcurrentAcceptHasOneWinner(t *testing.T) {
	// Arrange
	repo := memory.NewOrderRepository()
	_, err := repo.Put(t.Context(), newOrder(t, 1))
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  []kernel.UserID
		rejected int
	)

	// Act
	for driver := kernel.UserID(100); driver < 120; driver++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Update(t.Context(), 1, func(o *order.Order) error {
				_, err := o.Accept(driver, true, []string{"Farg'ona"})
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, driver)
				return
			}
			if errors.Is(err, order.ErrInvalidState) {
				rejected++
			}
		}()
	}
	wg.Wait()

	// Assert
	require.Len(t, winners, 1)
	assert.Equal(t, 19, rejected)
	stored, err := repo.Get(t.Context(), 1)
	require.NoError(t, err)
	driver, ok := stored.Driver()
	require.True(t, ok)
	assert.Equal(t, winners[0], driver)
}

func TestOrderRepository_PutReturnsReplaced(t *testing.T) {
	repo := memory.NewOrderRepository()
	first := newOrder(t, 1)

	prev, err := repo.Put(t.Context(), first)
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = repo.Put(t.Context(), newOrder(t, 1))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.True(t, prev.IsInstance(first.ID()))
}

func TestOrderRepository_RemoveChecksInstance(t *testing.T) {
	repo := memory.NewOrderRepository()
	stale := newOrder(t, 1)
	current := newOrder(t, 1)
	_, _ = repo.Put(t.Context(), current)

	removed, err := repo.Remove(t.Context(), 1, stale.ID())
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = repo.Remove(t.Context(), 1, current.ID())
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.Get(t.Context(), 1)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_UpdateMissing(t *testing.T) {
	repo := memory.NewOrderRepository()

	err := repo.Update(t.Context(), 5, func(*order.Order) error { return nil })

	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestDraftRepository(t *testing.T) {
	repo := memory.NewDraftRepository()
	d, err := draft.NewDraft(9)
	require.NoError(t, err)

	_, err = repo.Get(t.Context(), 9)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	prev, err := repo.Put(t.Context(), d)
	require.NoError(t, err)
	assert.Nil(t, prev)

	require.NoError(t, repo.Update(t.Context(), 9, func(d *draft.Draft) error {
		d.SetConfirmation(kernel.MessageRef{ChatID: 9, MessageID: 3})
		return nil
	}))
	got, err := repo.Get(t.Context(), 9)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Confirmation().MessageID)

	deleted, err := repo.Delete(t.Context(), 9)
	require.NoError(t, err)
	assert.Equal(t, kernel.UserID(9), deleted.CustomerID())

	_, err = repo.Delete(t.Context(), 9)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOnboardingRepository(t *testing.T) {
	repo := memory.NewOnboardingRepository()
	o, err := onboarding.NewOnboarding(4)
	require.NoError(t, err)
	require.NoError(t, repo.Put(t.Context(), o))

	err = repo.Update(t.Context(), 4, func(o *onboarding.Onboarding) error {
		return o.FinishRegions()
	})
	require.ErrorIs(t, err, onboarding.ErrNoRegionsSelected)

	got, err := repo.Get(t.Context(), 4)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StageRegions, got.Stage())

	require.NoError(t, repo.Delete(t.Context(), 4))
	require.NoError(t, repo.Delete(t.Context(), 4))
	_, err = repo.Get(t.Context(), 4)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestEntitlementRepository(t *testing.T) {
	repo := memory.NewEntitlementRepository()

	t.Run("missing_record_is_empty", func(t *testing.T) {
		e, err := repo.Get(t.Context(), 1)
		require.NoError(t, err)
		assert.True(t, e.IsEmpty())
	})

	t.Run("trial_holders", func(t *testing.T) {
		for _, id := range []kernel.UserID{3, 2} {
			require.NoError(t, repo.Update(t.Context(), id, func(e *entitlement.Entitlement) error {
				return e.GrantTrial(now, time.Hour, "Farg'ona")
			}))
		}
		require.NoError(t, repo.Update(t.Context(), 5, func(e *entitlement.Entitlement) error {
			return e.ActivateSubscription([]string{"Andijon"})
		}))

		holders, err := repo.TrialHolders(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []kernel.UserID{2, 3}, holders)
	})

	t.Run("emptied_record_is_dropped", func(t *testing.T) {
		require.NoError(t, repo.Update(t.Context(), 2, func(e *entitlement.Entitlement) error {
			e.Sweep(now.Add(2 * time.Hour))
			return nil
		}))

		holders, err := repo.TrialHolders(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []kernel.UserID{3}, holders)
	})
}

func TestInviteRepository(t *testing.T) {
	repo := memory.NewInviteRepository()

	require.NoError(t, repo.Update(t.Context(), 8, func(b *invite.Bucket) error {
		b.Put(invite.Invite{Region: "Andijon", ChatID: -200})
		return nil
	}))
	b, err := repo.Get(t.Context(), 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"Andijon"}, b.Regions())

	require.NoError(t, repo.Update(t.Context(), 8, func(b *invite.Bucket) error {
		_, ok := b.ConsumeChat(-200)
		assert.True(t, ok)
		return nil
	}))
	b, err = repo.Get(t.Context(), 8)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
}

func TestProfileRepository_LoadUpsertSave(t *testing.T) {
	// Arrange
	store := mocks.NewProfileStore(map[kernel.UserID]profile.Snapshot{
		10: {Name: "Ali", Phone: "+998901112233", Regions: []string{"Andijon"}},
		11: {Name: "Vali"},
	})
	repo, err := memory.NewProfileRepository(t.Context(), store, discard())
	require.NoError(t, err)

	// Act
	p, err := repo.Upsert(t.Context(), 12, func(p *profile.Profile) error {
		return p.SetContact("Gani", "998907778899")
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "+998907778899", p.Phone())

	total, withPhone, err := repo.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, withPhone)

	saved := store.Last()
	require.Len(t, saved, 3)
	assert.Equal(t, "Gani", saved[12].Name)
	assert.Equal(t, []string{"Andijon"}, saved[10].Regions)
}

func TestProfileRepository_FailedCallbackPersistsNothing(t *testing.T) {
	store := mocks.NewProfileStore(nil)
	repo, err := memory.NewProfileRepository(t.Context(), store, discard())
	require.NoError(t, err)

	_, err = repo.Upsert(t.Context(), 12, func(p *profile.Profile) error {
		return p.SetContact("Gani", "  ")
	})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	_, err = repo.Get(t.Context(), 12)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProfileRepository_SaveFailureKeepsMemoryState(t *testing.T) {
	// Arrange
	store := &mocks.ProfileStore{}
	store.On("Load", mock.Anything).Return(map[kernel.UserID]profile.Snapshot{}, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	store.On("Save", mock.Anything, mock.Anything).Return(nil)
	repo, err := memory.NewProfileRepository(t.Context(), store, discard())
	require.NoError(t, err)

	// Act
	_, err = repo.Upsert(t.Context(), 1, func(p *profile.Profile) error { return p.SetContact("A", "+1") })
	require.NoError(t, err)
	assert.Nil(t, store.Last())

	_, err = repo.Upsert(t.Context(), 2, func(p *profile.Profile) error { return p.SetContact("B", "+2") })
	require.NoError(t, err)

	// Assert
	assert.Len(t, store.Last(), 2)
}

func TestProfileRepository_LoadError(t *testing.T) {
	store := &mocks.ProfileStore{}
	store.On("Load", mock.Anything).Return(nil, errors.New("corrupt"))

	_, err := memory.NewProfileRepository(t.Context(), store, discard())

	assert.EqualError(t, err, "corrupt")
}
