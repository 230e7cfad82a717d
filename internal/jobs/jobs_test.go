package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports/mocks"
	"dispatch/internal/pkg/clock"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestJitteredSchedule_Next(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("without jitter", func(t *testing.T) {
		s := jitteredSchedule{every: 10 * time.Minute}

		assert.Equal(t, start.Add(10*time.Minute), s.Next(start))
	})

	t.Run("with jitter", func(t *testing.T) {
		s := jitteredSchedule{every: 10 * time.Minute, jitter: time.Minute}

		for range 50 {
			next := s.Next(start)
			assert.False(t, next.Before(start.Add(10*time.Minute)))
			assert.True(t, next.Before(start.Add(11*time.Minute)))
		}
	})
}

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (j fakeJob) Start(context.Context) error {
	*j.log = append(*j.log, "start "+j.name)
	return j.startErr
}

func (j fakeJob) Stop() { *j.log = append(*j.log, "stop "+j.name) }

func TestJobManager(t *testing.T) {
	t.Run("stops in reverse order", func(t *testing.T) {
		var log []string
		m := NewJobManager(discard(), fakeJob{name: "a", log: &log}, fakeJob{name: "b", log: &log})

		require.NoError(t, m.StartAll(t.Context()))
		m.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	})

	t.Run("failed start rolls back", func(t *testing.T) {
		var log []string
		m := NewJobManager(discard(),
			fakeJob{name: "a", log: &log},
			fakeJob{name: "b", log: &log, startErr: errors.New("boom")},
			fakeJob{name: "c", log: &log},
		)

		err := m.StartAll(t.Context())

		require.EqualError(t, err, "boom")
		assert.Equal(t, []string{"start a", "start b", "stop a"}, log)
	})
}

func TestEntitlementWatchJob_Run(t *testing.T) {
	// Given a driver whose trial ended yesterday
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	regions, err := kernel.NewRegionCatalog([]kernel.Region{{Name: "Farg'ona", OrderChatID: -1001, DriverChatID: -1002}})
	require.NoError(t, err)
	profiles, err := memory.NewProfileRepository(t.Context(), mocks.NewProfileStore(nil), discard())
	require.NoError(t, err)
	gw := mocks.NewMessagingGateway()
	ents := memory.NewEntitlementRepository()
	require.NoError(t, ents.Update(t.Context(), 7, func(e *entitlement.Entitlement) error {
		return e.GrantTrial(now.Add(-31*24*time.Hour), 30*24*time.Hour, "Farg'ona")
	}))

	deps := commands.Deps{
		Drafts:       memory.NewDraftRepository(),
		Orders:       memory.NewOrderRepository(),
		OrderLocks:   memory.NewKeyedMutex(),
		Profiles:     profiles,
		Entitlements: ents,
		Onboarding:   memory.NewOnboardingRepository(),
		Invites:      memory.NewInviteRepository(),
		Gateway:      gw,
		Regions:      regions,
		Admins:       services.NewAdminPolicy(nil),
		Catalog:      messages.NewCatalog(messages.Settings{}),
		Clock:        clock.NewFake(now),
		Logger:       discard(),
	}
	job := NewEntitlementWatchJob(commands.NewSweepTrialsCommandHandler(deps), 0, 0, discard())

	// When one run happens
	job.Run()

	// Then the driver is removed from the chat and the trial is gone
	gw.AssertCalled(t, "Kick", context.Background(), int64(-1002), kernel.UserID(7))
	holders, err := ents.TrialHolders(t.Context())
	require.NoError(t, err)
	assert.Empty(t, holders)
}

func TestNewEntitlementWatchJob_DefaultsToHourly(t *testing.T) {
	job := NewEntitlementWatchJob(commands.SweepTrialsCommandHandler{}, 0, 0, discard())

	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(time.Hour), job.schedule.Next(start))
}
