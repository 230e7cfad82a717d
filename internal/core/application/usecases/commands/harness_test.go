package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/reminders"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/core/ports/mocks"
	"dispatch/internal/pkg/clock"
)

const (
	fergana  = "Farg'ona"
	tashkent = "Toshkent"

	ferganaOrders   int64 = -1001
	ferganaDrivers  int64 = -1002
	tashkentOrders  int64 = -2001
	tashkentDrivers int64 = -2002
	paymentsChat    int64 = -3001
	ratingsChat     int64 = -4001

	customer kernel.UserID = 10
	driver   kernel.UserID = 20
	stranger kernel.UserID = 30
	admin    kernel.UserID = 90

	trialTTL = 30 * 24 * time.Hour
)

var evening = time.Date(2025, 3, 1, 18, 10, 0, 0, time.UTC)

type harness struct {
	deps  commands.Deps
	gw    *mocks.MessagingGateway
	clock *clock.Fake
	store *mocks.ProfileStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	regions, err := kernel.NewRegionCatalog([]kernel.Region{
		{Name: fergana, OrderChatID: ferganaOrders, DriverChatID: ferganaDrivers},
		{Name: tashkent, OrderChatID: tashkentOrders, DriverChatID: tashkentDrivers},
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := mocks.NewProfileStore(nil)
	profiles, err := memory.NewProfileRepository(t.Context(), store, logger)
	require.NoError(t, err)

	gw := mocks.NewMessagingGateway()
	clk := clock.NewFake(evening)

	return &harness{
		gw:    gw,
		clock: clk,
		store: store,
		deps: commands.Deps{
			Drafts:       memory.NewDraftRepository(),
			Orders:       memory.NewOrderRepository(),
			OrderLocks:   memory.NewKeyedMutex(),
			Profiles:     profiles,
			Entitlements: memory.NewEntitlementRepository(),
			Onboarding:   memory.NewOnboardingRepository(),
			Invites:      memory.NewInviteRepository(),
			Gateway:      gw,
			Reminders:    reminders.NewScheduler(t.Context(), gw, clk, logger),
			Regions:      regions,
			Admins:       services.NewAdminPolicy([]kernel.UserID{admin}),
			Catalog:      messages.NewCatalog(messages.Settings{CardNumber: "8600 0000 0000 0000", CardHolder: "EltiBer"}),
			Clock:        clk,
			Logger:       logger,
			Settings: commands.Settings{
				RatingsChatID:  ratingsChat,
				PaymentsChatID: paymentsChat,
				TrialTTL:       trialTTL,
				InviteTTL:      24 * time.Hour,
			},
		},
	}
}

// withProfile stores a profile with a phone and the given driver regions.
func (h *harness) withProfile(t *testing.T, id kernel.UserID, name string, regions ...string) {
	t.Helper()
	_, err := h.deps.Profiles.Upsert(t.Context(), id, func(p *profile.Profile) error {
		if err := p.SetContact(name, "998901112233"); err != nil {
			return err
		}
		if len(regions) > 0 {
			p.SetRegions(regions)
		}
		return nil
	})
	require.NoError(t, err)
}

// withOrder posts an open order for customer in region.
func (h *harness) withOrder(t *testing.T, region string) *order.Order {
	t.Helper()
	when, err := kernel.ParseTimeOfDay("19:00")
	require.NoError(t, err)
	o, err := order.NewOrder(customer, order.Details{
		Region: region, Vehicle: "Labo", Pickup: "Bozor", Dropoff: "Vokzal", When: when,
	}, kernel.MessageRef{ChatID: ferganaOrders, MessageID: 500})
	require.NoError(t, err)
	_, err = h.deps.Orders.Put(t.Context(), o)
	require.NoError(t, err)
	return o
}

// withConfirmedDraft walks a draft to the confirm stage.
func (h *harness) withConfirmedDraft(t *testing.T, region string) {
	t.Helper()
	d, err := draft.NewDraft(customer)
	require.NoError(t, err)
	for _, in := range []draft.Input{
		draft.TextInput(region), draft.TextInput("Labo"), draft.TextInput("Bozor"),
		draft.TextInput("Vokzal"), draft.TextInput("19:00"),
	} {
		_, err := d.Submit(in, h.deps.Regions, evening)
		require.NoError(t, err)
	}
	require.Equal(t, draft.StageConfirm, d.Stage())
	_, err = h.deps.Drafts.Put(t.Context(), d)
	require.NoError(t, err)
}

// withWizardAt walks the onboarding wizard of driver to stage.
func (h *harness) withWizardAt(t *testing.T, stage onboarding.Stage, regions ...string) {
	t.Helper()
	o, err := onboarding.NewOnboarding(driver)
	require.NoError(t, err)
	for _, r := range regions {
		_, _, err := o.ToggleRegion(r, h.deps.Regions)
		require.NoError(t, err)
	}
	answers := []string{"Ali Valiyev", "Labo", "01A123BC"}
	if stage > onboarding.StageRegions {
		require.NoError(t, o.FinishRegions())
	}
	for i := 0; o.Stage() < stage && o.Stage() < onboarding.StagePhone; i++ {
		require.NoError(t, o.SubmitText(answers[i]))
	}
	if stage == onboarding.StageAwaitingReceipt {
		require.NoError(t, o.SetPhone("998901112233"))
		require.NoError(t, o.AwaitReceipt())
	}
	require.Equal(t, stage, o.Stage())
	require.NoError(t, h.deps.Onboarding.Put(t.Context(), o))
}

func texts(msgs []ports.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}
