package commands

import (
	"context"
	"errors"
	"slices"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/pkg/metrics"
)

// driverActivation is the step after the wizard has every answer. It stores the
// answers on the profile and then either
//   - sends invites for new regions to a driver with an active subscription,
//   - starts the one-time trial in the first region, asking payment for the rest, or
//   - asks for payment when the trial was used before.
type driverActivation struct {
	deps    Deps
	notify  notifier
	inviter SendRegionInviteCommandHandler
}

func newDriverActivation(deps Deps) driverActivation {
	return driverActivation{deps: deps, notify: newNotifier(deps), inviter: NewSendRegionInviteCommandHandler(deps)}
}

func (a driverActivation) run(ctx context.Context, driverID kernel.UserID) error {
	wizard, err := a.deps.Onboarding.Get(ctx, driverID)
	if err != nil {
		return err
	}
	stored, err := lookupProfile(ctx, a.deps, driverID)
	if err != nil {
		return err
	}

	regions := wizard.Regions()
	if len(regions) == 0 && stored != nil {
		regions = stored.Regions()
	}
	if len(regions) == 0 {
		return a.restart(ctx, driverID)
	}

	applicant := wizard.Applicant()
	p, err := a.deps.Profiles.Upsert(ctx, driverID, func(p *profile.Profile) error {
		if applicant.Phone != "" {
			if err := p.SetContact("", applicant.Phone); err != nil {
				return err
			}
		}
		p.FillName(applicant.Name)
		p.SetRegions(regions)
		return nil
	})
	if err != nil {
		return err
	}

	ent, err := a.deps.Entitlements.Get(ctx, driverID)
	if err != nil {
		return err
	}

	if ent.HasActiveSubscription() {
		return a.extendSubscription(ctx, driverID, ent, regions)
	}
	// The trial is claimed again under the profile lock in startTrial.
	if _, used := p.TrialGrantedAt(); !used {
		return a.startTrial(ctx, wizard, p, regions)
	}
	return a.refuseTrial(ctx, wizard, p, regions)
}

func (a driverActivation) startTrial(ctx context.Context, wizard *onboarding.Onboarding, p *profile.Profile, regions []string) error {
	driverID := wizard.DriverID()
	now := a.deps.Clock.Now()
	ttl := a.deps.Settings.TrialTTL
	first := regions[0]

	claimed, err := a.deps.Profiles.Upsert(ctx, driverID, func(p *profile.Profile) error {
		if err := p.ClaimTrial(now, ttl); err != nil {
			return err
		}
		p.AddRegions(regions...)
		return nil
	})
	if errors.Is(err, profile.ErrTrialAlreadyUsed) {
		current, err := lookupProfile(ctx, a.deps, driverID)
		if err != nil {
			return err
		}
		if current != nil {
			p = current
		}
		return a.refuseTrial(ctx, wizard, p, regions)
	}
	if err != nil {
		return err
	}

	a.notify.sendText(ctx, "trial_starting", int64(driverID), messages.TextTrialStarting, messages.RemoveKeyboard())

	err = a.deps.Entitlements.Update(ctx, driverID, func(e *entitlement.Entitlement) error {
		return e.GrantTrial(now, ttl, first)
	})
	if errors.Is(err, entitlement.ErrTrialAlreadyGranted) {
		return a.refuseTrial(ctx, wizard, claimed, regions)
	}
	if err != nil {
		return err
	}
	metrics.TrialsTotal.WithLabelValues("granted").Inc()
	a.deps.Logger.Info("trial granted", "driver_id", driverID, "region", first, "expires_at", now.Add(ttl))

	cmd, err := NewSendRegionInviteCommand(driverID, first, messages.TrialInvite(first, now.Add(ttl)))
	if err != nil {
		return err
	}
	if err := a.inviter.Handle(ctx, cmd); err != nil {
		a.deps.Logger.Warn("trial invite not delivered", "driver_id", driverID, "region", first, "error", err)
		a.notify.sendText(ctx, "invite_failed", int64(driverID), messages.TextInviteFailed, nil)
	}

	if len(regions) > 1 {
		a.notify.sendText(ctx, "other_regions", int64(driverID), messages.OtherRegionsNeedPayment(regions[1:]), nil)
		return a.askPayment(ctx, wizard, p, regions)
	}
	return a.finish(ctx, driverID)
}

func (a driverActivation) refuseTrial(ctx context.Context, wizard *onboarding.Onboarding, p *profile.Profile, regions []string) error {
	at, joined := p.TrialJoinedAt()
	if !joined {
		at, _ = p.TrialGrantedAt()
	}
	metrics.TrialsTotal.WithLabelValues("refused").Inc()
	a.notify.sendText(ctx, "trial_used", int64(wizard.DriverID()), messages.TrialAlreadyUsed(at), messages.RemoveKeyboard())
	return a.askPayment(ctx, wizard, p, regions)
}

// extendSubscription invites a subscribed driver to the regions they do not hold yet.
func (a driverActivation) extendSubscription(ctx context.Context, driverID kernel.UserID, ent *entitlement.Entitlement, regions []string) error {
	sub, _ := ent.Subscription()
	fresh := slices.DeleteFunc(slices.Clone(regions), func(r string) bool { return slices.Contains(sub.Regions, r) })
	if len(fresh) == 0 {
		a.notify.sendText(ctx, "subscription_alive", int64(driverID), messages.TextSubscriptionAlive, nil)
		return a.finish(ctx, driverID)
	}

	sent := 0
	for _, region := range fresh {
		cmd, err := NewSendRegionInviteCommand(driverID, region, messages.SubscriptionInvite(region))
		if err != nil {
			return err
		}
		if err := a.inviter.Handle(ctx, cmd); err != nil {
			a.deps.Logger.Warn("subscription invite not delivered", "driver_id", driverID, "region", region, "error", err)
			continue
		}
		if err := a.deps.Entitlements.Update(ctx, driverID, func(e *entitlement.Entitlement) error {
			e.AddRegion(region)
			return nil
		}); err != nil {
			return err
		}
		sent++
	}
	if sent == 0 {
		a.notify.sendText(ctx, "invite_failed", int64(driverID), messages.TextInviteFailed, nil)
	}
	return a.finish(ctx, driverID)
}

// askPayment echoes the answers, shows the payment card and parks the wizard until
// a receipt arrives.
func (a driverActivation) askPayment(ctx context.Context, wizard *onboarding.Onboarding, p *profile.Profile, regions []string) error {
	driverID := wizard.DriverID()
	applicant := wizard.Applicant()
	phone := applicant.Phone
	if phone == "" {
		phone = p.Phone()
	}

	a.notify.sendText(ctx, "application_summary", int64(driverID),
		messages.ApplicationSummary(applicant.Name, applicant.CarMake, applicant.CarPlate, phone, regions), nil)
	a.notify.send(ctx, "payment_prompt", int64(driverID), a.deps.Catalog.PaymentPrompt(regions))

	if len(wizard.Regions()) == 0 {
		parked, err := onboarding.NewAwaitingReceipt(driverID, regions)
		if err != nil {
			return err
		}
		return a.deps.Onboarding.Put(ctx, parked)
	}
	return a.deps.Onboarding.Update(ctx, driverID, func(o *onboarding.Onboarding) error {
		return o.AwaitReceipt()
	})
}

// finish ends the wizard and restores the main menu.
func (a driverActivation) finish(ctx context.Context, driverID kernel.UserID) error {
	if err := a.deps.Onboarding.Delete(ctx, driverID); err != nil {
		return err
	}
	a.notify.sendText(ctx, "main_menu", int64(driverID), messages.TextMainMenu, messages.MainMenu())
	return nil
}

// restart sends a driver with no known region back to the region step.
func (a driverActivation) restart(ctx context.Context, driverID kernel.UserID) error {
	fresh, err := onboarding.NewOnboarding(driverID)
	if err != nil {
		return err
	}
	if err := a.deps.Onboarding.Put(ctx, fresh); err != nil {
		return err
	}
	promptOnboardingStage(ctx, a.deps, a.notify, fresh, "")
	return ErrDriverRegionsUnknown
}
