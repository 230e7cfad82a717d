package commands

import (
	"context"

	"dispatch/internal/core/domain/model/onboarding"
)

// OnboardingBackCommandHandler steps the wizard one stage up. Backing out of the
// region step ends the wizard; at the receipt step the payment prompt is repeated.
// A driver without a wizard gets errs.ErrObjectNotFound so the caller can try the
// draft instead.
type OnboardingBackCommandHandler struct {
	deps       Deps
	notify     notifier
	activation driverActivation
}

// NewOnboardingBackCommandHandler creates the handler for stepping the driver wizard back.
func NewOnboardingBackCommandHandler(deps Deps) OnboardingBackCommandHandler {
	return OnboardingBackCommandHandler{deps: deps, notify: newNotifier(deps), activation: newDriverActivation(deps)}
}

func (h OnboardingBackCommandHandler) Handle(ctx context.Context, cmd OnboardingBackCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	driverID := cmd.DriverID()

	var (
		outcome onboarding.BackOutcome
		current *onboarding.Onboarding
	)
	err := h.deps.Onboarding.Update(ctx, driverID, func(o *onboarding.Onboarding) error {
		outcome = o.Back()
		current = o.Clone()
		return nil
	})
	if err != nil {
		return err
	}

	switch outcome {
	case onboarding.BackAbandoned:
		return h.activation.finish(ctx, driverID)
	case onboarding.BackRepeatPayment:
		regions := current.Regions()
		h.notify.send(ctx, "payment_prompt", int64(driverID), h.deps.Catalog.PaymentPrompt(regions))
		return nil
	default:
		p, err := lookupProfile(ctx, h.deps, driverID)
		if err != nil {
			h.deps.Logger.Warn("driver profile unavailable", "driver_id", driverID, "error", err)
		}
		promptOnboardingStage(ctx, h.deps, h.notify, current, profilePhone(p))
		return nil
	}
}
