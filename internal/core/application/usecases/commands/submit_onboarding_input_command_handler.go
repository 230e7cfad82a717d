package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
)

// SubmitOnboardingInputCommandHandler applies a text reply to the onboarding wizard.
//
// At the region step the reply toggles a region, clears the selection or finishes
// the step; the running selection and price are echoed back. The name and car steps
// take any non-blank text. A valid phone completes the wizard and runs the
// activation step (trial, invites or payment prompt).
//
// Rejected replies are answered with a hint and the error is returned:
// onboarding.ErrUnknownRegion, onboarding.ErrTooManyRegions,
// onboarding.ErrNoRegionsSelected, errs.ErrValueIsRequired or a phone validation error.
type SubmitOnboardingInputCommandHandler struct {
	deps       Deps
	notify     notifier
	activation driverActivation
}

// NewSubmitOnboardingInputCommandHandler creates the handler for driver wizard answers,
// including the activation step after the last one.
func NewSubmitOnboardingInputCommandHandler(deps Deps) SubmitOnboardingInputCommandHandler {
	return SubmitOnboardingInputCommandHandler{
		deps:       deps,
		notify:     newNotifier(deps),
		activation: newDriverActivation(deps),
	}
}

func (h SubmitOnboardingInputCommandHandler) Handle(ctx context.Context, cmd SubmitOnboardingInputCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	driverID := cmd.DriverID()

	wizard, err := h.deps.Onboarding.Get(ctx, driverID)
	if err != nil {
		return err
	}

	switch wizard.Stage() {
	case onboarding.StageRegions:
		return h.regions(ctx, driverID, cmd.Text())
	case onboarding.StagePhone:
		return h.phone(ctx, driverID, cmd.Text())
	case onboarding.StageAwaitingReceipt:
		h.notify.sendText(ctx, "receipt_reminder", int64(driverID), messages.TextAskReceipt, nil)
		return nil
	default:
		return h.answer(ctx, driverID, cmd.Text())
	}
}

func (h SubmitOnboardingInputCommandHandler) regions(ctx context.Context, driverID kernel.UserID, text string) error {
	chat := int64(driverID)
	keyboard := messages.DriverRegions(h.deps.Regions.Names())

	var (
		added    bool
		region   string
		selected []string
	)
	err := h.deps.Onboarding.Update(ctx, driverID, func(o *onboarding.Onboarding) error {
		var err error
		switch text {
		case messages.LabelRegionDone:
			err = o.FinishRegions()
		case messages.LabelRegionClear:
			err = o.ClearRegions()
		default:
			added, region, err = o.ToggleRegion(text, h.deps.Regions)
		}
		selected = o.Regions()
		return err
	})

	switch {
	case errors.Is(err, onboarding.ErrNoRegionsSelected):
		h.notify.sendText(ctx, "onboarding_hint", chat, messages.TextPickAtLeastOne, keyboard)
	case errors.Is(err, onboarding.ErrTooManyRegions):
		h.notify.sendText(ctx, "onboarding_hint", chat, messages.TooManyRegions(), keyboard)
	case errors.Is(err, onboarding.ErrUnknownRegion):
		h.notify.sendText(ctx, "onboarding_hint", chat, messages.TextRegionByButtons, keyboard)
	case err != nil:
	case text == messages.LabelRegionDone:
		h.notify.sendText(ctx, "onboarding_prompt", chat, messages.RegionsChosen(selected), messages.WithBackCancel(nil, 1, true))
	case text == messages.LabelRegionClear:
		h.notify.sendText(ctx, "onboarding_prompt", chat, messages.RegionsCleared(), keyboard)
	default:
		h.notify.sendText(ctx, "onboarding_prompt", chat, messages.RegionToggled(region, added, selected), keyboard)
	}
	return err
}

// answer stores a name or car reply and asks the next question.
func (h SubmitOnboardingInputCommandHandler) answer(ctx context.Context, driverID kernel.UserID, text string) error {
	var current *onboarding.Onboarding
	err := h.deps.Onboarding.Update(ctx, driverID, func(o *onboarding.Onboarding) error {
		err := o.SubmitText(text)
		current = o.Clone()
		return err
	})
	if err != nil && current == nil {
		return err
	}

	p, perr := lookupProfile(ctx, h.deps, driverID)
	if perr != nil {
		h.deps.Logger.Warn("driver profile unavailable", "driver_id", driverID, "error", perr)
	}
	promptOnboardingStage(ctx, h.deps, h.notify, current, profilePhone(p))
	return err
}

func (h SubmitOnboardingInputCommandHandler) phone(ctx context.Context, driverID kernel.UserID, text string) error {
	err := h.deps.Onboarding.Update(ctx, driverID, func(o *onboarding.Onboarding) error {
		return o.SetPhone(text)
	})
	if err != nil {
		if errors.Is(err, onboarding.ErrUnexpectedStage) {
			return err
		}
		p, perr := lookupProfile(ctx, h.deps, driverID)
		if perr != nil {
			h.deps.Logger.Warn("driver profile unavailable", "driver_id", driverID, "error", perr)
		}
		h.notify.sendText(ctx, "onboarding_hint", int64(driverID),
			messages.TextAskDriverPhone+messages.StoredPhoneHint(profilePhone(p)), messages.SharePhone())
		return err
	}
	return h.activation.run(ctx, driverID)
}
