package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/pkg/errs"
)

// ShareContactCommandHandler stores a shared phone on the profile. A driver at the
// wizard's phone step continues to the activation step; everyone else gets the main
// menu.
//
// Returns kernel phone validation errors unchanged.
type ShareContactCommandHandler struct {
	deps       Deps
	notify     notifier
	activation driverActivation
}

// NewShareContactCommandHandler creates the handler that stores shared contacts.
func NewShareContactCommandHandler(deps Deps) ShareContactCommandHandler {
	return ShareContactCommandHandler{deps: deps, notify: newNotifier(deps), activation: newDriverActivation(deps)}
}

func (h ShareContactCommandHandler) Handle(ctx context.Context, cmd ShareContactCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	userID := cmd.UserID()

	if _, err := h.deps.Profiles.Upsert(ctx, userID, func(p *profile.Profile) error {
		return p.SetContact(cmd.Name(), cmd.Phone())
	}); err != nil {
		return err
	}

	err := h.deps.Onboarding.Update(ctx, userID, func(o *onboarding.Onboarding) error {
		return o.SetPhone(cmd.Phone())
	})
	switch {
	case err == nil:
		return h.activation.run(ctx, userID)
	case errors.Is(err, errs.ErrObjectNotFound), errors.Is(err, onboarding.ErrUnexpectedStage):
	default:
		return err
	}

	h.notify.sendText(ctx, "phone_saved", int64(userID), messages.TextPhoneSaved, messages.RemoveKeyboard())
	h.notify.sendText(ctx, "main_menu", int64(userID), messages.TextMenuAfterPhone, messages.MainMenu())
	return nil
}
