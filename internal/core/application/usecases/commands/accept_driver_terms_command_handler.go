package commands

import (
	"context"

	"dispatch/internal/core/domain/model/onboarding"
)

// AcceptDriverTermsCommandHandler starts a fresh onboarding wizard at the region step.
type AcceptDriverTermsCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewAcceptDriverTermsCommandHandler creates the handler that starts the wizard once
// the terms are accepted.
func NewAcceptDriverTermsCommandHandler(deps Deps) AcceptDriverTermsCommandHandler {
	return AcceptDriverTermsCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h AcceptDriverTermsCommandHandler) Handle(ctx context.Context, cmd AcceptDriverTermsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	wizard, err := onboarding.NewOnboarding(cmd.UserID())
	if err != nil {
		return err
	}
	if err := h.deps.Onboarding.Put(ctx, wizard); err != nil {
		return err
	}

	promptOnboardingStage(ctx, h.deps, h.notify, wizard, "")
	return nil
}
