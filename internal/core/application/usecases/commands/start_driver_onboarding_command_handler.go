package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/ports"
)

// StartDriverOnboardingCommandHandler leaves any wizard in progress and shows the
// driver requirements with an agree button.
type StartDriverOnboardingCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewStartDriverOnboardingCommandHandler creates the handler that shows the driver terms.
func NewStartDriverOnboardingCommandHandler(deps Deps) StartDriverOnboardingCommandHandler {
	return StartDriverOnboardingCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h StartDriverOnboardingCommandHandler) Handle(ctx context.Context, cmd StartDriverOnboardingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := clearWizards(ctx, h.deps, h.notify, cmd.UserID()); err != nil {
		return err
	}

	h.notify.send(ctx, "driver_requirements", int64(cmd.UserID()), ports.Message{
		Text:    messages.TextDriverRequirements,
		HTML:    true,
		Actions: messages.AgreeActions(),
	})
	return nil
}
