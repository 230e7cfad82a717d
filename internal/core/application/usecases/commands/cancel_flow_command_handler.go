package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// CancelFlowCommandHandler leaves both wizards: the draft is dropped together with
// its summary card and the onboarding is abandoned. Orders are not touched.
type CancelFlowCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewCancelFlowCommandHandler creates the handler that abandons any open wizard.
func NewCancelFlowCommandHandler(deps Deps) CancelFlowCommandHandler {
	return CancelFlowCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h CancelFlowCommandHandler) Handle(ctx context.Context, cmd CancelFlowCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := clearWizards(ctx, h.deps, h.notify, cmd.UserID()); err != nil {
		return err
	}

	h.notify.sendText(ctx, "flow_cancelled", int64(cmd.UserID()), messages.TextCancelled, messages.MainMenu())
	return nil
}

// clearWizards drops the user's draft and onboarding, if any.
func clearWizards(ctx context.Context, d Deps, n notifier, userID kernel.UserID) error {
	dr, err := d.Drafts.Delete(ctx, userID)
	switch {
	case err == nil:
		n.delete(ctx, "draft_confirmation", dr.Confirmation())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}
	return d.Onboarding.Delete(ctx, userID)
}
