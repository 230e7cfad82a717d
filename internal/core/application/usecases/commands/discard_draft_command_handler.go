package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/pkg/errs"
)

// DiscardDraftCommandHandler drops the draft behind a summary card. Only the owner
// may press it (ErrNotYourButton); a missing draft is answered like a discarded one.
type DiscardDraftCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewDiscardDraftCommandHandler creates the handler for dropping drafts.
func NewDiscardDraftCommandHandler(deps Deps) DiscardDraftCommandHandler {
	return DiscardDraftCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h DiscardDraftCommandHandler) Handle(ctx context.Context, cmd DiscardDraftCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.ActorID() != cmd.CustomerID() {
		return ErrNotYourButton
	}
	customerID := cmd.CustomerID()

	d, err := h.deps.Drafts.Delete(ctx, customerID)
	switch {
	case err == nil:
		h.notify.delete(ctx, "draft_confirmation", d.Confirmation())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	h.notify.sendText(ctx, "draft_discarded", int64(customerID), messages.TextDraftCancelled, messages.MainMenu())
	return nil
}
