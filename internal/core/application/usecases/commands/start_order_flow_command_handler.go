package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/draft"
)

// StartOrderFlowCommandHandler opens a fresh draft, replacing any draft in progress
// and leaving the driver wizard. A customer without a phone on file is asked for one
// instead and ErrNotOnboarded is returned.
type StartOrderFlowCommandHandler struct {
	deps     Deps
	notify   notifier
	prompter draftPrompter
}

// NewStartOrderFlowCommandHandler creates the handler that opens the order wizard.
func NewStartOrderFlowCommandHandler(deps Deps) StartOrderFlowCommandHandler {
	return StartOrderFlowCommandHandler{deps: deps, notify: newNotifier(deps), prompter: newDraftPrompter(deps)}
}

func (h StartOrderFlowCommandHandler) Handle(ctx context.Context, cmd StartOrderFlowCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	customerID := cmd.CustomerID()

	p, err := lookupProfile(ctx, h.deps, customerID)
	if err != nil {
		return err
	}
	if p == nil || !p.HasPhone() {
		h.notify.sendText(ctx, "ask_phone", int64(customerID), messages.TextAskPhone,
			messages.ContactRequest(messages.LabelSharePhone))
		return ErrNotOnboarded
	}

	if err := h.deps.Onboarding.Delete(ctx, customerID); err != nil {
		return err
	}

	d, err := draft.NewDraft(customerID)
	if err != nil {
		return err
	}
	prev, err := h.deps.Drafts.Put(ctx, d)
	if err != nil {
		return err
	}
	if prev != nil {
		h.notify.delete(ctx, "draft_stale_confirmation", prev.Confirmation())
	}

	h.prompter.prompt(ctx, d, false)
	return nil
}
