package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DraftBackCommandHandler steps the draft one stage up and asks that stage's
// question again. Backing out of the first stage drops the draft and shows the main
// menu, as does pressing back with no draft at all.
type DraftBackCommandHandler struct {
	deps     Deps
	notify   notifier
	prompter draftPrompter
}

// NewDraftBackCommandHandler creates the handler for stepping the order wizard back.
func NewDraftBackCommandHandler(deps Deps) DraftBackCommandHandler {
	return DraftBackCommandHandler{deps: deps, notify: newNotifier(deps), prompter: newDraftPrompter(deps)}
}

func (h DraftBackCommandHandler) Handle(ctx context.Context, cmd DraftBackCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	customerID := cmd.CustomerID()

	var (
		discard bool
		stale   kernel.MessageRef
		current *draft.Draft
	)
	err := h.deps.Drafts.Update(ctx, customerID, func(d *draft.Draft) error {
		discard, stale = d.Back()
		current = d.Clone()
		return nil
	})
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.notify.sendText(ctx, "main_menu", int64(customerID), messages.TextMainMenu, messages.MainMenu())
		return nil
	}
	if err != nil {
		return err
	}

	h.notify.delete(ctx, "draft_stale_confirmation", stale)

	if discard {
		if _, err := h.deps.Drafts.Delete(ctx, customerID); err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
			return err
		}
		h.notify.sendText(ctx, "main_menu", int64(customerID), messages.TextMainMenu, messages.MainMenu())
		return nil
	}

	h.prompter.prompt(ctx, current, false)
	return nil
}
