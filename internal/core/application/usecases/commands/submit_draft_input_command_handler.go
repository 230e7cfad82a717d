package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
)

// SubmitDraftInputCommandHandler applies a customer reply to their draft and asks
// the next question.
//
// A rejected reply is answered with a hint and the draft error is returned:
// draft.ErrUnknownRegion, draft.ErrInvalidTime, draft.ErrAwaitingConfirmation or
// draft.ErrUnexpectedInput. A customer without a draft gets errs.ErrObjectNotFound.
//
// A region chosen here is remembered on the profile so a later commit can fall back
// to it.
type SubmitDraftInputCommandHandler struct {
	deps     Deps
	notify   notifier
	prompter draftPrompter
}

// NewSubmitDraftInputCommandHandler creates the handler for order wizard answers.
func NewSubmitDraftInputCommandHandler(deps Deps) SubmitDraftInputCommandHandler {
	return SubmitDraftInputCommandHandler{deps: deps, notify: newNotifier(deps), prompter: newDraftPrompter(deps)}
}

func (h SubmitDraftInputCommandHandler) Handle(ctx context.Context, cmd SubmitDraftInputCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	customerID := cmd.CustomerID()

	var (
		from    draft.Stage
		stale   kernel.MessageRef
		current *draft.Draft
	)
	err := h.deps.Drafts.Update(ctx, customerID, func(d *draft.Draft) error {
		from = d.Stage()
		ref, err := d.Submit(cmd.Input(), h.deps.Regions, h.deps.Clock.Now())
		if err != nil {
			return err
		}
		stale = ref
		current = d.Clone()
		return nil
	})
	if err != nil {
		h.hint(ctx, customerID, from, err)
		return err
	}

	h.notify.delete(ctx, "draft_stale_confirmation", stale)

	if from == draft.StageRegion {
		region := current.Details().Region
		if _, err := h.deps.Profiles.Upsert(ctx, customerID, func(p *profile.Profile) error {
			p.RememberRegion(region)
			return nil
		}); err != nil {
			h.deps.Logger.Warn("region not remembered", "customer_id", customerID, "error", err)
		}
	}

	h.prompter.prompt(ctx, current, cmd.Input().Kind == draft.InputLocation)
	return nil
}

func (h SubmitDraftInputCommandHandler) hint(ctx context.Context, customerID kernel.UserID, stage draft.Stage, err error) {
	chat := int64(customerID)
	switch {
	case errors.Is(err, draft.ErrUnknownRegion):
		h.notify.sendText(ctx, "draft_hint", chat, messages.TextRegionByButtons, messages.OrderRegions(h.deps.Regions.Names()))
	case errors.Is(err, draft.ErrInvalidTime) && stage == draft.StageWhenSelect:
		h.notify.sendText(ctx, "draft_hint", chat, messages.TextBadTimeSelect, messages.WhenKeyboard())
	case errors.Is(err, draft.ErrInvalidTime):
		h.notify.sendText(ctx, "draft_hint", chat, messages.TextBadTimeInput, nil)
	case errors.Is(err, draft.ErrAwaitingConfirmation):
		h.notify.sendText(ctx, "draft_hint", chat, messages.TextAwaitingConfirm, nil)
	}
}
