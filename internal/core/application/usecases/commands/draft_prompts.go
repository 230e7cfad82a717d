package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/ports"
)

// draftPrompter asks the customer for whatever the draft's stage waits on.
type draftPrompter struct {
	deps   Deps
	notify notifier
}

func newDraftPrompter(deps Deps) draftPrompter {
	return draftPrompter{deps: deps, notify: newNotifier(deps)}
}

// prompt renders the question of d's stage. afterLocation picks the dropoff
// question that acknowledges a shared pickup location.
func (p draftPrompter) prompt(ctx context.Context, d *draft.Draft, afterLocation bool) {
	chat := int64(d.CustomerID())
	onlyControls := messages.WithBackCancel(nil, 1, true)

	switch d.Stage() {
	case draft.StageRegion:
		p.notify.sendText(ctx, "draft_prompt", chat, messages.TextAskRegion, messages.OrderRegions(p.deps.Regions.Names()))
	case draft.StageVehicle:
		p.notify.sendText(ctx, "draft_prompt", chat, messages.TextAskVehicle, messages.VehicleKeyboard())
	case draft.StagePickup:
		p.notify.sendText(ctx, "draft_prompt", chat, messages.TextAskPickup, messages.PickupKeyboard())
	case draft.StageDropoff:
		text := messages.TextAskDropoff
		if afterLocation {
			text = messages.TextLocationAccepted
		}
		p.notify.sendText(ctx, "draft_prompt", chat, text, onlyControls)
	case draft.StageWhenSelect:
		p.notify.sendText(ctx, "draft_prompt", chat, messages.TextAskWhen, messages.WhenKeyboard())
	case draft.StageWhenInput:
		p.notify.sendText(ctx, "draft_prompt", chat, messages.TextAskCustomTime, onlyControls)
	case draft.StageConfirm:
		p.confirm(ctx, d)
	case draft.StageUnknown:
	}
}

// confirm sends the summary card and remembers it on the draft so a later change
// can delete it.
func (p draftPrompter) confirm(ctx context.Context, d *draft.Draft) {
	ref, ok := p.notify.send(ctx, "draft_confirmation", int64(d.CustomerID()), ports.Message{
		Text:    messages.DraftSummary(d.Details()),
		HTML:    true,
		Actions: messages.DraftConfirmActions(d.CustomerID()),
	})
	if !ok {
		return
	}

	err := p.deps.Drafts.Update(ctx, d.CustomerID(), func(cur *draft.Draft) error {
		cur.SetConfirmation(ref)
		return nil
	})
	if err != nil {
		p.deps.Logger.Warn("confirmation not recorded", "customer_id", d.CustomerID(), "error", err)
		p.notify.delete(ctx, "draft_confirmation", ref)
	}
}
