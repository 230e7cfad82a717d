package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"
)

// CommitDraftCommandHandler turns a confirmed draft into an order posted to the
// region's order chat.
//
// The region is the draft's, else the one the customer used last, else the last
// region on the profile. With none of them the draft goes back to the region
// question and ErrNoRegionSelected is returned. A new order replaces the customer's
// previous one, whose reminders are cancelled.
//
// Errors:
//   - ErrNotYourButton when someone else pressed the button
//   - ErrNoActiveDraft when there is no draft at the confirm stage
//   - ErrGatewayDeliveryFailed when the dispatch post could not be sent; the draft is kept
//
// Example:
//
//	cmd, _ := commands.NewCommitDraftCommand(pressedBy, customerID)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, commands.ErrNotYourButton) {
//	    answer(messages.AlertNotYourButton)
//	}
type CommitDraftCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewCommitDraftCommandHandler creates the handler that posts committed drafts to
// the region order chat.
func NewCommitDraftCommandHandler(deps Deps) CommitDraftCommandHandler {
	return CommitDraftCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h CommitDraftCommandHandler) Handle(ctx context.Context, cmd CommitDraftCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.ActorID() != cmd.CustomerID() {
		return ErrNotYourButton
	}
	customerID := cmd.CustomerID()

	unlock := h.deps.OrderLocks.Lock(customerID)
	defer unlock()

	d, err := h.deps.Drafts.Get(ctx, customerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoActiveDraft
	}
	if err != nil {
		return err
	}
	if d.Stage() != draft.StageConfirm {
		return ErrNoActiveDraft
	}

	customer, err := lookupProfile(ctx, h.deps, customerID)
	if err != nil {
		return err
	}

	region, chatID, ok := h.target(d, customer)
	if !ok {
		return h.askRegion(ctx, d)
	}

	var confirmation kernel.MessageRef
	err = h.deps.Drafts.Update(ctx, customerID, func(cur *draft.Draft) error {
		confirmation = cur.TakeConfirmation()
		return nil
	})
	if err != nil {
		return err
	}
	h.notify.delete(ctx, "draft_confirmation", confirmation)

	dd := d.Details()
	details := order.Details{Region: region, Vehicle: dd.Vehicle, Pickup: dd.Pickup, Dropoff: dd.Dropoff, When: dd.When}

	post, err := h.deps.Gateway.Send(ctx, chatID, ports.Message{
		Text:           messages.DispatchPost(profileName(customer), details, ""),
		Actions:        messages.AcceptActions(customerID),
		DisablePreview: true,
	})
	if err != nil {
		h.notify.failed("dispatch_post", err, "chat_id", chatID, "region", region)
		return fmt.Errorf("%w: %w", ErrGatewayDeliveryFailed, err)
	}

	o, err := order.NewOrder(customerID, details, post)
	if err != nil {
		return err
	}
	prev, err := h.deps.Orders.Put(ctx, o)
	if err != nil {
		return err
	}
	if prev != nil {
		prev.Discard()
	}

	h.notify.send(ctx, "order_sent", int64(customerID), ports.Message{
		Text:    messages.TextOrderSent,
		Actions: messages.CustomerCancelActions(customerID),
	})
	h.notify.sendText(ctx, "main_menu", int64(customerID), messages.TextMainMenu, messages.MainMenu())

	if _, err := h.deps.Drafts.Delete(ctx, customerID); err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		h.deps.Logger.Warn("committed draft not deleted", "customer_id", customerID, "error", err)
	}

	metrics.RecordTransition("created")
	h.deps.Logger.Info("order created", "customer_id", customerID, "region", region, "replaced", prev != nil)
	return nil
}

// target picks the region and its order chat.
func (h CommitDraftCommandHandler) target(d *draft.Draft, p *profile.Profile) (string, int64, bool) {
	candidates := []string{d.Details().Region}
	if p != nil {
		candidates = append(candidates, p.LastRegion())
		if regions := p.Regions(); len(regions) > 0 {
			candidates = append(candidates, regions[len(regions)-1])
		}
	}

	for _, region := range candidates {
		if region == "" {
			continue
		}
		if chatID, err := h.deps.Regions.OrderChat(region); err == nil {
			return region, chatID, true
		}
	}
	return "", 0, false
}

func (h CommitDraftCommandHandler) askRegion(ctx context.Context, d *draft.Draft) error {
	customerID := d.CustomerID()
	var confirmation kernel.MessageRef
	err := h.deps.Drafts.Update(ctx, customerID, func(cur *draft.Draft) error {
		confirmation = cur.TakeConfirmation()
		cur.ResetToRegion()
		return nil
	})
	if err != nil {
		return err
	}
	h.notify.delete(ctx, "draft_confirmation", confirmation)

	h.notify.sendText(ctx, "draft_prompt", int64(customerID), messages.TextPleaseChooseRegion,
		messages.OrderRegions(h.deps.Regions.Names()))
	return ErrNoRegionSelected
}
