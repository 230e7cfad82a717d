package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// ApproveReceiptCommandHandler activates a driver's subscription after an admin
// approved the payment.
//
// The driver's regions are resolved from every record (wizard, subscription,
// profile, trial, pending invites). An invite is sent per region; the subscription
// is activated for all of them, and any trial is dropped, once at least one invite
// went out. The receipt caption is then stamped with the approval, or just loses its
// buttons when the caption cannot be edited.
//
// Errors:
//   - ErrAdminOnly when the actor is not an admin
//   - ErrDriverRegionsUnknown when no region can be resolved
//   - ErrNoInviteSent when every invite failed; nothing is activated
//
// Example:
//
//	regions, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, commands.ErrNoInviteSent) {
//	    answer(messages.AlertNoInviteSent)
//	}
type ApproveReceiptCommandHandler struct {
	deps    Deps
	notify  notifier
	inviter SendRegionInviteCommandHandler
}

// NewApproveReceiptCommandHandler creates the handler that activates a subscription
// and sends the region invites.
func NewApproveReceiptCommandHandler(deps Deps) ApproveReceiptCommandHandler {
	return ApproveReceiptCommandHandler{deps: deps, notify: newNotifier(deps), inviter: NewSendRegionInviteCommandHandler(deps)}
}

// Handle returns the regions the subscription now covers.
func (h ApproveReceiptCommandHandler) Handle(ctx context.Context, cmd ApproveReceiptCommand) ([]string, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if !h.deps.Admins.IsAdmin(cmd.AdminID()) {
		return nil, ErrAdminOnly
	}
	driverID := cmd.DriverID()

	p, err := lookupProfile(ctx, h.deps, driverID)
	if err != nil {
		return nil, err
	}
	regions, err := driverRegions(ctx, h.deps, driverID, p)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, ErrDriverRegionsUnknown
	}

	sent := 0
	for _, region := range regions {
		invite, err := NewSendRegionInviteCommand(driverID, region, messages.PaymentApprovedInvite(region))
		if err != nil {
			return nil, err
		}
		if err := h.inviter.Handle(ctx, invite); err != nil {
			h.deps.Logger.Warn("approval invite not delivered", "driver_id", driverID, "region", region, "error", err)
			continue
		}
		sent++
	}
	if sent == 0 {
		return nil, ErrNoInviteSent
	}

	hadTrial := false
	err = h.deps.Entitlements.Update(ctx, driverID, func(e *entitlement.Entitlement) error {
		_, hadTrial = e.Trial()
		return e.ActivateSubscription(regions)
	})
	if err != nil {
		return nil, err
	}
	if hadTrial {
		metrics.TrialsTotal.WithLabelValues("superseded").Inc()
	}

	stampReceipt(ctx, h.notify, cmd.Post(),
		cmd.Caption()+messages.ApprovalNote(cmd.AdminName(), h.deps.Clock.Now(), regions))

	metrics.ReceiptsTotal.WithLabelValues("approved").Inc()
	h.deps.Logger.Info("receipt approved", "driver_id", driverID, "admin_id", cmd.AdminID(), "regions", regions)
	return regions, nil
}

// stampReceipt replaces the receipt caption and its buttons, or only drops the
// buttons when the caption cannot be edited.
func stampReceipt(ctx context.Context, n notifier, post kernel.MessageRef, caption string) {
	if post.IsZero() {
		return
	}
	if err := n.gateway.EditCaption(ctx, post, ports.Message{Text: caption, HTML: true}); err != nil {
		n.failed("receipt_caption", err, "chat_id", post.ChatID, "message_id", post.MessageID)
		n.dropActions(ctx, "receipt_actions", post)
	}
}
