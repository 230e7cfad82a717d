package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/invite"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// SendRegionInviteCommandHandler creates a single-use link to a region's driver chat,
// DMs it to the driver and records it as pending until the driver joins.
//
// A link that cannot be created is reported to every admin. Either failure returns
// ErrGatewayDeliveryFailed; an unknown region returns kernel.ErrUnknownRegion. A DM
// replacing an older invite for the same region deletes the older one.
//
// Example:
//
//	cmd, _ := commands.NewSendRegionInviteCommand(driverID, "Farg'ona", messages.SubscriptionInvite("Farg'ona"))
//	if err := inviter.Handle(ctx, cmd); err != nil {
//	    // the driver did not get a link for this region
//	}
type SendRegionInviteCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewSendRegionInviteCommandHandler creates the handler that issues and records
// invite links.
func NewSendRegionInviteCommandHandler(deps Deps) SendRegionInviteCommandHandler {
	return SendRegionInviteCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h SendRegionInviteCommandHandler) Handle(ctx context.Context, cmd SendRegionInviteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	driverID, region := cmd.DriverID(), cmd.Region()

	chatID, err := h.deps.Regions.DriverChat(region)
	if err != nil {
		return err
	}

	now := h.deps.Clock.Now()
	req := ports.InviteRequest{
		ChatID:      chatID,
		Name:        fmt.Sprintf("driver-%s-%d-%d", region, driverID, now.Unix()),
		MemberLimit: 1,
	}
	if ttl := h.deps.Settings.InviteTTL; ttl > 0 {
		req.ExpireAt = now.Add(ttl)
	}

	link, err := h.deps.Gateway.CreateInviteLink(ctx, req)
	if err != nil {
		metrics.InvitesTotal.WithLabelValues("failed").Inc()
		h.notify.failed("invite_link", err, "driver_id", driverID, "region", region)
		h.notify.toAdmins(ctx, "invite_link_alert", h.deps.Admins.Admins(), messages.InviteLinkFailed(region, driverID, err))
		return fmt.Errorf("%w: %w", ErrGatewayDeliveryFailed, err)
	}

	prompt, err := h.deps.Gateway.Send(ctx, int64(driverID), ports.Message{
		Text:           cmd.Header(),
		HTML:           true,
		Actions:        messages.JoinActions(region, link),
		DisablePreview: true,
	})
	if err != nil {
		metrics.InvitesTotal.WithLabelValues("failed").Inc()
		h.notify.failed("invite_dm", err, "driver_id", driverID, "region", region)
		return fmt.Errorf("%w: %w", ErrGatewayDeliveryFailed, err)
	}

	var replaced invite.Invite
	err = h.deps.Invites.Update(ctx, driverID, func(b *invite.Bucket) error {
		replaced, _ = b.Put(invite.Invite{Region: region, ChatID: chatID, Link: link, Prompt: prompt})
		return nil
	})
	if err != nil {
		return err
	}
	if replaced.Prompt != prompt {
		h.notify.delete(ctx, "invite_superseded", replaced.Prompt)
	}

	metrics.InvitesTotal.WithLabelValues("sent").Inc()
	h.deps.Logger.Info("invite sent", "driver_id", driverID, "region", region)
	return nil
}
