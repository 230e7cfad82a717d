package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/invite"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/pkg/metrics"
)

// ReconcileMembershipCommandHandler reacts to a user joining a region's driver chat.
// Other chats and other transitions are ignored.
//
// On a join the pending invite for that chat is consumed and its DM deleted, the
// driver is congratulated, the region is added to the profile and to the running
// trial or subscription, and the first join after a trial grant is stamped.
type ReconcileMembershipCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewReconcileMembershipCommandHandler creates the handler that checks chat joins
// against invites and entitlements.
func NewReconcileMembershipCommandHandler(deps Deps) ReconcileMembershipCommandHandler {
	return ReconcileMembershipCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h ReconcileMembershipCommandHandler) Handle(ctx context.Context, cmd ReconcileMembershipCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !h.deps.Regions.IsDriverChat(cmd.ChatID()) {
		return nil
	}
	if !cmd.OldStatus().isOutside() || !cmd.NewStatus().isInside() {
		return nil
	}
	driverID := cmd.UserID()

	var (
		consumed invite.Invite
		matched  bool
	)
	err := h.deps.Invites.Update(ctx, driverID, func(b *invite.Bucket) error {
		consumed, matched = b.ConsumeChat(cmd.ChatID())
		return nil
	})
	if err != nil {
		return err
	}
	if matched {
		metrics.InvitesTotal.WithLabelValues("consumed").Inc()
		h.notify.delete(ctx, "invite_consumed", consumed.Prompt)
		h.notify.sendText(ctx, "joined_group", int64(driverID), messages.TextJoinedGroup, nil)
	}

	region := consumed.Region
	if region == "" {
		region, _ = h.deps.Regions.RegionByDriverChat(cmd.ChatID())
	}
	now := h.deps.Clock.Now()

	if _, err := h.deps.Profiles.Upsert(ctx, driverID, func(p *profile.Profile) error {
		p.AddRegions(region)
		if _, err := p.MarkTrialJoined(now); err != nil && !errors.Is(err, profile.ErrTrialNotGranted) {
			return err
		}
		return nil
	}); err != nil {
		return err
	}

	if err := h.deps.Entitlements.Update(ctx, driverID, func(e *entitlement.Entitlement) error {
		e.AddRegion(region)
		return nil
	}); err != nil {
		return err
	}

	h.deps.Logger.Info("driver joined region chat", "driver_id", driverID, "region", region, "invited", matched)
	return nil
}
