package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/pkg/metrics"
)

// SweepTrialsCommandHandler ends the trials that are over.
//
// For every trial holder at the time of the sweep:
//   - an active subscription supersedes the trial, which is dropped silently
//   - an expired trial is removed, the driver is kicked from each trial region chat,
//     parked at the receipt step and sent the payment card
//   - a running trial is left alone
//
// A failure for one driver or one region is logged and does not stop the sweep.
// Only listing the holders can fail the whole run.
type SweepTrialsCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewSweepTrialsCommandHandler creates the handler that ends expired trials.
func NewSweepTrialsCommandHandler(deps Deps) SweepTrialsCommandHandler {
	return SweepTrialsCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h SweepTrialsCommandHandler) Handle(ctx context.Context, cmd SweepTrialsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	started := time.Now()
	defer func() {
		metrics.WatcherSweepDuration.Observe(time.Since(started).Seconds())
	}()

	holders, err := h.deps.Entitlements.TrialHolders(ctx)
	if err != nil {
		return err
	}

	now := h.deps.Clock.Now()
	expired := 0
	for _, driverID := range holders {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if h.sweepOne(ctx, driverID, now) {
			expired++
		}
	}

	if expired > 0 {
		h.deps.Logger.Info("trials expired", "count", expired, "holders", len(holders))
	}
	return nil
}

// sweepOne reports whether the driver's trial expired.
func (h SweepTrialsCommandHandler) sweepOne(ctx context.Context, driverID kernel.UserID, now time.Time) bool {
	var (
		result  entitlement.SweepResult
		regions []string
	)
	err := h.deps.Entitlements.Update(ctx, driverID, func(e *entitlement.Entitlement) error {
		result, regions = e.Sweep(now)
		return nil
	})
	if err != nil {
		h.deps.Logger.Error("trial sweep failed", "driver_id", driverID, "error", err)
		return false
	}

	switch result {
	case entitlement.SweepDropped:
		metrics.TrialsTotal.WithLabelValues("superseded").Inc()
		return false
	case entitlement.SweepExpired:
	default:
		return false
	}
	metrics.TrialsTotal.WithLabelValues("expired").Inc()

	if len(regions) == 0 {
		if p, err := lookupProfile(ctx, h.deps, driverID); err == nil && p != nil {
			regions = p.Regions()
		}
	}

	for _, region := range regions {
		chatID, err := h.deps.Regions.DriverChat(region)
		if err != nil {
			h.deps.Logger.Warn("expired trial region not configured", "driver_id", driverID, "region", region)
			continue
		}
		if err := h.deps.Gateway.Kick(ctx, chatID, driverID); err != nil {
			h.notify.failed("trial_kick", err, "driver_id", driverID, "region", region)
		}
	}

	if parked, err := onboarding.NewAwaitingReceipt(driverID, regions); err != nil {
		h.deps.Logger.Warn("expired driver not parked", "driver_id", driverID, "error", err)
	} else if err := h.deps.Onboarding.Put(ctx, parked); err != nil {
		h.deps.Logger.Error("expired driver not parked", "driver_id", driverID, "error", err)
	}

	h.notify.send(ctx, "trial_expired", int64(driverID), h.deps.Catalog.TrialExpired(regions))
	h.deps.Logger.Info("trial expired", "driver_id", driverID, "regions", regions)
	return true
}
