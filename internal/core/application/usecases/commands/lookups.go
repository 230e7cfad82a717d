package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// errStaleOrder stops a follow-up update when the customer's order was replaced
// between two steps of a handler.
var errStaleOrder = errors.New("order was replaced")

// lookupProfile returns the user's profile or nil when there is none yet.
func lookupProfile(ctx context.Context, d Deps, id kernel.UserID) (*profile.Profile, error) {
	p, err := d.Profiles.Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return p, err
}

// profileName is the stored display name, blank for an unknown user.
func profileName(p *profile.Profile) string {
	if p == nil {
		return ""
	}
	return p.Name()
}

func profilePhone(p *profile.Profile) string {
	if p == nil {
		return ""
	}
	return p.Phone()
}

// driverRegions gathers every record the driver's regions may come from.
func driverRegions(ctx context.Context, d Deps, driverID kernel.UserID, p *profile.Profile) ([]string, error) {
	src := services.DriverRegionSources{Profile: p}

	wizard, err := d.Onboarding.Get(ctx, driverID)
	switch {
	case err == nil:
		src.Onboarding = wizard
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	if src.Entitlement, err = d.Entitlements.Get(ctx, driverID); err != nil {
		return nil, err
	}
	if src.Invites, err = d.Invites.Get(ctx, driverID); err != nil {
		return nil, err
	}

	return services.ResolveDriverRegions(src), nil
}

// rejectionReason labels a refused order action for metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, order.ErrRegionMismatch):
		return "region_mismatch"
	case errors.Is(err, order.ErrPhoneRequired):
		return "phone_required"
	case errors.Is(err, order.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, order.ErrNotAssignedDriver):
		return "not_assigned_driver"
	case errors.Is(err, order.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, order.ErrAlreadyFinal):
		return "already_final"
	case errors.Is(err, order.ErrInvalidState):
		return "invalid_state"
	default:
		return "other"
	}
}
