package services

import (
	"slices"

	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/invite"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/domain/model/profile"
)

// DriverRegionSources are the records a driver's regions are gathered from. Any of
// them may be nil.
type DriverRegionSources struct {
	Onboarding  *onboarding.Onboarding
	Entitlement *entitlement.Entitlement
	Profile     *profile.Profile
	Invites     *invite.Bucket
}

// ResolveDriverRegions returns the regions a driver is recognized for: the wizard
// selection, the subscription, the profile, the trial and pending invites, in that
// order, de-duplicated and capped at kernel.MaxDriverRegions.
//
// An empty result means the driver has no regions at all; accepting an order then
// grants the order's region.
func ResolveDriverRegions(src DriverRegionSources) []string {
	var out []string
	add := func(values ...string) {
		for _, v := range values {
			if v != "" && !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}

	if src.Onboarding != nil {
		add(src.Onboarding.Regions()...)
	}
	if src.Entitlement != nil {
		if sub, ok := src.Entitlement.Subscription(); ok {
			add(sub.Regions...)
		}
	}
	if src.Profile != nil {
		add(src.Profile.Regions()...)
		add(src.Profile.LastRegion())
	}
	if src.Entitlement != nil {
		if trial, ok := src.Entitlement.Trial(); ok {
			add(trial.Regions...)
		}
	}
	if src.Invites != nil {
		add(src.Invites.Regions()...)
	}

	if len(out) > kernel.MaxDriverRegions {
		out = out[:kernel.MaxDriverRegions]
	}
	return out
}
