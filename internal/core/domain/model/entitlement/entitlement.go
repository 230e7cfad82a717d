// Package entitlement holds the per-driver trial and subscription records that gate
// which regions a driver may accept orders in.
package entitlement

import (
	"errors"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

var (
	// ErrTrialAlreadyGranted rejects a second trial for the same driver.
	ErrTrialAlreadyGranted = errors.New("trial already granted")

	// ErrNoRegions rejects a grant or activation without regions.
	ErrNoRegions = errors.New("at least one region is required")
)

// Trial is a one-time, time-boxed grant. GrantedAt never changes once set.
type Trial struct {
	GrantedAt time.Time
	ExpiresAt time.Time
	Regions   []string
}

// Subscription is a paid grant confirmed by an admin.
type Subscription struct {
	Active  bool
	Regions []string
}

// SweepResult is what the watcher must do with a driver's trial.
type SweepResult int

const (
	// SweepPending leaves a running trial untouched.
	SweepPending SweepResult = iota
	// SweepDropped removed the trial because a subscription is active.
	SweepDropped
	// SweepExpired removed an expired trial; the driver must be kicked and asked to pay.
	SweepExpired
	// SweepNoTrial means there was nothing to sweep.
	SweepNoTrial
)

// Entitlement is the record of one driver.
type Entitlement struct {
	driverID     kernel.UserID
	trial        *Trial
	subscription *Subscription
}

// New returns an empty record for driverID.
func New(driverID kernel.UserID) *Entitlement {
	return &Entitlement{driverID: driverID}
}

// DriverID returns the owner.
func (e *Entitlement) DriverID() kernel.UserID { return e.driverID }

// Trial returns a copy of the trial record, if any.
func (e *Entitlement) Trial() (Trial, bool) {
	if e.trial == nil {
		return Trial{}, false
	}
	t := *e.trial
	t.Regions = slices.Clone(t.Regions)
	return t, true
}

// Subscription returns a copy of the subscription record, if any.
func (e *Entitlement) Subscription() (Subscription, bool) {
	if e.subscription == nil {
		return Subscription{}, false
	}
	s := *e.subscription
	s.Regions = slices.Clone(s.Regions)
	return s, true
}

// HasActiveSubscription reports whether a paid subscription is active.
func (e *Entitlement) HasActiveSubscription() bool {
	return e.subscription != nil && e.subscription.Active
}

// IsEmpty reports whether neither record exists, so the store can drop the entry.
func (e *Entitlement) IsEmpty() bool {
	return e.trial == nil && e.subscription == nil
}

// EntitledRegions is the union of trial regions and active subscription regions,
// trial regions first.
func (e *Entitlement) EntitledRegions() []string {
	var out []string
	if e.trial != nil {
		out = appendMissing(out, e.trial.Regions...)
	}
	if e.HasActiveSubscription() {
		out = appendMissing(out, e.subscription.Regions...)
	}
	return out
}

// GrantTrial creates the trial record. It fails when a trial record exists, so the
// grant instant of a running trial is never overwritten.
func (e *Entitlement) GrantTrial(now time.Time, ttl time.Duration, region string) error {
	if e.trial != nil {
		return ErrTrialAlreadyGranted
	}
	if region == "" {
		return ErrNoRegions
	}
	e.trial = &Trial{GrantedAt: now, ExpiresAt: now.Add(ttl), Regions: []string{region}}
	return nil
}

// ActivateSubscription makes the subscription active for regions and drops the trial.
func (e *Entitlement) ActivateSubscription(regions []string) error {
	if len(regions) == 0 {
		return ErrNoRegions
	}
	e.subscription = &Subscription{Active: true, Regions: appendMissing(nil, regions...)}
	e.trial = nil
	return nil
}

// AddRegion extends the active subscription and the running trial with a region the
// driver just joined. It reports whether any record changed.
func (e *Entitlement) AddRegion(region string) bool {
	changed := false
	if e.HasActiveSubscription() && !slices.Contains(e.subscription.Regions, region) {
		e.subscription.Regions = append(e.subscription.Regions, region)
		changed = true
	}
	if e.trial != nil && !slices.Contains(e.trial.Regions, region) {
		e.trial.Regions = append(e.trial.Regions, region)
		changed = true
	}
	return changed
}

// Sweep decides the fate of the trial at now and removes it when it is over.
//
// Returns:
//   - SweepNoTrial when there is no trial record
//   - SweepDropped when a subscription is active (trial removed)
//   - SweepExpired with the trial regions when now >= expiry (trial removed)
//   - SweepPending otherwise
func (e *Entitlement) Sweep(now time.Time) (SweepResult, []string) {
	if e.trial == nil {
		return SweepNoTrial, nil
	}
	if e.HasActiveSubscription() {
		e.trial = nil
		return SweepDropped, nil
	}
	if now.Before(e.trial.ExpiresAt) {
		return SweepPending, nil
	}
	regions := slices.Clone(e.trial.Regions)
	e.trial = nil
	return SweepExpired, regions
}

// Clone returns a deep copy.
func (e *Entitlement) Clone() *Entitlement {
	c := &Entitlement{driverID: e.driverID}
	if t, ok := e.Trial(); ok {
		c.trial = &t
	}
	if s, ok := e.Subscription(); ok {
		c.subscription = &s
	}
	return c
}

func appendMissing(dst []string, values ...string) []string {
	for _, v := range values {
		if v != "" && !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
