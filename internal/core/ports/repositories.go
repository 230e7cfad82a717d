package ports

import (
	"context"

	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/invite"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/profile"
)

// DraftRepository holds at most one draft per customer.
type DraftRepository interface {
	// Get returns a copy of the customer's draft or an errs.ObjectNotFoundError.
	Get(ctx context.Context, customerID kernel.UserID) (*draft.Draft, error)

	// Put stores d and returns the draft it replaced, nil if none.
	Put(ctx context.Context, d *draft.Draft) (*draft.Draft, error)

	// Update runs fn on a copy of the draft and stores it when fn returns nil.
	Update(ctx context.Context, customerID kernel.UserID, fn func(d *draft.Draft) error) error

	// Delete removes and returns the draft or an errs.ObjectNotFoundError.
	Delete(ctx context.Context, customerID kernel.UserID) (*draft.Draft, error)
}

// OrderRepository holds at most one order per customer.
type OrderRepository interface {
	// Get returns a copy of the customer's order or an errs.ObjectNotFoundError.
	Get(ctx context.Context, customerID kernel.UserID) (*order.Order, error)

	// Put stores o and returns the order it replaced, nil if none. The caller
	// discards the replaced order's reminders.
	Put(ctx context.Context, o *order.Order) (*order.Order, error)

	// Update runs fn on a copy of the order and stores it when fn returns nil.
	//
	// Example:
	//
	//	err := repo.Update(ctx, customerID, func(o *order.Order) error {
	//	    _, err := o.Accept(driverID, true, regions)
	//	    return err
	//	})
	Update(ctx context.Context, customerID kernel.UserID, fn func(o *order.Order) error) error

	// Remove deletes the customer's order only if it is still the instance id.
	// It reports whether an order was removed.
	Remove(ctx context.Context, customerID kernel.UserID, id kernel.UUID) (bool, error)
}

// OrderLocks serializes commands acting on the same order.
type OrderLocks interface {
	Lock(customerID kernel.UserID) (unlock func())
}

// ProfileRepository holds every user profile. Profiles are never deleted.
type ProfileRepository interface {
	// Get returns a copy of the profile or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UserID) (*profile.Profile, error)

	// Upsert runs fn on a copy of the profile, creating an empty one when missing,
	// stores it when fn returns nil and persists a snapshot of all profiles.
	Upsert(ctx context.Context, id kernel.UserID, fn func(p *profile.Profile) error) (*profile.Profile, error)

	// Count returns the number of profiles and how many of them have a phone.
	Count(ctx context.Context) (total int, withPhone int, err error)
}

// EntitlementRepository holds trial and subscription records per driver.
type EntitlementRepository interface {
	// Get returns a copy of the driver's record, an empty one when there is none.
	Get(ctx context.Context, driverID kernel.UserID) (*entitlement.Entitlement, error)

	// Update runs fn on a copy of the record and stores it when fn returns nil.
	// Records left empty are dropped.
	Update(ctx context.Context, driverID kernel.UserID, fn func(e *entitlement.Entitlement) error) error

	// TrialHolders lists the drivers with a trial record at the time of the call.
	TrialHolders(ctx context.Context) ([]kernel.UserID, error)
}

// OnboardingRepository holds at most one driver wizard per user.
type OnboardingRepository interface {
	// Get returns a copy of the wizard or an errs.ObjectNotFoundError.
	Get(ctx context.Context, driverID kernel.UserID) (*onboarding.Onboarding, error)

	// Put stores o, replacing any wizard of the same driver.
	Put(ctx context.Context, o *onboarding.Onboarding) error

	// Update runs fn on a copy of the wizard and stores it when fn returns nil.
	Update(ctx context.Context, driverID kernel.UserID, fn func(o *onboarding.Onboarding) error) error

	// Delete removes the wizard; a missing wizard is not an error.
	Delete(ctx context.Context, driverID kernel.UserID) error
}

// InviteRepository holds the pending invites of every driver.
type InviteRepository interface {
	// Get returns a copy of the driver's bucket, an empty one when there is none.
	Get(ctx context.Context, driverID kernel.UserID) (*invite.Bucket, error)

	// Update runs fn on a copy of the bucket and stores it when fn returns nil.
	// Empty buckets are dropped.
	Update(ctx context.Context, driverID kernel.UserID, fn func(b *invite.Bucket) error) error
}
