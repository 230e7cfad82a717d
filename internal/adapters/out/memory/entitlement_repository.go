package memory

import (
	"context"
	"slices"

	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// EntitlementRepository keeps trial and subscription records in memory. They are
// not persisted: a restart forgets running trials and subscriptions.
type EntitlementRepository struct {
	items *registry[kernel.UserID, *entitlement.Entitlement]
}

var _ ports.EntitlementRepository = (*EntitlementRepository)(nil)

// NewEntitlementRepository returns an empty registry. Drivers without a record
// read back as an empty entitlement.
func NewEntitlementRepository() *EntitlementRepository {
	r := &EntitlementRepository{items: newRegistry[kernel.UserID]((*entitlement.Entitlement).Clone)}
	r.items.isZero = (*entitlement.Entitlement).IsEmpty
	return r
}

func (r *EntitlementRepository) Get(_ context.Context, driverID kernel.UserID) (*entitlement.Entitlement, error) {
	if e, ok := r.items.get(driverID); ok {
		return e, nil
	}
	return entitlement.New(driverID), nil
}

func (r *EntitlementRepository) Update(
	_ context.Context,
	driverID kernel.UserID,
	fn func(e *entitlement.Entitlement) error,
) error {
	_, err := r.items.mutate(driverID, func() *entitlement.Entitlement { return entitlement.New(driverID) }, fn)
	return err
}

// TrialHolders returns the drivers holding a trial, sorted by id.
func (r *EntitlementRepository) TrialHolders(_ context.Context) ([]kernel.UserID, error) {
	var out []kernel.UserID
	r.items.each(func(id kernel.UserID, e *entitlement.Entitlement) {
		if _, ok := e.Trial(); ok {
			out = append(out, id)
		}
	})
	slices.Sort(out)
	return out, nil
}
