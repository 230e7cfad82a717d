package memory

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// OnboardingRepository keeps the driver wizards in memory.
type OnboardingRepository struct {
	items *registry[kernel.UserID, *onboarding.Onboarding]
}

var _ ports.OnboardingRepository = (*OnboardingRepository)(nil)

// NewOnboardingRepository returns an empty onboarding registry.
func NewOnboardingRepository() *OnboardingRepository {
	return &OnboardingRepository{items: newRegistry[kernel.UserID]((*onboarding.Onboarding).Clone)}
}

func (r *OnboardingRepository) Get(_ context.Context, driverID kernel.UserID) (*onboarding.Onboarding, error) {
	o, ok := r.items.get(driverID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("driverID", driverID)
	}
	return o, nil
}

func (r *OnboardingRepository) Put(_ context.Context, o *onboarding.Onboarding) error {
	if err := o.Validate(); err != nil {
		return err
	}
	r.items.put(o.DriverID(), o)
	return nil
}

func (r *OnboardingRepository) Update(
	_ context.Context,
	driverID kernel.UserID,
	fn func(o *onboarding.Onboarding) error,
) error {
	_, err := r.items.mutate(driverID, nil, fn)
	if errors.Is(err, errMissing) {
		return errs.NewObjectNotFoundError("driverID", driverID)
	}
	return err
}

func (r *OnboardingRepository) Delete(_ context.Context, driverID kernel.UserID) error {
	r.items.remove(driverID)
	return nil
}
