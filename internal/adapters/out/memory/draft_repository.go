package memory

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DraftRepository keeps one wizard per customer in memory.
type DraftRepository struct {
	items *registry[kernel.UserID, *draft.Draft]
}

var _ ports.DraftRepository = (*DraftRepository)(nil)

// NewDraftRepository returns an empty draft registry.
func NewDraftRepository() *DraftRepository {
	return &DraftRepository{items: newRegistry[kernel.UserID]((*draft.Draft).Clone)}
}

func (r *DraftRepository) Get(_ context.Context, customerID kernel.UserID) (*draft.Draft, error) {
	d, ok := r.items.get(customerID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("customerID", customerID)
	}
	return d, nil
}

func (r *DraftRepository) Put(_ context.Context, d *draft.Draft) (*draft.Draft, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	prev, _ := r.items.put(d.CustomerID(), d)
	return prev, nil
}

func (r *DraftRepository) Update(_ context.Context, customerID kernel.UserID, fn func(d *draft.Draft) error) error {
	_, err := r.items.mutate(customerID, nil, fn)
	if errors.Is(err, errMissing) {
		return errs.NewObjectNotFoundError("customerID", customerID)
	}
	return err
}

func (r *DraftRepository) Delete(_ context.Context, customerID kernel.UserID) (*draft.Draft, error) {
	d, ok := r.items.remove(customerID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("customerID", customerID)
	}
	return d, nil
}
