package memory

import (
	"context"

	"dispatch/internal/core/domain/model/invite"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// InviteRepository keeps the outstanding invite links of every driver in memory.
type InviteRepository struct {
	items *registry[kernel.UserID, *invite.Bucket]
}

var _ ports.InviteRepository = (*InviteRepository)(nil)

// NewInviteRepository returns an empty invite registry. Empty buckets are dropped.
func NewInviteRepository() *InviteRepository {
	r := &InviteRepository{items: newRegistry[kernel.UserID]((*invite.Bucket).Clone)}
	r.items.isZero = (*invite.Bucket).IsEmpty
	return r
}

func (r *InviteRepository) Get(_ context.Context, driverID kernel.UserID) (*invite.Bucket, error) {
	if b, ok := r.items.get(driverID); ok {
		return b, nil
	}
	return invite.NewBucket(driverID), nil
}

func (r *InviteRepository) Update(_ context.Context, driverID kernel.UserID, fn func(b *invite.Bucket) error) error {
	_, err := r.items.mutate(driverID, func() *invite.Bucket { return invite.NewBucket(driverID) }, fn)
	return err
}
