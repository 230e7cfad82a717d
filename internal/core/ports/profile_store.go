package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
)

// ProfileStore is the durable key-value document of user profiles. It is read once
// at start and rewritten after every profile mutation.
type ProfileStore interface {
	Load(ctx context.Context) (map[kernel.UserID]profile.Snapshot, error)
	Save(ctx context.Context, profiles map[kernel.UserID]profile.Snapshot) error
}
