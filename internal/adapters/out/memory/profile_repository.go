package memory

import (
	"context"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"
)

// ProfileRepository keeps every profile in memory and rewrites the whole map to a
// ports.ProfileStore after each change. Writes are serialized and every write
// carries the state at the time it runs, so the store never goes backwards.
type ProfileRepository struct {
	items  *registry[kernel.UserID, *profile.Profile]
	store  ports.ProfileStore
	saveMu sync.Mutex
	logger *slog.Logger
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository loads the stored profiles. A profile that does not restore
// (a malformed id) is skipped with a warning.
func NewProfileRepository(ctx context.Context, store ports.ProfileStore, logger *slog.Logger) (*ProfileRepository, error) {
	r := &ProfileRepository{
		items:  newRegistry[kernel.UserID]((*profile.Profile).Clone),
		store:  store,
		logger: logger.With("component", "profiles"),
	}

	stored, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for id, snap := range stored {
		p, err := profile.Restore(id, snap)
		if err != nil {
			r.logger.Warn("skipping stored profile", "user_id", id, "error", err)
			continue
		}
		r.items.put(id, p)
	}
	r.logger.Info("profiles loaded", "count", len(stored))
	return r, nil
}

func (r *ProfileRepository) Get(_ context.Context, id kernel.UserID) (*profile.Profile, error) {
	p, ok := r.items.get(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("userID", id)
	}
	return p, nil
}

// Upsert commits fn's changes in memory, then persists the snapshot. A failed write
// is logged and counted; the in-memory change stands and the next write retries it.
func (r *ProfileRepository) Upsert(
	ctx context.Context,
	id kernel.UserID,
	fn func(p *profile.Profile) error,
) (*profile.Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	p, err := r.items.mutate(id, func() *profile.Profile {
		p, _ := profile.NewProfile(id)
		return p
	}, fn)
	if err != nil {
		return nil, err
	}

	r.persist(ctx)
	return p, nil
}

func (r *ProfileRepository) Count(_ context.Context) (int, int, error) {
	total, withPhone := 0, 0
	r.items.each(func(_ kernel.UserID, p *profile.Profile) {
		total++
		if p.HasPhone() {
			withPhone++
		}
	})
	return total, withPhone, nil
}

func (r *ProfileRepository) persist(ctx context.Context) {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	snapshot := make(map[kernel.UserID]profile.Snapshot)
	r.items.each(func(id kernel.UserID, p *profile.Profile) {
		snapshot[id] = p.Snapshot()
	})

	if err := r.store.Save(context.WithoutCancel(ctx), snapshot); err != nil {
		metrics.SnapshotWritesTotal.WithLabelValues("error").Inc()
		r.logger.Error("profile snapshot not saved", "error", err)
		return
	}
	metrics.SnapshotWritesTotal.WithLabelValues("ok").Inc()
}
