package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"dispatch/internal/adapters/out/snapshot"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports"
)

// DefaultKey is the hash used when Config.Key is empty.
const DefaultKey = "dispatch:profiles"

// ProfileStore keeps each profile as a JSON field of one hash. The field value has
// the same shape as an entry of the file document.
type ProfileStore struct {
	client redis.UniversalClient
	key    string
	logger *slog.Logger
}

var _ ports.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore creates a store writing to the hash named key.
func NewProfileStore(client redis.UniversalClient, key string, logger *slog.Logger) *ProfileStore {
	if key == "" {
		key = DefaultKey
	}
	return &ProfileStore{
		client: client,
		key:    key,
		logger: logger.With("component", "redis_profiles", "key", key),
	}
}

// Load reads the hash. Fields that do not parse are skipped with a warning.
func (s *ProfileStore) Load(ctx context.Context) (map[kernel.UserID]profile.Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}

	profiles := make(map[kernel.UserID]profile.Snapshot, len(fields))
	for field, value := range fields {
		id, err := kernel.ParseUserID(field)
		if err != nil {
			s.logger.Warn("skipping profile field", "field", field, "error", err)
			continue
		}
		snap, err := snapshot.UnmarshalProfile([]byte(value))
		if err != nil {
			s.logger.Warn("skipping profile field", "field", field, "error", err)
			continue
		}
		profiles[id] = snap
	}
	return profiles, nil
}

// Save replaces the hash with profiles inside one MULTI/EXEC.
func (s *ProfileStore) Save(ctx context.Context, profiles map[kernel.UserID]profile.Snapshot) error {
	values := make(map[string]any, len(profiles))
	for id, snap := range profiles {
		raw, err := snapshot.MarshalProfile(snap)
		if err != nil {
			return err
		}
		values[id.String()] = string(raw)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values)
		}
		return nil
	})
	return err
}
