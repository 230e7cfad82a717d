package profilerepo

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports"
)

const saveBatchSize = 500

// GormProfileStore implements ports.ProfileStore using GORM.
type GormProfileStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ ports.ProfileStore = (*GormProfileStore)(nil)

// NewGormProfileStore creates a store on db. The profiles table must exist.
func NewGormProfileStore(db *gorm.DB, logger *slog.Logger) *GormProfileStore {
	return &GormProfileStore{
		db:     db,
		logger: logger.With("component", "postgres_profiles"),
	}
}

// Load reads every row. Rows that do not map back to a snapshot are skipped.
func (r *GormProfileStore) Load(ctx context.Context) (map[kernel.UserID]profile.Snapshot, error) {
	var dtos []ProfileDTO
	if err := r.db.WithContext(ctx).Find(&dtos).Error; err != nil {
		return nil, err
	}

	profiles := make(map[kernel.UserID]profile.Snapshot, len(dtos))
	for _, dto := range dtos {
		id, s, err := toDomain(dto)
		if err != nil {
			r.logger.Warn("skipping stored profile", "user_id", dto.UserID, "error", err)
			continue
		}
		profiles[id] = s
	}
	return profiles, nil
}

// Save makes the table equal to profiles in one transaction: rows of users that are
// gone are deleted, the rest are upserted.
func (r *GormProfileStore) Save(ctx context.Context, profiles map[kernel.UserID]profile.Snapshot) error {
	ids := slices.Sorted(maps.Keys(profiles))
	dtos := make([]ProfileDTO, 0, len(ids))
	for _, id := range ids {
		dto, err := fromDomain(id, profiles[id])
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAllExcept(tx, ids); err != nil {
			return err
		}
		if len(dtos) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).CreateInBatches(&dtos, saveBatchSize).Error
	})
}

func deleteAllExcept(tx *gorm.DB, keep []kernel.UserID) error {
	if len(keep) == 0 {
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ProfileDTO{}).Error
	}
	raw := make([]int64, len(keep))
	for i, id := range keep {
		raw[i] = int64(id)
	}
	return tx.Where("user_id NOT IN ?", raw).Delete(&ProfileDTO{}).Error
}
