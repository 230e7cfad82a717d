// Package profilerepo stores the profile document in a PostgreSQL table, one row per
// user, and implements ports.ProfileStore on top of it.
package profilerepo

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/pkg/errs"
)

// ProfileDTO is the row shape of one profile. Nullable timestamps stand for the
// zero times of the snapshot; Extra holds the unknown keys as a JSON object.
type ProfileDTO struct {
	UserID         int64          `gorm:"primaryKey;autoIncrement:false"`
	Name           string         `gorm:"not null;default:''"`
	Phone          string         `gorm:"not null;default:'';index"`
	Regions        pq.StringArray `gorm:"type:text[]"`
	LastRegion     string         `gorm:"not null;default:''"`
	TrialGrantedAt *time.Time
	TrialExpiresAt *time.Time
	TrialJoinedAt  *time.Time
	Extra          string `gorm:"type:jsonb;not null;default:'{}'"`
	UpdatedAt      time.Time
}

// TableName overrides GORM's pluralized default.
func (ProfileDTO) TableName() string {
	return "profiles"
}

func fromDomain(id kernel.UserID, s profile.Snapshot) (ProfileDTO, error) {
	extra := "{}"
	if len(s.Extra) > 0 {
		raw, err := json.Marshal(s.Extra)
		if err != nil {
			return ProfileDTO{}, errs.NewValueIsInvalidErrorWithCause("extra", err)
		}
		extra = string(raw)
	}

	return ProfileDTO{
		UserID:         int64(id),
		Name:           s.Name,
		Phone:          s.Phone,
		Regions:        pq.StringArray(s.Regions),
		LastRegion:     s.LastRegion,
		TrialGrantedAt: nullableTime(s.TrialGrantedAt),
		TrialExpiresAt: nullableTime(s.TrialExpiresAt),
		TrialJoinedAt:  nullableTime(s.TrialJoinedAt),
		Extra:          extra,
	}, nil
}

func toDomain(dto ProfileDTO) (kernel.UserID, profile.Snapshot, error) {
	id := kernel.UserID(dto.UserID)
	if err := id.Validate(); err != nil {
		return 0, profile.Snapshot{}, err
	}

	var extra map[string]json.RawMessage
	if dto.Extra != "" {
		if err := json.Unmarshal([]byte(dto.Extra), &extra); err != nil {
			return 0, profile.Snapshot{}, errs.NewValueIsInvalidErrorWithCause("extra", err)
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	var regions []string
	if len(dto.Regions) > 0 {
		regions = []string(dto.Regions)
	}

	return id, profile.Snapshot{
		Name:           dto.Name,
		Phone:          dto.Phone,
		Regions:        regions,
		LastRegion:     dto.LastRegion,
		TrialGrantedAt: valueOf(dto.TrialGrantedAt),
		TrialExpiresAt: valueOf(dto.TrialExpiresAt),
		TrialJoinedAt:  valueOf(dto.TrialJoinedAt),
		Extra:          extra,
	}, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func valueOf(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
