package profile

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Snapshot is the persisted shape of a Profile. Zero times mean "not set".
// Extra holds keys the current code does not know; they are written back verbatim.
type Snapshot struct {
	Name           string
	Phone          string
	Regions        []string
	LastRegion     string
	TrialGrantedAt time.Time
	TrialExpiresAt time.Time
	TrialJoinedAt  time.Time
	Extra          map[string]json.RawMessage
}

// Snapshot exports the profile for persistence.
func (p *Profile) Snapshot() Snapshot {
	return Snapshot{
		Name:           p.name,
		Phone:          p.phone,
		Regions:        slices.Clone(p.regions),
		LastRegion:     p.lastRegion,
		TrialGrantedAt: p.trialGrantedAt,
		TrialExpiresAt: p.trialExpiresAt,
		TrialJoinedAt:  p.trialJoinedAt,
		Extra:          maps.Clone(p.Extra()),
	}
}

// Extra returns the unknown keys carried by the profile.
func (p *Profile) Extra() map[string]json.RawMessage {
	return p.extra
}

// Restore rebuilds a profile from a stored snapshot without normalizing it, so a
// load followed by a save writes the same document.
func Restore(id kernel.UserID, s Snapshot) (*Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var extra map[string]json.RawMessage
	if len(s.Extra) > 0 {
		extra = maps.Clone(s.Extra)
	}
	return &Profile{
		id:             id,
		name:           s.Name,
		phone:          s.Phone,
		regions:        slices.Clone(s.Regions),
		lastRegion:     s.LastRegion,
		trialGrantedAt: s.TrialGrantedAt,
		trialExpiresAt: s.TrialExpiresAt,
		trialJoinedAt:  s.TrialJoinedAt,
		extra:          extra,
		isConstructed:  true,
	}, nil
}
