package profile

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

var (
	// ErrProfileIsNotConstructed is returned when a Profile was not created through
	// NewProfile or Restore.
	ErrProfileIsNotConstructed = errors.New("Profile must be created via NewProfile constructor")

	// ErrTrialNotGranted is returned when a trial join is recorded before any grant.
	ErrTrialNotGranted = errors.New("trial was never granted")

	// ErrTrialAlreadyUsed is returned when a second trial is claimed.
	ErrTrialAlreadyUsed = errors.New("trial was already used")
)

// Profile is a user's durable record.
//
// Invariants:
//   - len(regions) <= kernel.MaxDriverRegions, without duplicates
//   - trialGrantedAt, trialExpiresAt and trialJoinedAt are each set at most once
//   - trialJoinedAt is only set after trialGrantedAt
type Profile struct {
	id             kernel.UserID
	name           string
	phone          string
	regions        []string
	lastRegion     string
	trialGrantedAt time.Time
	trialExpiresAt time.Time
	trialJoinedAt  time.Time
	extra          map[string]json.RawMessage
	isConstructed  bool
}

// NewProfile creates an empty profile for id.
//
// Parameters:
//   - id: the chat user id (must be non-zero)
//
// Returns:
//   - *Profile: the profile with no name, phone or regions
//   - error: the id validation error
func NewProfile(id kernel.UserID) (*Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &Profile{id: id, isConstructed: true}, nil
}

// Validate ensures the profile was created via NewProfile or Restore.
func (p *Profile) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProfileIsNotConstructed
	}
	return nil
}

// ID returns the user id.
func (p *Profile) ID() kernel.UserID { return p.id }

// Name returns the display name, possibly empty.
func (p *Profile) Name() string { return p.name }

// Phone returns the "+"-prefixed phone, possibly empty.
func (p *Profile) Phone() string { return p.phone }

// HasPhone reports whether the user finished contact sharing.
func (p *Profile) HasPhone() bool { return p.phone != "" }

// Regions returns a copy of the driver's regions in selection order.
func (p *Profile) Regions() []string { return slices.Clone(p.regions) }

// LastRegion returns the region the user used most recently: the remembered order
// region, or else the newest driver region. Empty when neither exists.
func (p *Profile) LastRegion() string {
	if p.lastRegion != "" {
		return p.lastRegion
	}
	if n := len(p.regions); n > 0 {
		return p.regions[n-1]
	}
	return ""
}

// TrialGrantedAt returns the trial grant instant and whether a trial was ever granted.
func (p *Profile) TrialGrantedAt() (time.Time, bool) {
	return p.trialGrantedAt, !p.trialGrantedAt.IsZero()
}

// TrialExpiresAt returns the trial expiry, zero when no trial was granted.
func (p *Profile) TrialExpiresAt() time.Time { return p.trialExpiresAt }

// TrialJoinedAt returns when the driver first joined a chat after the grant.
func (p *Profile) TrialJoinedAt() (time.Time, bool) {
	return p.trialJoinedAt, !p.trialJoinedAt.IsZero()
}

// SetContact records a shared contact. The phone is normalized with a "+" prefix;
// a blank name keeps the current one.
//
// Example:
//
//	err := p.SetContact("Ali Valiyev", "998901112233")
//	fmt.Println(p.Phone()) // +998901112233
func (p *Profile) SetContact(name, phone string) error {
	normalized, err := kernel.NormalizePhone(phone)
	if err != nil {
		return err
	}
	p.phone = normalized
	if name = strings.TrimSpace(name); name != "" {
		p.name = name
	}
	return nil
}

// FillName sets the name only when none is stored yet.
func (p *Profile) FillName(name string) {
	if p.name == "" {
		p.name = strings.TrimSpace(name)
	}
}

// SetRegions replaces the driver's regions. Values must already be resolved region
// names; duplicates are dropped and the list is capped at kernel.MaxDriverRegions.
// The remembered region follows the newest entry, or is cleared with an empty list.
func (p *Profile) SetRegions(regions []string) {
	p.regions = capRegions(regions)
	if n := len(p.regions); n > 0 {
		p.lastRegion = p.regions[n-1]
	} else {
		p.lastRegion = ""
	}
}

// AddRegions appends regions not held yet while room remains, then behaves like SetRegions.
// It reports whether any region was added.
func (p *Profile) AddRegions(regions ...string) bool {
	current := slices.Clone(p.regions)
	for _, r := range regions {
		if r == "" || slices.Contains(current, r) || len(current) >= kernel.MaxDriverRegions {
			continue
		}
		current = append(current, r)
	}
	added := len(current) != len(p.regions)
	p.SetRegions(current)
	return added
}

// RememberRegion stores the region a customer picked for an order.
func (p *Profile) RememberRegion(region string) {
	p.lastRegion = region
}

// GrantTrial stamps the one-time trial window starting at now. A second call is a
// no-op and returns false; the original grant is never overwritten.
func (p *Profile) GrantTrial(now time.Time, ttl time.Duration) bool {
	if !p.trialGrantedAt.IsZero() {
		return false
	}
	p.trialGrantedAt = now
	p.trialExpiresAt = now.Add(ttl)
	return true
}

// ClaimTrial is GrantTrial that fails with ErrTrialAlreadyUsed when a trial was
// granted before. Inside a repository Upsert it decides the one-time trial.
func (p *Profile) ClaimTrial(now time.Time, ttl time.Duration) error {
	if !p.GrantTrial(now, ttl) {
		return ErrTrialAlreadyUsed
	}
	return nil
}

// MarkTrialJoined stamps the first chat join after the trial grant. It returns
// ErrTrialNotGranted without a grant and false when already stamped.
func (p *Profile) MarkTrialJoined(now time.Time) (bool, error) {
	if p.trialGrantedAt.IsZero() {
		return false, ErrTrialNotGranted
	}
	if !p.trialJoinedAt.IsZero() {
		return false, nil
	}
	p.trialJoinedAt = now
	return true, nil
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	c.regions = slices.Clone(p.regions)
	c.extra = maps.Clone(p.extra)
	return &c
}

func capRegions(regions []string) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
		if len(out) == kernel.MaxDriverRegions {
			break
		}
	}
	return out
}
