// Package snapshot holds the JSON form of the profile document and a file-backed
// ports.ProfileStore that writes it.
//
// The document is one object keyed by the decimal user id. Each value is an object
// with the keys below; any other key is carried through untouched.
//
//	{
//	  "1001": {
//	    "name": "Ali",
//	    "phone": "+998901112233",
//	    "regions": ["Farg'ona"],
//	    "last_region": "Farg'ona",
//	    "trial_granted_at": "2025-03-01T18:10:00.123456",
//	    "trial_expires_at": "2025-03-31T18:10:00Z"
//	  }
//	}
//
// Times in the local zone are written without a zone and with microseconds only when
// they are not zero, the way the first deployments wrote them; other times are
// RFC 3339. Keys are written sorted and HTML characters are not escaped, so saving
// a loaded document reproduces it byte for byte. The one exception is an entry with
// the legacy "region" key, which is migrated to "regions" and "last_region" on the
// first save.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/pkg/errs"
)

const (
	keyName           = "name"
	keyPhone          = "phone"
	keyRegions        = "regions"
	keyLegacyRegion   = "region"
	keyLastRegion     = "last_region"
	keyTrialGrantedAt = "trial_granted_at"
	keyTrialExpiresAt = "trial_expires_at"
	keyTrialJoinedAt  = "trial_joined_at"
)

var knownKeys = map[string]struct{}{
	keyName: {}, keyPhone: {}, keyRegions: {}, keyLegacyRegion: {}, keyLastRegion: {},
	keyTrialGrantedAt: {}, keyTrialExpiresAt: {}, keyTrialJoinedAt: {},
}

const (
	localLayout       = "2006-01-02T15:04:05"
	localMicrosLayout = "2006-01-02T15:04:05.000000"
)

// Timestamps without a zone are read as local time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	localLayout,
	"2006-01-02 15:04:05",
}

// MarshalProfile renders one profile entry. Unknown keys from Extra are written
// first so a known key always wins.
func MarshalProfile(s profile.Snapshot) (json.RawMessage, error) {
	entry := make(map[string]any, len(s.Extra)+7)
	for k, v := range s.Extra {
		entry[k] = v
	}

	if s.Name != "" {
		entry[keyName] = s.Name
	}
	if s.Phone != "" {
		entry[keyPhone] = s.Phone
	}
	if len(s.Regions) > 0 {
		entry[keyRegions] = s.Regions
	}
	if s.LastRegion != "" {
		entry[keyLastRegion] = s.LastRegion
	}
	putTime(entry, keyTrialGrantedAt, s.TrialGrantedAt)
	putTime(entry, keyTrialExpiresAt, s.TrialExpiresAt)
	putTime(entry, keyTrialJoinedAt, s.TrialJoinedAt)

	return marshal(entry, "")
}

func putTime(entry map[string]any, key string, t time.Time) {
	if !t.IsZero() {
		entry[key] = formatTime(t)
	}
}

func formatTime(t time.Time) string {
	if t.Location() != time.Local {
		return t.Format(time.RFC3339Nano)
	}
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(localLayout)
	}
	return t.Format(localMicrosLayout)
}

// marshal encodes v without HTML escaping, indented when indent is not empty.
func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalProfile parses one profile entry. A missing "regions" list falls back to
// the single "region" key older entries used, which then also fills a missing
// "last_region". The legacy key is dropped.
func UnmarshalProfile(raw json.RawMessage) (profile.Snapshot, error) {
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return profile.Snapshot{}, errs.NewValueIsInvalidErrorWithCause("profile entry", err)
	}

	var s profile.Snapshot
	var err error
	if s.Name, err = readString(entry, keyName); err != nil {
		return profile.Snapshot{}, err
	}
	if s.Phone, err = readString(entry, keyPhone); err != nil {
		return profile.Snapshot{}, err
	}
	if s.LastRegion, err = readString(entry, keyLastRegion); err != nil {
		return profile.Snapshot{}, err
	}
	if s.Regions, err = readRegions(entry); err != nil {
		return profile.Snapshot{}, err
	}
	if _, legacy := entry[keyLegacyRegion]; legacy && s.LastRegion == "" && len(s.Regions) > 0 {
		s.LastRegion = s.Regions[len(s.Regions)-1]
	}
	if s.TrialGrantedAt, err = readTime(entry, keyTrialGrantedAt); err != nil {
		return profile.Snapshot{}, err
	}
	if s.TrialExpiresAt, err = readTime(entry, keyTrialExpiresAt); err != nil {
		return profile.Snapshot{}, err
	}
	if s.TrialJoinedAt, err = readTime(entry, keyTrialJoinedAt); err != nil {
		return profile.Snapshot{}, err
	}

	maps.DeleteFunc(entry, func(k string, _ json.RawMessage) bool {
		_, known := knownKeys[k]
		return known
	})
	if len(entry) > 0 {
		s.Extra = entry
	}
	return s, nil
}

func readString(entry map[string]json.RawMessage, key string) (string, error) {
	raw, ok := entry[key]
	if !ok || isNull(raw) {
		return "", nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return v, nil
}

func readRegions(entry map[string]json.RawMessage) ([]string, error) {
	if raw, ok := entry[keyRegions]; ok && !isNull(raw) {
		// A bare string was accepted for a single region.
		var single string
		if json.Unmarshal(raw, &single) == nil {
			return nonBlank([]string{single}), nil
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(keyRegions, err)
		}
		return nonBlank(list), nil
	}

	legacy, err := readString(entry, keyLegacyRegion)
	if err != nil {
		return nil, err
	}
	return nonBlank([]string{legacy}), nil
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func readTime(entry map[string]json.RawMessage, key string) (time.Time, error) {
	text, err := readString(entry, key)
	if err != nil || text == "" {
		return time.Time{}, err
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("unrecognized time %q", text))
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// EncodeDocument renders the whole profile map, indented, keyed by user id.
func EncodeDocument(profiles map[kernel.UserID]profile.Snapshot) ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(profiles))
	for id, s := range profiles {
		raw, err := MarshalProfile(s)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", id, err)
		}
		doc[id.String()] = raw
	}
	return marshal(doc, "  ")
}

// DecodeDocument parses a whole document. Entries whose key is not a user id or
// whose value does not parse are returned in skipped instead of failing the load.
func DecodeDocument(data []byte) (profiles map[kernel.UserID]profile.Snapshot, skipped map[string]error, err error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, errs.NewValueIsInvalidErrorWithCause("profile document", err)
	}

	profiles = make(map[kernel.UserID]profile.Snapshot, len(doc))
	skipped = make(map[string]error)
	for key, raw := range doc {
		id, err := kernel.ParseUserID(key)
		if err != nil {
			skipped[key] = err
			continue
		}
		s, err := UnmarshalProfile(raw)
		if err != nil {
			skipped[key] = err
			continue
		}
		profiles[id] = s
	}
	return profiles, skipped, nil
}
