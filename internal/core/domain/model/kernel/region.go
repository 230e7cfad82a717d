package kernel

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// MaxDriverRegions caps how many regions one driver can hold at a time.
const MaxDriverRegions = 7

// ErrUnknownRegion is returned by catalog lookups for a name that is not configured.
var ErrUnknownRegion = errors.New("unknown region")

// Region is one configured service area. Orders for the region are posted to
// OrderChatID; drivers of the region are invited to DriverChatID.
type Region struct {
	Name         string
	OrderChatID  int64
	DriverChatID int64
}

// RegionCatalog is the immutable list of configured regions in display order.
type RegionCatalog struct {
	regions      []Region
	byName       map[string]Region
	byDriverChat map[int64]string
}

// NewRegionCatalog validates the entries and builds a catalog.
//
// Entries with a blank name are skipped. Every remaining entry must carry an order chat id;
// a missing driver chat id falls back to the order chat id. At least one region is required.
//
// Example:
//
//	catalog, err := kernel.NewRegionCatalog([]kernel.Region{
//	    {Name: "Farg'ona", OrderChatID: -1001, DriverChatID: -1002},
//	})
func NewRegionCatalog(entries []Region) (*RegionCatalog, error) {
	c := &RegionCatalog{
		byName:       make(map[string]Region, len(entries)),
		byDriverChat: make(map[int64]string, len(entries)),
	}

	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			continue
		}
		if e.OrderChatID == 0 {
			return nil, errs.NewValueIsRequiredErrorWithCause(
				"order_chat_id",
				fmt.Errorf("region %q has no order chat", e.Name),
			)
		}
		if e.DriverChatID == 0 {
			e.DriverChatID = e.OrderChatID
		}
		key := strings.ToLower(e.Name)
		if _, dup := c.byName[key]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("region", fmt.Errorf("%q is configured twice", e.Name))
		}
		c.regions = append(c.regions, e)
		c.byName[key] = e
		c.byDriverChat[e.DriverChatID] = e.Name
	}

	if len(c.regions) == 0 {
		return nil, errs.NewValueIsRequiredError("regions")
	}

	return c, nil
}

// Names returns the region names in configured order.
func (c *RegionCatalog) Names() []string {
	names := make([]string, 0, len(c.regions))
	for _, r := range c.regions {
		names = append(names, r.Name)
	}
	return names
}

// Resolve maps free text to a configured region name. The match is exact on the
// trimmed, case-folded input.
func (c *RegionCatalog) Resolve(text string) (string, bool) {
	r, ok := c.byName[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return "", false
	}
	return r.Name, true
}

// Normalize resolves every value, drops unknown names and duplicates, keeps the
// first-seen order and stops at MaxDriverRegions.
func (c *RegionCatalog) Normalize(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		name, ok := c.Resolve(v)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
		if len(result) >= MaxDriverRegions {
			break
		}
	}
	return result
}

// OrderChat returns the chat orders of the region are posted to.
func (c *RegionCatalog) OrderChat(region string) (int64, error) {
	r, ok := c.byName[strings.ToLower(region)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	return r.OrderChatID, nil
}

// DriverChat returns the chat drivers of the region are invited to.
func (c *RegionCatalog) DriverChat(region string) (int64, error) {
	r, ok := c.byName[strings.ToLower(region)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	return r.DriverChatID, nil
}

// RegionByDriverChat reverses DriverChat.
func (c *RegionCatalog) RegionByDriverChat(chatID int64) (string, bool) {
	name, ok := c.byDriverChat[chatID]
	return name, ok
}

// IsDriverChat reports whether chatID belongs to any region's drivers.
func (c *RegionCatalog) IsDriverChat(chatID int64) bool {
	_, ok := c.byDriverChat[chatID]
	return ok
}
