// Package invite tracks the single-use group invite links sent to drivers that
// have not joined their region chat yet.
package invite

import (
	"slices"

	"dispatch/internal/core/domain/model/kernel"
)

// Invite is one pending join link. Prompt is the DM carrying the join button; it is
// deleted when the invite is superseded or consumed.
type Invite struct {
	Region string
	ChatID int64
	Link   string
	Prompt kernel.MessageRef
}

// Bucket holds the pending invites of one driver, at most one per region.
type Bucket struct {
	driverID kernel.UserID
	invites  []Invite
}

// NewBucket returns an empty invite bucket for a driver.
func NewBucket(driverID kernel.UserID) *Bucket {
	return &Bucket{driverID: driverID}
}

func (b *Bucket) DriverID() kernel.UserID { return b.driverID }

// Put stores inv and returns the invite it replaced for the same region, if any.
func (b *Bucket) Put(inv Invite) (Invite, bool) {
	i := slices.IndexFunc(b.invites, func(cur Invite) bool { return cur.Region == inv.Region })
	if i < 0 {
		b.invites = append(b.invites, inv)
		return Invite{}, false
	}
	prev := b.invites[i]
	b.invites[i] = inv
	return prev, true
}

// ConsumeChat removes and returns the invite issued for chatID.
func (b *Bucket) ConsumeChat(chatID int64) (Invite, bool) {
	i := slices.IndexFunc(b.invites, func(cur Invite) bool { return cur.ChatID == chatID })
	if i < 0 {
		return Invite{}, false
	}
	inv := b.invites[i]
	b.invites = slices.Delete(b.invites, i, i+1)
	return inv, true
}

// Regions lists the regions with a pending invite, oldest first.
func (b *Bucket) Regions() []string {
	out := make([]string, 0, len(b.invites))
	for _, inv := range b.invites {
		out = append(out, inv.Region)
	}
	return out
}

func (b *Bucket) IsEmpty() bool { return len(b.invites) == 0 }

func (b *Bucket) Clone() *Bucket {
	return &Bucket{driverID: b.driverID, invites: slices.Clone(b.invites)}
}
