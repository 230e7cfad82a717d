package services

import "dispatch/internal/core/domain/model/kernel"

// AdminPolicy answers whether a user may approve receipts and cancel any order.
type AdminPolicy struct {
	admins map[kernel.UserID]struct{}
}

// NewAdminPolicy returns a policy that treats the given users as admins.
func NewAdminPolicy(admins []kernel.UserID) AdminPolicy {
	set := make(map[kernel.UserID]struct{}, len(admins))
	for _, id := range admins {
		set[id] = struct{}{}
	}
	return AdminPolicy{admins: set}
}

func (p AdminPolicy) IsAdmin(id kernel.UserID) bool {
	_, ok := p.admins[id]
	return ok
}

// Admins lists the admin ids; the order is unspecified.
func (p AdminPolicy) Admins() []kernel.UserID {
	out := make([]kernel.UserID, 0, len(p.admins))
	for id := range p.admins {
		out = append(out, id)
	}
	return out
}
