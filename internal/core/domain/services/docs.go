// Package services provides domain rules that do not belong to a single
// aggregate: subscription pricing, the region set a driver is recognized for
// across the wizard, entitlement, profile and invite records, and the admin
// policy that gates approval and cancellation overrides.
package services
