// Package commands contains the operations that change bot state: the order
// lifecycle, the customer draft wizard, driver onboarding, receipts, invites and the
// trial watcher.
//
// Every command is built by its constructor and carried out by a handler. A handler
// commits state through the repositories first and renders chat side effects after;
// a failed delivery is logged and counted but never rolls back a committed change,
// unless the handler says otherwise.
package commands

import (
	"log/slog"
	"time"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

// Settings are the deployment values the handlers need besides their ports.
type Settings struct {
	// RatingsChatID receives a line per rated order. Zero disables the log.
	RatingsChatID int64
	// PaymentsChatID receives the receipts for admin review.
	PaymentsChatID int64
	// TrialTTL is the length of the free trial.
	TrialTTL time.Duration
	// InviteTTL bounds the life of an invite link; zero means no expiry.
	InviteTTL time.Duration
}

// Deps bundles what the handlers are built from. All fields are required.
//
// Example:
//
//	deps := commands.Deps{
//	    Drafts: drafts, Orders: orders, OrderLocks: memory.NewKeyedMutex(),
//	    Profiles: profiles, Entitlements: entitlements, Onboarding: wizards,
//	    Invites: invites, Gateway: gateway, Reminders: scheduler,
//	    Regions: regions, Admins: admins, Catalog: catalog,
//	    Clock: clock.NewReal(), Logger: logger, Settings: settings,
//	}
//	accept := commands.NewAcceptOrderCommandHandler(deps)
type Deps struct {
	Drafts       ports.DraftRepository
	Orders       ports.OrderRepository
	OrderLocks   ports.OrderLocks
	Profiles     ports.ProfileRepository
	Entitlements ports.EntitlementRepository
	Onboarding   ports.OnboardingRepository
	Invites      ports.InviteRepository

	Gateway   ports.MessagingGateway
	Reminders ports.ReminderScheduler

	Regions *kernel.RegionCatalog
	Admins  services.AdminPolicy
	Catalog messages.Catalog
	Clock   clock.Clock
	Logger  *slog.Logger

	Settings Settings
}
