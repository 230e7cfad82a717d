// Package ports defines the contracts between the application core and its
// adapters: the registries holding drafts, orders, profiles, entitlements,
// onboarding wizards and pending invites, the durable profile store, the chat
// messaging gateway and the reminder scheduler.
//
// Registries hand out copies. Mutations go through Update-style methods that run
// a closure on a private copy under the registry's per-key lock and commit it only
// when the closure returns nil, so check-and-set sequences such as accepting an
// order cannot interleave.
package ports
