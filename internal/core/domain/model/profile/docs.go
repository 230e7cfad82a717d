// Package profile models the durable record kept for every user who shared a contact.
//
// A Profile is created on the first contact share and is never deleted. It carries
// the display name and phone, the regions a driver works in (selection order, last
// element is the most recent), the region a customer last ordered in, and the
// one-time trial timestamps.
//
// Profiles are the only state written to the snapshot store. Unknown keys found in a
// stored record are kept in an opaque bag and written back unchanged.
package profile
