// Package kernel provides the shared value objects of the dispatch domain.
//
// The package includes:
//   - UserID and MessageRef: identities of chat users and of rendered messages
//   - RegionCatalog: the configured service areas and their chats
//   - TimeOfDay: the HH:MM time an order is scheduled for
//   - GeoPoint: a shared pickup location
//   - UUID: the identifier of one order instance
//
// Values in this package are immutable once constructed and safe for concurrent use.
package kernel
