// Package draft implements the customer's order wizard.
//
// A Draft collects the fields of an order one stage at a time:
//
//	Region -> Vehicle -> Pickup -> Dropoff -> WhenSelect -> (WhenInput) -> Confirm
//
// Every stage validates its input before advancing and Back moves one stage up,
// clearing the field that will be asked again. At Confirm only commit or discard are
// legal; both are driven by the application layer, the draft itself only rejects
// further input.
package draft
