// Package onboarding models the driver sign-up wizard.
//
// The wizard collects the regions a driver wants to work in (at most
// kernel.MaxDriverRegions), the driver's name, car make and plate, and a contact
// phone. Once the phone is known the application layer decides between a free
// trial, invites for an existing subscription, or a payment prompt; in the last
// case the wizard parks at StageAwaitingReceipt until the driver sends a receipt.
//
//	Regions -> Name -> CarMake -> CarPlate -> Phone -> (AwaitingReceipt)
//
// Back moves one step up. Back at Regions abandons the wizard, and Back at
// AwaitingReceipt asks the caller to repeat the post-phone step.
package onboarding
