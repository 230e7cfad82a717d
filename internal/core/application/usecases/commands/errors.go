package commands

import "errors"

// Errors shared by several handlers. Handlers that already told the user what went
// wrong still return them so the caller can pick an alert or skip logging.
var (
	ErrNotOnboarded          = errors.New("user has no phone on file")
	ErrNoRegionSelected      = errors.New("no region to post the order to")
	ErrNoActiveDraft         = errors.New("no draft awaiting confirmation")
	ErrNotYourButton         = errors.New("button belongs to another user")
	ErrGatewayDeliveryFailed = errors.New("message could not be delivered")
	ErrAdminOnly             = errors.New("only an admin can do this")
	ErrDriverRegionsUnknown  = errors.New("driver regions are unknown")
	ErrNoInviteSent          = errors.New("no invite link could be delivered")
	ErrNotAwaitingReceipt    = errors.New("driver is not expected to send a receipt")
)
