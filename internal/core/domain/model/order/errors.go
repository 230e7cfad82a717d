package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidState rejects a transition the current status does not allow.
	ErrInvalidState = errors.New("order is not in a valid state for this action")

	// ErrUnauthorized rejects an actor with no role in the action.
	ErrUnauthorized = errors.New("actor is not allowed to perform this action")

	// ErrPhoneRequired rejects an accept by a driver without a phone on file.
	ErrPhoneRequired = errors.New("driver must share a phone before accepting")

	// ErrRegionMismatch rejects an accept outside the driver's regions.
	ErrRegionMismatch = errors.New("order region is not among driver regions")

	// ErrNotAssignedDriver rejects completion by anyone but the assigned driver.
	ErrNotAssignedDriver = errors.New("only the assigned driver can complete the order")

	// ErrNotOwner rejects a rating by anyone but the customer.
	ErrNotOwner = errors.New("only the customer can rate the order")

	// ErrAlreadyFinal rejects cancelling a completed order.
	ErrAlreadyFinal = errors.New("order is completed and cannot be cancelled")
)

// RegionMismatchError names the order region and the regions the driver holds.
type RegionMismatchError struct {
	Region        string
	DriverRegions []string
}

func (e *RegionMismatchError) Error() string {
	return fmt.Sprintf("%s: order is for %s, driver has %s", ErrRegionMismatch, e.Region, strings.Join(e.DriverRegions, ", "))
}

func (e *RegionMismatchError) Unwrap() error {
	return ErrRegionMismatch
}
