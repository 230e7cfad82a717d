package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown is the zero value and catches uninitialized statuses.
	Unknown Status = iota

	// Open orders are posted to the region chat and wait for a driver.
	Open

	// Accepted orders have exactly one driver and running reminders.
	Accepted

	// Completed orders are final; only the rating may still change.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Open:      "open",
		Accepted:  "accepted",
		Completed: "completed",
	}
}

// Validate checks that the status is one of Open, Accepted or Completed.
//
// Returns:
//   - nil if the status is valid
//   - ValueIsInvalidError for Unknown and out-of-range values
func (s Status) Validate() error {
	if s < Open || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase status name used in logs and API responses.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Accept transitions Open -> Accepted.
//
// Returns:
//   - (Accepted, nil) from Open
//   - (0, ErrInvalidState) from any other status
func (s Status) Accept() (Status, error) {
	if s != Open {
		return 0, fmt.Errorf("%w: cannot accept an order that is %s", ErrInvalidState, s)
	}
	return Accepted, nil
}

// Complete transitions Accepted -> Completed.
func (s Status) Complete() (Status, error) {
	if s != Accepted {
		return 0, fmt.Errorf("%w: cannot complete an order that is %s", ErrInvalidState, s)
	}
	return Completed, nil
}

// Reopen transitions Accepted -> Open after the driver backs out.
func (s Status) Reopen() (Status, error) {
	if s != Accepted {
		return 0, fmt.Errorf("%w: cannot reopen an order that is %s", ErrInvalidState, s)
	}
	return Open, nil
}

// ValidateCancel allows cancelling Open and Accepted orders.
//
// Returns:
//   - nil for Open and Accepted
//   - ErrAlreadyFinal for Completed
//   - ErrInvalidState for anything else
func (s Status) ValidateCancel() error {
	switch s {
	case Open, Accepted:
		return nil
	case Completed:
		return ErrAlreadyFinal
	case Unknown:
	}
	return fmt.Errorf("%w: cannot cancel an order that is %s", ErrInvalidState, s)
}
