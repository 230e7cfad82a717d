package order

import (
	"errors"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// MinRating is the lowest score a customer can give.
	MinRating = 1
	// MaxRating is the highest score a customer can give.
	MaxRating = 5
)

// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// ReminderHandle is the cancelable group of reminder timers owned by an accepted order.
// Cancel must be safe to call more than once.
type ReminderHandle interface {
	Cancel()
}

// Details are the customer's answers copied from the committed draft.
type Details struct {
	Region  string
	Vehicle string
	Pickup  string
	Dropoff string
	When    kernel.TimeOfDay
}

// CancelActor tells which party cancelled an order.
type CancelActor int

const (
	// CancelledByCustomer removes the order.
	CancelledByCustomer CancelActor = iota + 1
	// CancelledByDriver reopens the order.
	CancelledByDriver
	// CancelledByAdmin removes the order.
	CancelledByAdmin
)

// Cancellation describes the outcome of Cancel for the caller that renders it.
type Cancellation struct {
	Actor CancelActor
	// Removed is true when the registry must drop the order.
	Removed bool
	// Driver is the driver assigned before the cancellation, zero if none.
	Driver kernel.UserID
	// DriverInfo and CustomerInfo are the detail messages that lose their buttons or are deleted.
	DriverInfo   kernel.MessageRef
	CustomerInfo kernel.MessageRef
}

// Order is the aggregate root of a dispatched delivery request.
//
// Invariants:
//   - Accepted and Completed orders have a driver, Open orders do not
//   - the customer never becomes the driver of their own order
//   - the rating is set at most once and only on a Completed order
//   - reminders exist only while the order is Accepted
type Order struct {
	id           kernel.UUID
	customerID   kernel.UserID
	details      Details
	status       Status
	driverID     kernel.UserID
	dispatchPost kernel.MessageRef
	driverInfo   kernel.MessageRef
	customerInfo kernel.MessageRef
	ratingPrompt kernel.MessageRef
	rating       int
	reminders    ReminderHandle

	isConstructed bool
}

// NewOrder creates an Open order for a customer whose dispatch post was already published.
//
// Parameters:
//   - customerID: the customer that placed the order (non-zero)
//   - details: region, vehicle, pickup, dropoff and time; region and time are required
//   - dispatchPost: the message in the region chat carrying the accept action
//
// Returns:
//   - *Order: a new Open order with a fresh instance id
//   - error: joined validation errors
//
// Example:
//
//	o, err := order.NewOrder(customerID, order.Details{Region: "Farg'ona", When: when}, post)
func NewOrder(customerID kernel.UserID, details Details, dispatchPost kernel.MessageRef) (*Order, error) {
	o := &Order{
		id:            kernel.NewUUID(),
		status:        Open,
		dispatchPost:  dispatchPost,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setCustomer(customerID),
		o.setDetails(details),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the instance id. It changes every time the customer places a new order.
func (o *Order) ID() kernel.UUID { return o.id }

// IsInstance reports whether the order is the instance identified by id.
func (o *Order) IsInstance(id kernel.UUID) bool { return o.id.IsEqual(id) }

// CustomerID returns the customer, which is also the registry key.
func (o *Order) CustomerID() kernel.UserID { return o.customerID }

// Details returns the order fields.
func (o *Order) Details() Details { return o.details }

// Status returns the lifecycle state.
func (o *Order) Status() Status { return o.status }

// Driver returns the assigned driver and whether one is assigned.
func (o *Order) Driver() (kernel.UserID, bool) { return o.driverID, o.driverID != 0 }

// DispatchPost returns the region chat message.
func (o *Order) DispatchPost() kernel.MessageRef { return o.dispatchPost }

// DriverInfo returns the detail message sent to the driver on accept.
func (o *Order) DriverInfo() kernel.MessageRef { return o.driverInfo }

// CustomerInfo returns the detail message sent to the customer on accept.
func (o *Order) CustomerInfo() kernel.MessageRef { return o.customerInfo }

// RatingPrompt returns the message carrying the rating buttons.
func (o *Order) RatingPrompt() kernel.MessageRef { return o.ratingPrompt }

// Rating returns the stored score and whether the customer rated.
func (o *Order) Rating() (int, bool) { return o.rating, o.rating != 0 }

// HasReminders reports whether a reminder group is attached.
func (o *Order) HasReminders() bool { return o.reminders != nil }

// SetDriverInfo records the driver's detail message.
func (o *Order) SetDriverInfo(ref kernel.MessageRef) { o.driverInfo = ref }

// SetCustomerInfo records the customer's detail message.
func (o *Order) SetCustomerInfo(ref kernel.MessageRef) { o.customerInfo = ref }

// SetRatingPrompt records the rating message.
func (o *Order) SetRatingPrompt(ref kernel.MessageRef) { o.ratingPrompt = ref }

// TakeCustomerInfo clears and returns the customer's detail message so it can be deleted.
func (o *Order) TakeCustomerInfo() kernel.MessageRef {
	ref := o.customerInfo
	o.customerInfo = kernel.MessageRef{}
	return ref
}

// Accept assigns the order to a driver. The checks run in this order and the first
// failure is returned without mutating the order:
//
//  1. status must be Open (ErrInvalidState; a second accept always fails here)
//  2. the driver must not be the customer (ErrUnauthorized)
//  3. the driver must have a phone on file (ErrPhoneRequired)
//  4. the order region must be among driverRegions (*RegionMismatchError), unless the
//     driver holds no region at all
//
// Returns:
//   - grantRegion: true when the driver held no region and must be given the order's region
//   - error: see above
//
// Example:
//
//	grant, err := o.Accept(driverID, profile.HasPhone(), regions)
//	if errors.Is(err, order.ErrRegionMismatch) {
//	    // tell the driver which regions they hold
//	}
func (o *Order) Accept(driverID kernel.UserID, hasPhone bool, driverRegions []string) (bool, error) {
	next, err := o.status.Accept()
	if err != nil {
		return false, err
	}
	if err := driverID.Validate(); err != nil {
		return false, err
	}
	if driverID == o.customerID {
		return false, ErrUnauthorized
	}
	if !hasPhone {
		return false, ErrPhoneRequired
	}

	grant := len(driverRegions) == 0
	if !grant && !slices.Contains(driverRegions, o.details.Region) {
		return false, &RegionMismatchError{Region: o.details.Region, DriverRegions: slices.Clone(driverRegions)}
	}

	o.status = next
	o.driverID = driverID
	return grant, nil
}

// AttachReminders hands the reminder group of the current acceptance to the order,
// cancelling any group attached earlier. A group offered to an order that is no longer
// Accepted is cancelled at once and ErrInvalidState is returned.
func (o *Order) AttachReminders(h ReminderHandle) error {
	if o.status != Accepted {
		if h != nil {
			h.Cancel()
		}
		return ErrInvalidState
	}
	o.cancelReminders()
	o.reminders = h
	return nil
}

// Complete marks the order delivered.
//
// Returns:
//   - ErrNotAssignedDriver when actor is not the assigned driver (checked first)
//   - ErrInvalidState when the order is not Accepted
func (o *Order) Complete(actor kernel.UserID) error {
	if o.driverID == 0 || actor != o.driverID {
		return ErrNotAssignedDriver
	}
	next, err := o.status.Complete()
	if err != nil {
		return err
	}
	o.cancelReminders()
	o.status = next
	return nil
}

// Rate stores the customer's score clamped to [MinRating, MaxRating]. The first rating
// wins: a repeat is accepted, keeps the stored score and reports changed = false.
//
// Returns:
//   - stored: the score now on the order
//   - changed: whether this call set it
//   - error: ErrNotOwner for anyone but the customer, ErrInvalidState unless Completed
func (o *Order) Rate(actor kernel.UserID, score int) (stored int, changed bool, err error) {
	if actor != o.customerID {
		return 0, false, ErrNotOwner
	}
	if o.status != Completed {
		return 0, false, ErrInvalidState
	}
	if o.rating != 0 {
		return o.rating, false, nil
	}
	o.rating = min(max(score, MinRating), MaxRating)
	return o.rating, true, nil
}

// Cancel applies a cancellation by actor.
//
// Outcomes:
//   - customer: reminders cancelled, order to be removed
//   - assigned driver: reminders cancelled, order reopened with no driver, the customer's
//     detail message is released for deletion
//   - admin (isAdmin): same as the customer
//   - anyone else: ErrUnauthorized
//
// A Completed order fails with ErrAlreadyFinal before the actor is considered.
func (o *Order) Cancel(actor kernel.UserID, isAdmin bool) (Cancellation, error) {
	if err := o.status.ValidateCancel(); err != nil {
		return Cancellation{}, err
	}

	c := Cancellation{Driver: o.driverID, DriverInfo: o.driverInfo, CustomerInfo: o.customerInfo}

	switch {
	case actor == o.customerID:
		c.Actor = CancelledByCustomer
		c.Removed = true
	case o.driverID != 0 && actor == o.driverID:
		next, err := o.status.Reopen()
		if err != nil {
			return Cancellation{}, err
		}
		c.Actor = CancelledByDriver
		o.status = next
		o.driverID = 0
		o.driverInfo = kernel.MessageRef{}
		o.customerInfo = kernel.MessageRef{}
	case isAdmin:
		c.Actor = CancelledByAdmin
		c.Removed = true
	default:
		return Cancellation{}, ErrUnauthorized
	}

	o.cancelReminders()
	return c, nil
}

// Discard cancels the reminders of an order that is being replaced or removed.
func (o *Order) Discard() {
	o.cancelReminders()
}

// Clone returns a copy sharing the reminder handle.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}

func (o *Order) cancelReminders() {
	if o.reminders != nil {
		o.reminders.Cancel()
		o.reminders = nil
	}
}

func (o *Order) setCustomer(id kernel.UserID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setDetails(d Details) error {
	var missing []error
	if strings.TrimSpace(d.Region) == "" {
		missing = append(missing, errs.NewValueIsRequiredError("region"))
	}
	if !d.When.IsSet() {
		missing = append(missing, errs.NewValueIsRequiredError("when"))
	}
	if err := errors.Join(missing...); err != nil {
		return err
	}
	o.details = d
	return nil
}
