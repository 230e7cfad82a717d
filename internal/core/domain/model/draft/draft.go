package draft

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// UnknownVehicle is stored when the customer sends an empty vehicle description.
const UnknownVehicle = "Noma'lum"

var (
	// ErrDraftIsNotConstructed is returned when a Draft was not created via NewDraft.
	ErrDraftIsNotConstructed = errors.New("Draft must be created via NewDraft constructor")

	// ErrUnknownRegion rejects a region reply that does not resolve; the stage is re-asked.
	ErrUnknownRegion = errors.New("region is not configured")

	// ErrInvalidTime rejects a time reply that is not HH:MM; the stage is re-asked.
	ErrInvalidTime = errors.New("time must be HH:MM")

	// ErrAwaitingConfirmation rejects input at the confirm stage.
	ErrAwaitingConfirmation = errors.New("draft is awaiting confirmation")

	// ErrUnexpectedInput rejects an input variant the current stage does not take.
	ErrUnexpectedInput = errors.New("input is not accepted at this stage")
)

// RegionResolver maps free text to a configured region.
type RegionResolver interface {
	Resolve(text string) (string, bool)
}

// Details are the fields collected by the wizard.
type Details struct {
	Region  string
	Vehicle string
	Pickup  string
	Dropoff string
	When    kernel.TimeOfDay
}

// Draft is the in-progress order of one customer.
//
// Invariants:
//   - stage is always a valid Stage
//   - the confirmation message exists only while the draft is unchanged since it was rendered
type Draft struct {
	customerID    kernel.UserID
	stage         Stage
	details       Details
	confirmation  kernel.MessageRef
	resumeConfirm bool
	isConstructed bool
}

// NewDraft starts a wizard at StageRegion.
//
// Example:
//
//	d, err := draft.NewDraft(customerID)
//	if err != nil {
//	    return err
//	}
//	_, err = d.Submit(draft.TextInput("Farg'ona"), catalog, now)
func NewDraft(customerID kernel.UserID) (*Draft, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	return &Draft{
		customerID:    customerID,
		stage:         StageRegion,
		isConstructed: true,
	}, nil
}

// Validate ensures the draft was created via NewDraft.
func (d *Draft) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDraftIsNotConstructed
	}
	return nil
}

// CustomerID returns the owner.
func (d *Draft) CustomerID() kernel.UserID { return d.customerID }

// Stage returns the stage the draft waits on.
func (d *Draft) Stage() Stage { return d.stage }

// Details returns a copy of the collected fields.
func (d *Draft) Details() Details { return d.details }

// Confirmation returns the rendered confirmation message, zero when none is shown.
func (d *Draft) Confirmation() kernel.MessageRef { return d.confirmation }

// SetConfirmation records the summary message rendered on entering StageConfirm.
func (d *Draft) SetConfirmation(ref kernel.MessageRef) { d.confirmation = ref }

// TakeConfirmation clears and returns the confirmation message so the caller can delete it.
func (d *Draft) TakeConfirmation() kernel.MessageRef {
	ref := d.confirmation
	d.confirmation = kernel.MessageRef{}
	return ref
}

// Submit applies one customer reply to the current stage.
//
// Validation per stage:
//   - Region: text that resolves through regions, else ErrUnknownRegion
//   - Vehicle: any text, empty becomes UnknownVehicle
//   - Pickup: text or a shared location (stored as its maps link)
//   - Dropoff: any text
//   - WhenSelect: "now" (now's HH:MM), "custom" (moves to WhenInput) or HH:MM text
//   - WhenInput: HH:MM text only, else ErrInvalidTime
//   - Confirm: always ErrAwaitingConfirmation
//
// Any accepted reply invalidates a rendered confirmation; the stale reference is
// returned so the caller can delete that message. Rejected replies change nothing.
//
// Returns:
//   - kernel.MessageRef: the confirmation message to delete, zero if none
//   - error: one of the errors above, or ErrUnexpectedInput for a variant the stage does not take
func (d *Draft) Submit(in Input, regions RegionResolver, now time.Time) (kernel.MessageRef, error) {
	if d.stage == StageConfirm {
		return kernel.MessageRef{}, ErrAwaitingConfirmation
	}

	next, details, err := d.apply(in, regions, now)
	if err != nil {
		return kernel.MessageRef{}, err
	}

	stale := d.TakeConfirmation()
	d.details = details
	d.stage = next
	d.resumeConfirm = false
	return stale, nil
}

func (d *Draft) apply(in Input, regions RegionResolver, now time.Time) (Stage, Details, error) {
	det := d.details
	text := strings.TrimSpace(in.Text)

	switch d.stage {
	case StageRegion:
		if in.Kind != InputText {
			return 0, det, ErrUnexpectedInput
		}
		region, ok := regions.Resolve(text)
		if !ok {
			return 0, det, ErrUnknownRegion
		}
		det.Region = region
		if d.resumeConfirm && det.When.IsSet() {
			return StageConfirm, det, nil
		}
		return StageVehicle, det, nil

	case StageVehicle:
		if in.Kind != InputText {
			return 0, det, ErrUnexpectedInput
		}
		det.Vehicle = text
		if det.Vehicle == "" {
			det.Vehicle = UnknownVehicle
		}
		return StagePickup, det, nil

	case StagePickup:
		switch in.Kind {
		case InputText:
			det.Pickup = text
		case InputLocation:
			if err := in.Point.Validate(); err != nil {
				return 0, det, err
			}
			det.Pickup = in.Point.MapsLink()
		default:
			return 0, det, ErrUnexpectedInput
		}
		return StageDropoff, det, nil

	case StageDropoff:
		if in.Kind != InputText {
			return 0, det, ErrUnexpectedInput
		}
		det.Dropoff = text
		return StageWhenSelect, det, nil

	case StageWhenSelect:
		switch in.Kind {
		case InputNow:
			det.When = kernel.TimeOfDayFrom(now)
			return StageConfirm, det, nil
		case InputCustom:
			return StageWhenInput, det, nil
		case InputText:
			when, err := kernel.ParseTimeOfDay(text)
			if err != nil {
				return 0, det, errors.Join(ErrInvalidTime, err)
			}
			det.When = when
			return StageConfirm, det, nil
		default:
			return 0, det, ErrUnexpectedInput
		}

	case StageWhenInput:
		if in.Kind != InputText {
			return 0, det, ErrInvalidTime
		}
		when, err := kernel.ParseTimeOfDay(text)
		if err != nil {
			return 0, det, errors.Join(ErrInvalidTime, err)
		}
		det.When = when
		return StageConfirm, det, nil

	case StageUnknown, StageConfirm:
	}

	return 0, det, ErrUnexpectedInput
}

// Back moves one stage up and clears the field that will be collected again.
//
// Transitions:
//   - Region -> discard (returns discard = true)
//   - Vehicle -> Region, clears region and vehicle
//   - Pickup -> Vehicle, clears vehicle
//   - Dropoff -> Pickup, clears pickup
//   - WhenSelect -> Dropoff, clears dropoff
//   - WhenInput -> WhenSelect
//   - Confirm -> WhenSelect, clears the time
//
// The rendered confirmation, if any, is returned for deletion.
func (d *Draft) Back() (discard bool, stale kernel.MessageRef) {
	stale = d.TakeConfirmation()
	d.resumeConfirm = false

	switch d.stage {
	case StageRegion, StageUnknown:
		return true, stale
	case StageVehicle:
		d.details.Region = ""
		d.details.Vehicle = ""
		d.stage = StageRegion
	case StagePickup:
		d.details.Vehicle = ""
		d.stage = StageVehicle
	case StageDropoff:
		d.details.Pickup = ""
		d.stage = StagePickup
	case StageWhenSelect:
		d.details.Dropoff = ""
		d.stage = StageDropoff
	case StageWhenInput:
		d.stage = StageWhenSelect
	case StageConfirm:
		d.details.When = kernel.TimeOfDay{}
		d.stage = StageWhenSelect
	}

	return false, stale
}

// ResetToRegion sends the wizard back to the region stage and keeps every other field.
// It is used when a commit finds no region to post to: once a region resolves the
// draft returns straight to StageConfirm.
func (d *Draft) ResetToRegion() {
	d.stage = StageRegion
	d.resumeConfirm = true
}

// Clone returns a copy.
func (d *Draft) Clone() *Draft {
	c := *d
	return &c
}
