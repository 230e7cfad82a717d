package onboarding

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	ErrOnboardingIsNotConstructed = errors.New("Onboarding must be created via NewOnboarding constructor")

	// ErrUnknownRegion rejects a region button text that is not configured.
	ErrUnknownRegion = errors.New("region is not configured")

	// ErrTooManyRegions rejects adding a region beyond kernel.MaxDriverRegions.
	ErrTooManyRegions = fmt.Errorf("at most %d regions can be selected", kernel.MaxDriverRegions)

	// ErrNoRegionsSelected rejects finishing the region step with an empty selection.
	ErrNoRegionsSelected = errors.New("at least one region must be selected")

	// ErrUnexpectedStage rejects an operation the current stage does not take.
	ErrUnexpectedStage = errors.New("operation is not accepted at this stage")
)

// RegionResolver maps button text to a configured region.
type RegionResolver interface {
	Resolve(text string) (string, bool)
}

// Applicant is what the driver typed during the wizard.
type Applicant struct {
	Name     string
	CarMake  string
	CarPlate string
	Phone    string
}

// BackOutcome tells the caller what Back did.
type BackOutcome int

const (
	// BackMoved stepped one stage up.
	BackMoved BackOutcome = iota + 1
	// BackAbandoned means the wizard should be dropped.
	BackAbandoned
	// BackRepeatPayment means the caller should re-run the post-phone step.
	BackRepeatPayment
)

// Onboarding is the wizard state of one driver.
type Onboarding struct {
	driverID      kernel.UserID
	stage         Stage
	regions       []string
	applicant     Applicant
	isConstructed bool
}

// NewOnboarding starts the wizard at StageRegions with an empty selection.
func NewOnboarding(driverID kernel.UserID) (*Onboarding, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	return &Onboarding{
		driverID:      driverID,
		stage:         StageRegions,
		isConstructed: true,
	}, nil
}

// NewAwaitingReceipt parks a driver whose trial ran out at StageAwaitingReceipt for
// regions, so the next photo or document is taken as a receipt.
func NewAwaitingReceipt(driverID kernel.UserID, regions []string) (*Onboarding, error) {
	o, err := NewOnboarding(driverID)
	if err != nil {
		return nil, err
	}
	o.regions = capped(regions)
	if err := o.AwaitReceipt(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Onboarding) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOnboardingIsNotConstructed
	}
	return nil
}

func (o *Onboarding) DriverID() kernel.UserID { return o.driverID }

func (o *Onboarding) Stage() Stage { return o.stage }

// Regions returns a copy of the selection in the order it was made.
func (o *Onboarding) Regions() []string { return slices.Clone(o.regions) }

func (o *Onboarding) Applicant() Applicant { return o.applicant }

// ToggleRegion adds the region text resolves to, or removes it when already selected.
//
// Returns:
//   - bool: true when the region was added, false when removed
//   - string: the resolved region name
//   - error: ErrUnexpectedStage, ErrUnknownRegion or ErrTooManyRegions; the selection is unchanged
func (o *Onboarding) ToggleRegion(text string, regions RegionResolver) (bool, string, error) {
	if o.stage != StageRegions {
		return false, "", ErrUnexpectedStage
	}
	region, ok := regions.Resolve(text)
	if !ok {
		return false, "", ErrUnknownRegion
	}
	if i := slices.Index(o.regions, region); i >= 0 {
		o.regions = slices.Delete(o.regions, i, i+1)
		return false, region, nil
	}
	if len(o.regions) >= kernel.MaxDriverRegions {
		return false, region, ErrTooManyRegions
	}
	o.regions = append(o.regions, region)
	return true, region, nil
}

// ClearRegions empties the selection.
func (o *Onboarding) ClearRegions() error {
	if o.stage != StageRegions {
		return ErrUnexpectedStage
	}
	o.regions = nil
	return nil
}

// FinishRegions closes the region step and moves to StageName.
func (o *Onboarding) FinishRegions() error {
	if o.stage != StageRegions {
		return ErrUnexpectedStage
	}
	if len(o.regions) == 0 {
		return ErrNoRegionsSelected
	}
	o.stage = StageName
	return nil
}

// SubmitText stores a typed answer for the name, car or phone steps. The phone is
// normalized and the wizard stays at StagePhone; PhoneCollected then reports true.
func (o *Onboarding) SubmitText(text string) error {
	value := strings.TrimSpace(text)

	switch o.stage {
	case StageName:
		if value == "" {
			return errs.NewValueIsRequiredError("name")
		}
		o.applicant.Name = value
		o.stage = StageCarMake
	case StageCarMake:
		if value == "" {
			return errs.NewValueIsRequiredError("car make")
		}
		o.applicant.CarMake = value
		o.stage = StageCarPlate
	case StageCarPlate:
		if value == "" {
			return errs.NewValueIsRequiredError("car plate")
		}
		o.applicant.CarPlate = value
		o.stage = StagePhone
	case StagePhone:
		return o.SetPhone(value)
	default:
		return ErrUnexpectedStage
	}
	return nil
}

// SetPhone records a phone typed or shared as a contact at StagePhone.
func (o *Onboarding) SetPhone(raw string) error {
	if o.stage != StagePhone {
		return ErrUnexpectedStage
	}
	phone, err := kernel.NormalizePhone(raw)
	if err != nil {
		return err
	}
	o.applicant.Phone = phone
	return nil
}

// PhoneCollected reports whether every wizard answer is in and the post-phone step is due.
func (o *Onboarding) PhoneCollected() bool {
	return o.stage == StagePhone && o.applicant.Phone != ""
}

// AwaitReceipt parks the wizard until a receipt arrives.
func (o *Onboarding) AwaitReceipt() error {
	if len(o.regions) == 0 {
		return ErrNoRegionsSelected
	}
	o.stage = StageAwaitingReceipt
	return nil
}

// IsAwaitingReceipt reports whether a photo or document should be taken as a receipt.
func (o *Onboarding) IsAwaitingReceipt() bool {
	return o.stage == StageAwaitingReceipt
}

// Back moves one stage up.
//
// Transitions:
//   - Regions -> abandoned
//   - Name -> Regions, clears the name
//   - CarMake -> Name
//   - CarPlate -> CarMake
//   - Phone -> CarPlate, clears the phone
//   - AwaitingReceipt -> unchanged, the payment prompt is repeated
func (o *Onboarding) Back() BackOutcome {
	switch o.stage {
	case StageName:
		o.applicant.Name = ""
		o.stage = StageRegions
	case StageCarMake:
		o.stage = StageName
	case StageCarPlate:
		o.stage = StageCarMake
	case StagePhone:
		o.applicant.Phone = ""
		o.stage = StageCarPlate
	case StageAwaitingReceipt:
		return BackRepeatPayment
	default:
		return BackAbandoned
	}
	return BackMoved
}

// Clone returns a deep copy.
func (o *Onboarding) Clone() *Onboarding {
	c := *o
	c.regions = slices.Clone(o.regions)
	return &c
}

func capped(regions []string) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if r == "" || slices.Contains(out, r) {
			continue
		}
		if len(out) == kernel.MaxDriverRegions {
			break
		}
		out = append(out, r)
	}
	return out
}
