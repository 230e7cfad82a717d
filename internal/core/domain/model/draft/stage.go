package draft

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Stage is the wizard step the draft is waiting on.
type Stage int

const (
	// StageUnknown is the zero value and never a live stage.
	StageUnknown Stage = iota
	// StageRegion waits for the order region.
	StageRegion
	// StageVehicle waits for a vehicle description.
	StageVehicle
	// StagePickup waits for a pickup address or a shared location.
	StagePickup
	// StageDropoff waits for the destination address.
	StageDropoff
	// StageWhenSelect offers "now", "custom" or a literal HH:MM.
	StageWhenSelect
	// StageWhenInput waits for a literal HH:MM only.
	StageWhenInput
	// StageConfirm waits for commit or discard.
	StageConfirm
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:    "unknown",
		StageRegion:     "region",
		StageVehicle:    "vehicle",
		StagePickup:     "from",
		StageDropoff:    "to",
		StageWhenSelect: "when_select",
		StageWhenInput:  "when_input",
		StageConfirm:    "confirm",
	}
}

// String returns the stage name used in logs.
func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects StageUnknown and out-of-range values.
func (s Stage) Validate() error {
	if s <= StageUnknown || s > StageConfirm {
		return errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}
