package onboarding

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Stage is the wizard step the driver is on.
type Stage int

const (
	StageUnknown Stage = iota
	StageRegions
	StageName
	StageCarMake
	StageCarPlate
	StagePhone
	// StageAwaitingReceipt waits for a payment receipt photo or document.
	StageAwaitingReceipt
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:         "unknown",
		StageRegions:         "regions",
		StageName:            "name",
		StageCarMake:         "car_make",
		StageCarPlate:        "car_plate",
		StagePhone:           "phone",
		StageAwaitingReceipt: "wait_check",
	}
}

func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Stage) Validate() error {
	if s <= StageUnknown || s > StageAwaitingReceipt {
		return errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}
