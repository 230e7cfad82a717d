package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSubmitOnboardingInputCommandIsNotConstructed = errors.New(
	"SubmitOnboardingInputCommand must be created via NewSubmitOnboardingInputCommand constructor",
)

// SubmitOnboardingInputCommand carries one text reply to the onboarding wizard,
// including the region step buttons.
type SubmitOnboardingInputCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UserID
	text     string

	guard guard.ConstructorGuard
}

// NewSubmitOnboardingInputCommand creates a command carrying one wizard answer.
// The text is validated by the wizard stage, not here.
func NewSubmitOnboardingInputCommand(driverID kernel.UserID, text string) (SubmitOnboardingInputCommand, error) {
	cmd := SubmitOnboardingInputCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setDriverID(driverID); err != nil {
		return SubmitOnboardingInputCommand{}, err
	}
	cmd.text = text

	return cmd, nil
}

func (c SubmitOnboardingInputCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOnboardingInputCommandIsNotConstructed)
}

func (c SubmitOnboardingInputCommand) DriverID() kernel.UserID {
	return c.driverID
}

func (c SubmitOnboardingInputCommand) Text() string {
	return c.text
}

func (c *SubmitOnboardingInputCommand) setDriverID(driverID kernel.UserID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
