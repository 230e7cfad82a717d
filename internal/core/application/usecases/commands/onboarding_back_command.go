package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrOnboardingBackCommandIsNotConstructed = errors.New(
	"OnboardingBackCommand must be created via NewOnboardingBackCommand constructor",
)

// OnboardingBackCommand steps the onboarding wizard one stage up.
type OnboardingBackCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UserID

	guard guard.ConstructorGuard
}

// NewOnboardingBackCommand creates a command that steps the driver wizard back.
func NewOnboardingBackCommand(driverID kernel.UserID) (OnboardingBackCommand, error) {
	cmd := OnboardingBackCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setDriverID(driverID); err != nil {
		return OnboardingBackCommand{}, err
	}

	return cmd, nil
}

func (c OnboardingBackCommand) Validate() error {
	return c.guard.Validate(ErrOnboardingBackCommandIsNotConstructed)
}

func (c OnboardingBackCommand) DriverID() kernel.UserID {
	return c.driverID
}

func (c *OnboardingBackCommand) setDriverID(driverID kernel.UserID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
