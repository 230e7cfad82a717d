package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrStartDriverOnboardingCommandIsNotConstructed = errors.New(
	"StartDriverOnboardingCommand must be created via NewStartDriverOnboardingCommand constructor",
)

// StartDriverOnboardingCommand shows the driver requirements with an agree button.
type StartDriverOnboardingCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UserID

	guard guard.ConstructorGuard
}

// NewStartDriverOnboardingCommand creates a command that opens the driver wizard.
func NewStartDriverOnboardingCommand(userID kernel.UserID) (StartDriverOnboardingCommand, error) {
	cmd := StartDriverOnboardingCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setUserID(userID); err != nil {
		return StartDriverOnboardingCommand{}, err
	}

	return cmd, nil
}

func (c StartDriverOnboardingCommand) Validate() error {
	return c.guard.Validate(ErrStartDriverOnboardingCommandIsNotConstructed)
}

func (c StartDriverOnboardingCommand) UserID() kernel.UserID {
	return c.userID
}

func (c *StartDriverOnboardingCommand) setUserID(userID kernel.UserID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
