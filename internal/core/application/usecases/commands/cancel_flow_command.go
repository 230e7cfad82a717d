package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelFlowCommandIsNotConstructed = errors.New(
	"CancelFlowCommand must be created via NewCancelFlowCommand constructor",
)

// CancelFlowCommand abandons whatever wizard the user is in and shows the main menu.
type CancelFlowCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UserID

	guard guard.ConstructorGuard
}

// NewCancelFlowCommand creates a command that abandons the user's open wizard.
func NewCancelFlowCommand(userID kernel.UserID) (CancelFlowCommand, error) {
	cmd := CancelFlowCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setUserID(userID); err != nil {
		return CancelFlowCommand{}, err
	}

	return cmd, nil
}

func (c CancelFlowCommand) Validate() error {
	return c.guard.Validate(ErrCancelFlowCommandIsNotConstructed)
}

func (c CancelFlowCommand) UserID() kernel.UserID {
	return c.userID
}

func (c *CancelFlowCommand) setUserID(userID kernel.UserID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
