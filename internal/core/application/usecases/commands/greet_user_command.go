package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGreetUserCommandIsNotConstructed = errors.New(
	"GreetUserCommand must be created via NewGreetUserCommand constructor",
)

// GreetUserCommand answers /start: new users are asked for a phone, known users get
// the main menu.
type GreetUserCommand struct { //nolint:recvcheck //using for validation
	userID   kernel.UserID
	fullName string

	guard guard.ConstructorGuard
}

// NewGreetUserCommand creates a /start command. fullName may be empty.
func NewGreetUserCommand(userID kernel.UserID, fullName string) (GreetUserCommand, error) {
	cmd := GreetUserCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setUserID(userID); err != nil {
		return GreetUserCommand{}, err
	}
	cmd.fullName = fullName

	return cmd, nil
}

func (c GreetUserCommand) Validate() error {
	return c.guard.Validate(ErrGreetUserCommandIsNotConstructed)
}

func (c GreetUserCommand) UserID() kernel.UserID {
	return c.userID
}

func (c GreetUserCommand) FullName() string {
	return c.fullName
}

func (c *GreetUserCommand) setUserID(userID kernel.UserID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
