package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrShareContactCommandIsNotConstructed = errors.New(
	"ShareContactCommand must be created via NewShareContactCommand constructor",
)

// ShareContactCommand stores a phone the user shared or typed. Name is the chat
// display name and may be blank.
//
// Example:
//
//	cmd, err := commands.NewShareContactCommand(userID, "Ali Valiyev", "+998 90 123 45 67")
type ShareContactCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UserID
	name   string
	phone  string

	guard guard.ConstructorGuard
}

// NewShareContactCommand creates a command that stores a user's own shared contact.
// Returns an error for an invalid user id or a blank phone.
func NewShareContactCommand(userID kernel.UserID, name string, phone string) (ShareContactCommand, error) {
	cmd := ShareContactCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setPhone(phone),
	); err != nil {
		return ShareContactCommand{}, err
	}
	cmd.name = name

	return cmd, nil
}

func (c ShareContactCommand) Validate() error {
	return c.guard.Validate(ErrShareContactCommandIsNotConstructed)
}

func (c ShareContactCommand) UserID() kernel.UserID {
	return c.userID
}

func (c ShareContactCommand) Name() string {
	return c.name
}

func (c ShareContactCommand) Phone() string {
	return c.phone
}

func (c *ShareContactCommand) setUserID(userID kernel.UserID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *ShareContactCommand) setPhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errs.NewValueIsRequiredError("phone")
	}

	c.phone = phone
	return nil
}
