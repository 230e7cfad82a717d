package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAcceptDriverTermsCommandIsNotConstructed = errors.New(
	"AcceptDriverTermsCommand must be created via NewAcceptDriverTermsCommand constructor",
)

// AcceptDriverTermsCommand starts the onboarding wizard once the terms are agreed.
type AcceptDriverTermsCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UserID

	guard guard.ConstructorGuard
}

// NewAcceptDriverTermsCommand creates a command recording that a user agreed to the
// driver terms.
func NewAcceptDriverTermsCommand(userID kernel.UserID) (AcceptDriverTermsCommand, error) {
	cmd := AcceptDriverTermsCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setUserID(userID); err != nil {
		return AcceptDriverTermsCommand{}, err
	}

	return cmd, nil
}

func (c AcceptDriverTermsCommand) Validate() error {
	return c.guard.Validate(ErrAcceptDriverTermsCommandIsNotConstructed)
}

func (c AcceptDriverTermsCommand) UserID() kernel.UserID {
	return c.userID
}

func (c *AcceptDriverTermsCommand) setUserID(userID kernel.UserID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
