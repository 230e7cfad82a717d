package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDiscardDraftCommandIsNotConstructed = errors.New(
	"DiscardDraftCommand must be created via NewDiscardDraftCommand constructor",
)

// DiscardDraftCommand is the cancel button under a draft summary.
type DiscardDraftCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UserID
	customerID kernel.UserID

	guard guard.ConstructorGuard
}

// NewDiscardDraftCommand creates a command to drop a customer's unsent draft.
// Both ids must be valid; the handler checks that the actor owns the draft.
func NewDiscardDraftCommand(actorID kernel.UserID, customerID kernel.UserID) (DiscardDraftCommand, error) {
	cmd := DiscardDraftCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActorID(actorID),
		cmd.setCustomerID(customerID),
	); err != nil {
		return DiscardDraftCommand{}, err
	}

	return cmd, nil
}

func (c DiscardDraftCommand) Validate() error {
	return c.guard.Validate(ErrDiscardDraftCommandIsNotConstructed)
}

func (c DiscardDraftCommand) ActorID() kernel.UserID {
	return c.actorID
}

func (c DiscardDraftCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c *DiscardDraftCommand) setActorID(actorID kernel.UserID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *DiscardDraftCommand) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}
