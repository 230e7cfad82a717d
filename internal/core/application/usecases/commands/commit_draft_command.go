package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCommitDraftCommandIsNotConstructed = errors.New(
	"CommitDraftCommand must be created via NewCommitDraftCommand constructor",
)

// CommitDraftCommand is the confirm button under a draft summary. ActorID is whoever
// pressed it; only the draft owner may commit.
type CommitDraftCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UserID
	customerID kernel.UserID

	guard guard.ConstructorGuard
}

// NewCommitDraftCommand creates a command to publish a finished draft as an order.
func NewCommitDraftCommand(actorID kernel.UserID, customerID kernel.UserID) (CommitDraftCommand, error) {
	cmd := CommitDraftCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActorID(actorID),
		cmd.setCustomerID(customerID),
	); err != nil {
		return CommitDraftCommand{}, err
	}

	return cmd, nil
}

func (c CommitDraftCommand) Validate() error {
	return c.guard.Validate(ErrCommitDraftCommandIsNotConstructed)
}

func (c CommitDraftCommand) ActorID() kernel.UserID {
	return c.actorID
}

func (c CommitDraftCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c *CommitDraftCommand) setActorID(actorID kernel.UserID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *CommitDraftCommand) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}
