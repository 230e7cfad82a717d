package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDraftBackCommandIsNotConstructed = errors.New(
	"DraftBackCommand must be created via NewDraftBackCommand constructor",
)

// DraftBackCommand steps the customer's draft one stage up.
type DraftBackCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UserID

	guard guard.ConstructorGuard
}

// NewDraftBackCommand creates a command that steps the order wizard back one question.
func NewDraftBackCommand(customerID kernel.UserID) (DraftBackCommand, error) {
	cmd := DraftBackCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setCustomerID(customerID); err != nil {
		return DraftBackCommand{}, err
	}

	return cmd, nil
}

func (c DraftBackCommand) Validate() error {
	return c.guard.Validate(ErrDraftBackCommandIsNotConstructed)
}

func (c DraftBackCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c *DraftBackCommand) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}
