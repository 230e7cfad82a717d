package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSubmitDraftInputCommandIsNotConstructed = errors.New(
	"SubmitDraftInputCommand must be created via NewSubmitDraftInputCommand constructor",
)

// SubmitDraftInputCommand carries one customer reply to the draft wizard.
//
// Example:
//
//	cmd, err := commands.NewSubmitDraftInputCommand(customerID, draft.TextInput("Farg'ona"))
type SubmitDraftInputCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UserID
	input      draft.Input

	guard guard.ConstructorGuard
}

// NewSubmitDraftInputCommand creates a command carrying one order wizard answer.
// Returns joined validation errors for the customer id and the input.
func NewSubmitDraftInputCommand(customerID kernel.UserID, input draft.Input) (SubmitDraftInputCommand, error) {
	cmd := SubmitDraftInputCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setInput(input),
	); err != nil {
		return SubmitDraftInputCommand{}, err
	}

	return cmd, nil
}

func (c SubmitDraftInputCommand) Validate() error {
	return c.guard.Validate(ErrSubmitDraftInputCommandIsNotConstructed)
}

func (c SubmitDraftInputCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c SubmitDraftInputCommand) Input() draft.Input {
	return c.input
}

func (c *SubmitDraftInputCommand) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *SubmitDraftInputCommand) setInput(input draft.Input) error {
	if input.Kind == 0 {
		return errs.NewValueIsRequiredError("input kind")
	}

	c.input = input
	return nil
}
