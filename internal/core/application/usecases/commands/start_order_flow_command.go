package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrStartOrderFlowCommandIsNotConstructed = errors.New(
	"StartOrderFlowCommand must be created via NewStartOrderFlowCommand constructor",
)

// StartOrderFlowCommand opens a new draft for the customer.
type StartOrderFlowCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UserID

	guard guard.ConstructorGuard
}

// NewStartOrderFlowCommand creates a command that opens the order wizard for a customer.
func NewStartOrderFlowCommand(customerID kernel.UserID) (StartOrderFlowCommand, error) {
	cmd := StartOrderFlowCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setCustomerID(customerID); err != nil {
		return StartOrderFlowCommand{}, err
	}

	return cmd, nil
}

func (c StartOrderFlowCommand) Validate() error {
	return c.guard.Validate(ErrStartOrderFlowCommandIsNotConstructed)
}

func (c StartOrderFlowCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c *StartOrderFlowCommand) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}
