package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand is the assigned driver marking an order delivered.
type CompleteOrderCommand struct { //nolint:recvcheck //using for validation
	driverID   kernel.UserID
	customerID kernel.UserID

	guard guard.ConstructorGuard
}

// NewCompleteOrderCommand creates a command for a driver to finish an accepted order.
// Returns joined validation errors for invalid ids.
func NewCompleteOrderCommand(driverID kernel.UserID, customerID kernel.UserID) (CompleteOrderCommand, error) {
	cmd := CompleteOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setCustomerID(customerID),
	); err != nil {
		return CompleteOrderCommand{}, err
	}

	return cmd, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

func (c CompleteOrderCommand) DriverID() kernel.UserID {
	return c.driverID
}

func (c CompleteOrderCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c *CompleteOrderCommand) setDriverID(driverID kernel.UserID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *CompleteOrderCommand) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}
