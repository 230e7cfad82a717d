package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand is a driver pressing "accept" under a dispatch post.
//
// Example:
//
//	cmd, err := commands.NewAcceptOrderCommand(driverID, customerID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	driverID   kernel.UserID
	customerID kernel.UserID

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand validates both ids.
func NewAcceptOrderCommand(driverID, customerID kernel.UserID) (AcceptOrderCommand, error) {
	cmd := AcceptOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setCustomerID(customerID),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return cmd, nil
}

func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

func (c AcceptOrderCommand) DriverID() kernel.UserID {
	return c.driverID
}

// CustomerID identifies the order; a customer has at most one.
func (c AcceptOrderCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c *AcceptOrderCommand) setDriverID(id kernel.UserID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.driverID = id
	return nil
}

func (c *AcceptOrderCommand) setCustomerID(id kernel.UserID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}
