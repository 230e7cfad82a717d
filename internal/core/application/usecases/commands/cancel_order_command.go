package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels a customer's order on behalf of actor. The actor may be
// the customer, the assigned driver or an admin; the outcome depends on which.
//
// Example:
//
//	cmd, err := commands.NewCancelOrderCommand(callback.From, customerID)
//	if err != nil {
//	    return err
//	}
//	outcome, err := handler.Handle(ctx, cmd)
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UserID
	customerID kernel.UserID

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a cancel request by the customer or the assigned driver.
// Which of the two the actor is gets decided by the handler.
func NewCancelOrderCommand(actorID kernel.UserID, customerID kernel.UserID) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActorID(actorID),
		cmd.setCustomerID(customerID),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cmd, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) ActorID() kernel.UserID {
	return c.actorID
}

func (c CancelOrderCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c *CancelOrderCommand) setActorID(actorID kernel.UserID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *CancelOrderCommand) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}
