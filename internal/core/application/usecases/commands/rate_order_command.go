package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand is a score from 1 to 5 pressed under a rating prompt. ActorID is
// whoever pressed; only the order's customer may rate.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	actorID    kernel.UserID
	customerID kernel.UserID
	score      int

	guard guard.ConstructorGuard
}

// NewRateOrderCommand creates a rating for a completed order.
// Validates both ids and that the score is between order.MinRating and order.MaxRating.
func NewRateOrderCommand(actorID kernel.UserID, customerID kernel.UserID, score int) (RateOrderCommand, error) {
	cmd := RateOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActorID(actorID),
		cmd.setCustomerID(customerID),
		cmd.setScore(score),
	); err != nil {
		return RateOrderCommand{}, err
	}

	return cmd, nil
}

func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

func (c RateOrderCommand) ActorID() kernel.UserID {
	return c.actorID
}

func (c RateOrderCommand) CustomerID() kernel.UserID {
	return c.customerID
}

func (c RateOrderCommand) Score() int {
	return c.score
}

func (c *RateOrderCommand) setActorID(actorID kernel.UserID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *RateOrderCommand) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *RateOrderCommand) setScore(score int) error {
	if score < order.MinRating || score > order.MaxRating {
		return errs.NewValueIsOutOfRangeError("score", score, order.MinRating, order.MaxRating)
	}

	c.score = score
	return nil
}
