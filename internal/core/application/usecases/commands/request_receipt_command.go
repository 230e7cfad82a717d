package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRequestReceiptCommandIsNotConstructed = errors.New(
	"RequestReceiptCommand must be created via NewRequestReceiptCommand constructor",
)

// RequestReceiptCommand is the "send receipt" button under a payment prompt.
type RequestReceiptCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UserID

	guard guard.ConstructorGuard
}

// NewRequestReceiptCommand creates a command that asks a driver for a receipt photo.
func NewRequestReceiptCommand(driverID kernel.UserID) (RequestReceiptCommand, error) {
	cmd := RequestReceiptCommand{guard: guard.NewConstructorGuard()}

	if err := cmd.setDriverID(driverID); err != nil {
		return RequestReceiptCommand{}, err
	}

	return cmd, nil
}

func (c RequestReceiptCommand) Validate() error {
	return c.guard.Validate(ErrRequestReceiptCommandIsNotConstructed)
}

func (c RequestReceiptCommand) DriverID() kernel.UserID {
	return c.driverID
}

func (c *RequestReceiptCommand) setDriverID(driverID kernel.UserID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
