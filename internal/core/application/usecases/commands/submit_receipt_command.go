package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSubmitReceiptCommandIsNotConstructed = errors.New(
	"SubmitReceiptCommand must be created via NewSubmitReceiptCommand constructor",
)

// SubmitReceiptCommand is a photo or document a driver sent while a receipt is due.
type SubmitReceiptCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UserID
	file     ports.File

	guard guard.ConstructorGuard
}

// NewSubmitReceiptCommand creates a command to forward a payment receipt to the admins.
// Returns an error when the driver id or the file is invalid.
func NewSubmitReceiptCommand(driverID kernel.UserID, file ports.File) (SubmitReceiptCommand, error) {
	cmd := SubmitReceiptCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setFile(file),
	); err != nil {
		return SubmitReceiptCommand{}, err
	}

	return cmd, nil
}

func (c SubmitReceiptCommand) Validate() error {
	return c.guard.Validate(ErrSubmitReceiptCommandIsNotConstructed)
}

func (c SubmitReceiptCommand) DriverID() kernel.UserID {
	return c.driverID
}

func (c SubmitReceiptCommand) File() ports.File {
	return c.file
}

func (c *SubmitReceiptCommand) setDriverID(driverID kernel.UserID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *SubmitReceiptCommand) setFile(file ports.File) error {
	if file.ID == "" {
		return errs.NewValueIsRequiredError("file id")
	}
	if file.Kind != ports.FilePhoto && file.Kind != ports.FileDocument {
		return errs.NewValueIsInvalidError("file kind")
	}

	c.file = file
	return nil
}
