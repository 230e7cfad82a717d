package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRejectReceiptCommandIsNotConstructed = errors.New(
	"RejectReceiptCommand must be created via NewRejectReceiptCommand constructor",
)

// RejectReceiptCommand is an admin refusing a driver's payment.
type RejectReceiptCommand struct { //nolint:recvcheck //using for validation
	adminID   kernel.UserID
	adminName string
	driverID  kernel.UserID
	post      kernel.MessageRef
	caption   string

	guard guard.ConstructorGuard
}

// NewRejectReceiptCommand creates an admin decision against a receipt. The post and
// caption identify the receipt message to mark as rejected.
func NewRejectReceiptCommand(adminID kernel.UserID, adminName string, driverID kernel.UserID, post kernel.MessageRef, caption string) (RejectReceiptCommand, error) {
	cmd := RejectReceiptCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setAdminID(adminID),
		cmd.setDriverID(driverID),
	); err != nil {
		return RejectReceiptCommand{}, err
	}
	cmd.adminName = adminName
	cmd.post = post
	cmd.caption = caption

	return cmd, nil
}

func (c RejectReceiptCommand) Validate() error {
	return c.guard.Validate(ErrRejectReceiptCommandIsNotConstructed)
}

func (c RejectReceiptCommand) AdminID() kernel.UserID {
	return c.adminID
}

func (c RejectReceiptCommand) AdminName() string {
	return c.adminName
}

func (c RejectReceiptCommand) DriverID() kernel.UserID {
	return c.driverID
}

func (c RejectReceiptCommand) Post() kernel.MessageRef {
	return c.post
}

func (c RejectReceiptCommand) Caption() string {
	return c.caption
}

func (c *RejectReceiptCommand) setAdminID(adminID kernel.UserID) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	c.adminID = adminID
	return nil
}

func (c *RejectReceiptCommand) setDriverID(driverID kernel.UserID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
