package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrApproveReceiptCommandIsNotConstructed = errors.New(
	"ApproveReceiptCommand must be created via NewApproveReceiptCommand constructor",
)

// ApproveReceiptCommand is an admin confirming a driver's payment. Post and Caption
// identify the receipt message in the payments chat; a zero Post is allowed when the
// approval does not come from a button (the admin API).
//
// Example:
//
//	cmd, err := commands.NewApproveReceiptCommand(adminID, "Admin", driverID, callback.Message, callback.Caption)
type ApproveReceiptCommand struct { //nolint:recvcheck //using for validation
	adminID   kernel.UserID
	adminName string
	driverID  kernel.UserID
	post      kernel.MessageRef
	caption   string

	guard guard.ConstructorGuard
}

// NewApproveReceiptCommand creates an admin approval of a driver's payment.
// The post is zero for approvals that do not come from a receipt message.
func NewApproveReceiptCommand(adminID kernel.UserID, adminName string, driverID kernel.UserID, post kernel.MessageRef, caption string) (ApproveReceiptCommand, error) {
	cmd := ApproveReceiptCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setAdminID(adminID),
		cmd.setDriverID(driverID),
	); err != nil {
		return ApproveReceiptCommand{}, err
	}
	cmd.adminName = adminName
	cmd.post = post
	cmd.caption = caption

	return cmd, nil
}

func (c ApproveReceiptCommand) Validate() error {
	return c.guard.Validate(ErrApproveReceiptCommandIsNotConstructed)
}

func (c ApproveReceiptCommand) AdminID() kernel.UserID {
	return c.adminID
}

func (c ApproveReceiptCommand) AdminName() string {
	return c.adminName
}

func (c ApproveReceiptCommand) DriverID() kernel.UserID {
	return c.driverID
}

func (c ApproveReceiptCommand) Post() kernel.MessageRef {
	return c.post
}

func (c ApproveReceiptCommand) Caption() string {
	return c.caption
}

func (c *ApproveReceiptCommand) setAdminID(adminID kernel.UserID) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	c.adminID = adminID
	return nil
}

func (c *ApproveReceiptCommand) setDriverID(driverID kernel.UserID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
