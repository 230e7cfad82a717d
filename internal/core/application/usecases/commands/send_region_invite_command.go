package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSendRegionInviteCommandIsNotConstructed = errors.New(
	"SendRegionInviteCommand must be created via NewSendRegionInviteCommand constructor",
)

// SendRegionInviteCommand sends a driver a single-use link to the driver chat of one
// region. Header is the HTML text shown above the join button.
type SendRegionInviteCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UserID
	region   string
	header   string

	guard guard.ConstructorGuard
}

// NewSendRegionInviteCommand creates a command to send a one-time invite link to the
// drivers chat of region. Driver, region and header are all required.
func NewSendRegionInviteCommand(driverID kernel.UserID, region string, header string) (SendRegionInviteCommand, error) {
	cmd := SendRegionInviteCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setRegion(region),
		cmd.setHeader(header),
	); err != nil {
		return SendRegionInviteCommand{}, err
	}

	return cmd, nil
}

func (c SendRegionInviteCommand) Validate() error {
	return c.guard.Validate(ErrSendRegionInviteCommandIsNotConstructed)
}

func (c SendRegionInviteCommand) DriverID() kernel.UserID {
	return c.driverID
}

func (c SendRegionInviteCommand) Region() string {
	return c.region
}

func (c SendRegionInviteCommand) Header() string {
	return c.header
}

func (c *SendRegionInviteCommand) setDriverID(driverID kernel.UserID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *SendRegionInviteCommand) setRegion(region string) error {
	if strings.TrimSpace(region) == "" {
		return errs.NewValueIsRequiredError("region")
	}

	c.region = region
	return nil
}

func (c *SendRegionInviteCommand) setHeader(header string) error {
	if strings.TrimSpace(header) == "" {
		return errs.NewValueIsRequiredError("header")
	}

	c.header = header
	return nil
}
