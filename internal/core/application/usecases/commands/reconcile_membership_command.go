package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrReconcileMembershipCommandIsNotConstructed = errors.New(
	"ReconcileMembershipCommand must be created via NewReconcileMembershipCommand constructor",
)

// ReconcileMembershipCommand reports a membership change of a user in a chat.
//
// Example:
//
//	cmd, err := commands.NewReconcileMembershipCommand(chatID, userID, commands.MemberLeft, commands.MemberJoined)
type ReconcileMembershipCommand struct { //nolint:recvcheck //using for validation
	chatID    int64
	userID    kernel.UserID
	oldStatus MemberStatus
	newStatus MemberStatus

	guard guard.ConstructorGuard
}

// NewReconcileMembershipCommand creates a command from a chat member update.
// The chat and user ids are required; statuses are taken as reported.
func NewReconcileMembershipCommand(chatID int64, userID kernel.UserID, oldStatus MemberStatus, newStatus MemberStatus) (ReconcileMembershipCommand, error) {
	cmd := ReconcileMembershipCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setChatID(chatID),
		cmd.setUserID(userID),
	); err != nil {
		return ReconcileMembershipCommand{}, err
	}
	cmd.oldStatus = oldStatus
	cmd.newStatus = newStatus

	return cmd, nil
}

func (c ReconcileMembershipCommand) Validate() error {
	return c.guard.Validate(ErrReconcileMembershipCommandIsNotConstructed)
}

func (c ReconcileMembershipCommand) ChatID() int64 {
	return c.chatID
}

func (c ReconcileMembershipCommand) UserID() kernel.UserID {
	return c.userID
}

func (c ReconcileMembershipCommand) OldStatus() MemberStatus {
	return c.oldStatus
}

func (c ReconcileMembershipCommand) NewStatus() MemberStatus {
	return c.newStatus
}

func (c *ReconcileMembershipCommand) setChatID(chatID int64) error {
	if chatID == 0 {
		return errs.NewValueIsRequiredError("chat id")
	}

	c.chatID = chatID
	return nil
}

func (c *ReconcileMembershipCommand) setUserID(userID kernel.UserID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
