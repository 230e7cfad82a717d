package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
)

func (r *Router) onChatMember(ctx context.Context, u *tgbotapi.ChatMemberUpdated) {
	member := u.NewChatMember.User
	if member == nil || member.IsBot {
		return
	}
	userID := kernel.UserID(member.ID)

	cmd, err := commands.NewReconcileMembershipCommand(
		u.Chat.ID,
		userID,
		commands.MemberStatus(u.OldChatMember.Status),
		commands.MemberStatus(u.NewChatMember.Status),
	)
	if err == nil {
		err = r.handlers.ReconcileMembership.Handle(ctx, cmd)
	}
	r.report(ctx, "reconcile_membership", userID, err)
}
