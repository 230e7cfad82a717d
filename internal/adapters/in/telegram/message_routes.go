package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// onMessage handles private messages only; group chats are where the bot posts, not
// where it takes input.
func (r *Router) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		return
	}
	userID := kernel.UserID(msg.From.ID)

	switch {
	case msg.IsCommand():
		r.onCommand(ctx, userID, msg)
	case msg.Contact != nil:
		r.onContact(ctx, userID, msg)
	case msg.Location != nil:
		point, err := kernel.NewGeoPoint(msg.Location.Latitude, msg.Location.Longitude)
		if err != nil {
			r.report(ctx, "location", userID, err)
			return
		}
		r.submitDraft(ctx, userID, draft.LocationInput(point))
	case len(msg.Photo) > 0:
		largest := msg.Photo[len(msg.Photo)-1]
		r.onReceipt(ctx, userID, ports.File{ID: largest.FileID, Kind: ports.FilePhoto})
	case msg.Document != nil:
		r.onReceipt(ctx, userID, ports.File{ID: msg.Document.FileID, Kind: ports.FileDocument})
	case msg.Text != "":
		r.onText(ctx, userID, msg)
	}
}

func (r *Router) onCommand(ctx context.Context, userID kernel.UserID, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		cmd, err := commands.NewGreetUserCommand(userID, fullName(msg.From))
		if err == nil {
			err = r.handlers.GreetUser.Handle(ctx, cmd)
		}
		r.report(ctx, "greet", userID, err)
	case "buyurtma":
		r.startOrderFlow(ctx, userID)
	case "tasdiq":
		r.onManualApproval(ctx, userID, msg)
	case "users_count":
		r.onUserCounts(ctx, userID, msg)
	case "test_payments":
		r.onPaymentsTest(ctx, userID, msg)
	}
}

// onContact stores the sender's own shared contact; a contact card of someone else
// is ignored.
func (r *Router) onContact(ctx context.Context, userID kernel.UserID, msg *tgbotapi.Message) {
	if owner := msg.Contact.UserID; owner != 0 && owner != int64(userID) {
		return
	}
	cmd, err := commands.NewShareContactCommand(userID, fullName(msg.From), msg.Contact.PhoneNumber)
	if err == nil {
		err = r.handlers.ShareContact.Handle(ctx, cmd)
	}
	r.report(ctx, "share_contact", userID, err)
}

func (r *Router) onReceipt(ctx context.Context, userID kernel.UserID, file ports.File) {
	cmd, err := commands.NewSubmitReceiptCommand(userID, file)
	if err == nil {
		err = r.handlers.SubmitReceipt.Handle(ctx, cmd)
	}
	if errors.Is(err, commands.ErrNotAwaitingReceipt) {
		return
	}
	r.report(ctx, "submit_receipt", userID, err)
}

func (r *Router) onText(ctx context.Context, userID kernel.UserID, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch text {
	case messages.LabelContactUs:
		r.reply(ctx, "contact_us", userID, r.catalog.ContactUs())
	case messages.LabelOrder:
		r.startOrderFlow(ctx, userID)
	case messages.LabelCancel:
		cmd, err := commands.NewCancelFlowCommand(userID)
		if err == nil {
			err = r.handlers.CancelFlow.Handle(ctx, cmd)
		}
		r.report(ctx, "cancel_flow", userID, err)
	case messages.LabelBecomeDriver:
		cmd, err := commands.NewStartDriverOnboardingCommand(userID)
		if err == nil {
			err = r.handlers.StartDriverOnboarding.Handle(ctx, cmd)
		}
		r.report(ctx, "start_onboarding", userID, err)
	case messages.LabelBack:
		r.back(ctx, userID)
	case messages.LabelNow:
		r.submitDraft(ctx, userID, draft.NowInput())
	case messages.LabelCustom:
		r.submitDraft(ctx, userID, draft.CustomInput())
	default:
		r.freeText(ctx, userID, text)
	}
}

// back steps the onboarding wizard back, or the draft when the user has no wizard.
func (r *Router) back(ctx context.Context, userID kernel.UserID) {
	cmd, err := commands.NewOnboardingBackCommand(userID)
	if err == nil {
		err = r.handlers.OnboardingBack.Handle(ctx, cmd)
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		r.report(ctx, "onboarding_back", userID, err)
		return
	}

	draftBack, err := commands.NewDraftBackCommand(userID)
	if err == nil {
		err = r.handlers.DraftBack.Handle(ctx, draftBack)
	}
	r.report(ctx, "draft_back", userID, err)
}

// freeText feeds the onboarding wizard first and the draft second. Text outside
// both flows is ignored.
func (r *Router) freeText(ctx context.Context, userID kernel.UserID, text string) {
	cmd, err := commands.NewSubmitOnboardingInputCommand(userID, text)
	if err == nil {
		err = r.handlers.SubmitOnboardingInput.Handle(ctx, cmd)
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		r.report(ctx, "onboarding_input", userID, err)
		return
	}
	r.submitDraft(ctx, userID, draft.TextInput(text))
}

func (r *Router) submitDraft(ctx context.Context, userID kernel.UserID, input draft.Input) {
	cmd, err := commands.NewSubmitDraftInputCommand(userID, input)
	if err == nil {
		err = r.handlers.SubmitDraftInput.Handle(ctx, cmd)
	}
	if errors.Is(err, errs.ErrObjectNotFound) {
		return
	}
	r.report(ctx, "draft_input", userID, err)
}

func (r *Router) startOrderFlow(ctx context.Context, userID kernel.UserID) {
	cmd, err := commands.NewStartOrderFlowCommand(userID)
	if err == nil {
		err = r.handlers.StartOrderFlow.Handle(ctx, cmd)
	}
	r.report(ctx, "start_order_flow", userID, err)
}

// onManualApproval is "/tasdiq USER_ID": an approval without a receipt post.
func (r *Router) onManualApproval(ctx context.Context, adminID kernel.UserID, msg *tgbotapi.Message) {
	if !r.admins.IsAdmin(adminID) {
		return
	}
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 0 {
		r.reply(ctx, "approve_usage", adminID, ports.Message{Text: messages.TextApproveUsage, HTML: true})
		return
	}
	driverID, err := kernel.ParseUserID(fields[0])
	if err != nil {
		r.reply(ctx, "approve_usage", adminID, ports.Message{Text: messages.TextApproveUsage, HTML: true})
		return
	}

	cmd, err := commands.NewApproveReceiptCommand(adminID, fullName(msg.From), driverID, kernel.MessageRef{}, "")
	if err != nil {
		r.report(ctx, "manual_approve", adminID, err)
		return
	}
	regions, err := r.handlers.ApproveReceipt.Handle(ctx, cmd)
	switch {
	case err == nil:
		r.reply(ctx, "manual_approve", adminID, ports.Message{Text: messages.ApprovedReply(regions), HTML: true})
	case errors.Is(err, commands.ErrDriverRegionsUnknown):
		r.reply(ctx, "manual_approve", adminID, ports.Message{Text: messages.TextApproveNoRegions})
	case errors.Is(err, commands.ErrNoInviteSent):
		r.reply(ctx, "manual_approve", adminID, ports.Message{Text: messages.TextApproveNoDM})
	default:
		r.report(ctx, "manual_approve", adminID, err)
	}
}

func (r *Router) onUserCounts(ctx context.Context, adminID kernel.UserID, _ *tgbotapi.Message) {
	if !r.admins.IsAdmin(adminID) {
		return
	}
	counts, err := r.handlers.UserCounts.Handle(ctx, queries.NewGetUserCountsQuery())
	if err != nil {
		r.report(ctx, "user_counts", adminID, err)
		return
	}
	r.reply(ctx, "user_counts", adminID, ports.Message{Text: messages.UserCounts(counts.Total, counts.WithPhone), HTML: true})
}

// onPaymentsTest checks that the bot can post to the payments chat.
func (r *Router) onPaymentsTest(ctx context.Context, adminID kernel.UserID, _ *tgbotapi.Message) {
	if !r.admins.IsAdmin(adminID) {
		return
	}
	if _, err := r.gateway.Send(ctx, r.paymentsChatID, ports.Message{Text: messages.TextPaymentsTestSent}); err != nil {
		r.reply(ctx, "payments_test", adminID, ports.Message{Text: messages.TextPaymentsTestFailed + err.Error()})
		return
	}
	r.reply(ctx, "payments_test", adminID, ports.Message{Text: messages.TextPaymentsTestOK})
}

func (r *Router) reply(ctx context.Context, op string, userID kernel.UserID, msg ports.Message) {
	if _, err := r.gateway.Send(ctx, int64(userID), msg); err != nil {
		r.logger.Warn("reply not delivered", "operation", op, "user_id", userID, "error", err)
	}
}
