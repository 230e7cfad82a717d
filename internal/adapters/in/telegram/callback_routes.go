package telegram

import (
	"context"
	"errors"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// answer is what a button press is acknowledged with. An empty text only stops the
// spinner.
type answer struct {
	text  string
	alert bool
}

func toast(text string) answer { return answer{text: text} }
func alert(text string) answer { return answer{text: text, alert: true} }

func (r *Router) onCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.From == nil {
		return
	}
	userID := kernel.UserID(q.From.ID)

	cb, err := messages.ParseCallback(q.Data)
	if err != nil {
		r.logger.Debug("unknown callback", "user_id", userID, "data", q.Data)
		r.answer(ctx, q, alert(messages.AlertMalformed))
		return
	}

	var a answer
	switch cb.Kind {
	case messages.CallbackAccept:
		a = r.accept(ctx, userID, cb.Target)
	case messages.CallbackComplete:
		a = r.complete(ctx, userID, cb.Target)
	case messages.CallbackCancel:
		a = r.cancel(ctx, userID, cb.Target)
	case messages.CallbackRate:
		a = r.rate(ctx, userID, cb.Target, cb.Score)
	case messages.CallbackDraftConfirm:
		a = r.commitDraft(ctx, userID, cb.Target)
	case messages.CallbackDraftCancel:
		a = r.discardDraft(ctx, userID, cb.Target)
	case messages.CallbackPaymentApprove:
		a = r.approve(ctx, q, userID, cb.Target)
	case messages.CallbackPaymentReject:
		a = r.reject(ctx, q, userID, cb.Target)
	case messages.CallbackDriverAgree:
		cmd, err := commands.NewAcceptDriverTermsCommand(userID)
		if err == nil {
			err = r.handlers.AcceptDriverTerms.Handle(ctx, cmd)
		}
		r.report(ctx, "accept_terms", userID, err)
	case messages.CallbackSendReceipt:
		cmd, err := commands.NewRequestReceiptCommand(userID)
		if err == nil {
			err = r.handlers.RequestReceipt.Handle(ctx, cmd)
		}
		r.report(ctx, "request_receipt", userID, err)
	}
	r.answer(ctx, q, a)
}

func (r *Router) answer(ctx context.Context, q *tgbotapi.CallbackQuery, a answer) {
	if err := r.answers.AnswerCallback(ctx, q.ID, a.text, a.alert); err != nil {
		r.logger.Debug("callback answer failed", "callback_id", q.ID, "error", err)
	}
}

func (r *Router) accept(ctx context.Context, driverID, customerID kernel.UserID) answer {
	cmd, err := commands.NewAcceptOrderCommand(driverID, customerID)
	if err == nil {
		err = r.handlers.AcceptOrder.Handle(ctx, cmd)
	}
	r.report(ctx, "accept_order", driverID, err)

	var mismatch *order.RegionMismatchError
	switch {
	case err == nil:
		return toast(messages.AlertAccepted)
	case errors.As(err, &mismatch):
		return alert(messages.RegionMismatch(mismatch.Region, mismatch.DriverRegions))
	case errors.Is(err, errs.ErrObjectNotFound):
		return alert(messages.AlertAcceptNotFound)
	case errors.Is(err, order.ErrInvalidState):
		return alert(messages.AlertAlreadyTaken)
	case errors.Is(err, order.ErrUnauthorized):
		return alert(messages.AlertOwnOrder)
	case errors.Is(err, order.ErrPhoneRequired):
		return alert(messages.AlertPhoneFirst)
	case errors.Is(err, commands.ErrGatewayDeliveryFailed):
		return alert(messages.AlertDriverDMFailed)
	default:
		return alert(messages.AlertGeneric)
	}
}

func (r *Router) complete(ctx context.Context, driverID, customerID kernel.UserID) answer {
	cmd, err := commands.NewCompleteOrderCommand(driverID, customerID)
	if err == nil {
		err = r.handlers.CompleteOrder.Handle(ctx, cmd)
	}
	r.report(ctx, "complete_order", driverID, err)

	switch {
	case err == nil:
		return toast(messages.AlertCompleted)
	case errors.Is(err, errs.ErrObjectNotFound):
		return alert(messages.AlertOrderNotFound)
	case errors.Is(err, order.ErrNotAssignedDriver):
		return alert(messages.AlertOnlyDriver)
	case errors.Is(err, order.ErrInvalidState):
		return alert(messages.AlertCannotComplete)
	default:
		return alert(messages.AlertGeneric)
	}
}

func (r *Router) cancel(ctx context.Context, actorID, customerID kernel.UserID) answer {
	var actor order.CancelActor
	cmd, err := commands.NewCancelOrderCommand(actorID, customerID)
	if err == nil {
		actor, err = r.handlers.CancelOrder.Handle(ctx, cmd)
	}
	r.report(ctx, "cancel_order", actorID, err)

	switch {
	case err == nil:
		switch actor {
		case order.CancelledByCustomer:
			return toast(messages.AlertCancelledCustomer)
		case order.CancelledByDriver:
			return toast(messages.AlertCancelledDriver)
		case order.CancelledByAdmin:
			return toast(messages.AlertCancelledAdmin)
		default:
			return toast(messages.AlertCancelled)
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		return alert(messages.AlertCancelNotFound)
	case errors.Is(err, order.ErrAlreadyFinal):
		return alert(messages.AlertCannotCancelFinal)
	case errors.Is(err, order.ErrUnauthorized):
		return alert(messages.AlertNoCancelRights)
	default:
		return alert(messages.AlertGeneric)
	}
}

func (r *Router) rate(ctx context.Context, actorID, customerID kernel.UserID, score int) answer {
	cmd, err := commands.NewRateOrderCommand(actorID, customerID, score)
	if err == nil {
		_, err = r.handlers.RateOrder.Handle(ctx, cmd)
	}
	r.report(ctx, "rate_order", actorID, err)

	switch {
	case err == nil:
		return toast(messages.AlertThanks)
	case errors.Is(err, errs.ErrObjectNotFound):
		return alert(messages.AlertOrderNotFound)
	case errors.Is(err, order.ErrNotOwner):
		return alert(messages.AlertOnlyOwnerRates)
	case errors.Is(err, order.ErrInvalidState):
		return alert(messages.AlertRateOnlyCompleted)
	case errors.Is(err, errs.ErrValueIsOutOfRange):
		return alert(messages.AlertMalformed)
	default:
		return alert(messages.AlertGeneric)
	}
}

func (r *Router) commitDraft(ctx context.Context, actorID, customerID kernel.UserID) answer {
	cmd, err := commands.NewCommitDraftCommand(actorID, customerID)
	if err == nil {
		err = r.handlers.CommitDraft.Handle(ctx, cmd)
	}
	r.report(ctx, "commit_draft", actorID, err)

	switch {
	case err == nil:
		return toast(messages.AlertOrderSent)
	case errors.Is(err, commands.ErrNotYourButton):
		return alert(messages.AlertNotYourButton)
	case errors.Is(err, commands.ErrNoActiveDraft):
		return alert(messages.AlertNoActiveDraft)
	case errors.Is(err, commands.ErrNoRegionSelected):
		return alert(messages.TextPleaseChooseRegion)
	default:
		return alert(messages.AlertGeneric)
	}
}

func (r *Router) discardDraft(ctx context.Context, actorID, customerID kernel.UserID) answer {
	cmd, err := commands.NewDiscardDraftCommand(actorID, customerID)
	if err == nil {
		err = r.handlers.DiscardDraft.Handle(ctx, cmd)
	}
	r.report(ctx, "discard_draft", actorID, err)

	switch {
	case err == nil:
		return toast(messages.AlertCancelled)
	case errors.Is(err, commands.ErrNotYourButton):
		return alert(messages.AlertNotYourButton)
	default:
		return alert(messages.AlertGeneric)
	}
}

// receiptPost is the payments chat message the button sits on and its caption,
// escaped so it can be re-sent as HTML.
func receiptPost(q *tgbotapi.CallbackQuery) (kernel.MessageRef, string) {
	if q.Message == nil || q.Message.Chat == nil {
		return kernel.MessageRef{}, ""
	}
	ref := kernel.MessageRef{ChatID: q.Message.Chat.ID, MessageID: q.Message.MessageID}
	return ref, html.EscapeString(q.Message.Caption)
}

func (r *Router) approve(ctx context.Context, q *tgbotapi.CallbackQuery, adminID, driverID kernel.UserID) answer {
	post, caption := receiptPost(q)
	cmd, err := commands.NewApproveReceiptCommand(adminID, fullName(q.From), driverID, post, caption)
	if err == nil {
		_, err = r.handlers.ApproveReceipt.Handle(ctx, cmd)
	}
	r.report(ctx, "approve_receipt", adminID, err)

	switch {
	case err == nil:
		return toast(messages.AlertApproved)
	case errors.Is(err, commands.ErrAdminOnly):
		return alert(messages.AlertAdminApproveOnly)
	case errors.Is(err, commands.ErrDriverRegionsUnknown):
		return alert(messages.AlertNoDriverRegions)
	case errors.Is(err, commands.ErrNoInviteSent):
		return alert(messages.AlertNoInviteSent)
	default:
		return alert(messages.AlertGeneric)
	}
}

func (r *Router) reject(ctx context.Context, q *tgbotapi.CallbackQuery, adminID, driverID kernel.UserID) answer {
	post, caption := receiptPost(q)
	cmd, err := commands.NewRejectReceiptCommand(adminID, fullName(q.From), driverID, post, caption)
	if err == nil {
		err = r.handlers.RejectReceipt.Handle(ctx, cmd)
	}
	r.report(ctx, "reject_receipt", adminID, err)

	switch {
	case err == nil:
		return toast(messages.AlertRejected)
	case errors.Is(err, commands.ErrAdminOnly):
		return alert(messages.AlertAdminRejectOnly)
	default:
		return alert(messages.AlertGeneric)
	}
}
