package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/entitlement"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"
)

// CallbackAnswerer acknowledges an inline button press with a toast or an alert.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// Router dispatches one update at a time; it is safe for concurrent use because
// the handlers are.
type Router struct {
	handlers Handlers
	gateway  ports.MessagingGateway
	answers  CallbackAnswerer
	catalog  messages.Catalog
	admins   services.AdminPolicy

	paymentsChatID int64
	logger         *slog.Logger
}

// NewRouter wires the router to the same dependencies the handlers were built from.
func NewRouter(handlers Handlers, deps commands.Deps, answers CallbackAnswerer) *Router {
	return &Router{
		handlers:       handlers,
		gateway:        deps.Gateway,
		answers:        answers,
		catalog:        deps.Catalog,
		admins:         deps.Admins,
		paymentsChatID: deps.Settings.PaymentsChatID,
		logger:         deps.Logger.With("component", "router"),
	}
}

// Handle routes an update. Refusals the user was already told about are logged at
// debug level; anything else is logged as an error. Handle never fails.
func (r *Router) Handle(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		r.onCallback(ctx, update.CallbackQuery)
	case update.ChatMember != nil:
		metrics.UpdatesTotal.WithLabelValues("chat_member").Inc()
		r.onChatMember(ctx, update.ChatMember)
	case update.Message != nil:
		metrics.UpdatesTotal.WithLabelValues("message").Inc()
		r.onMessage(ctx, update.Message)
	default:
		metrics.UpdatesTotal.WithLabelValues("ignored").Inc()
	}
}

func (r *Router) report(ctx context.Context, op string, userID kernel.UserID, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	level := slog.LevelError
	if isRefusal(err) {
		level = slog.LevelDebug
	}
	r.logger.Log(ctx, level, "update not handled", "operation", op, "user_id", userID, "error", err)
}

// refusals are errors a handler returns after it already answered the user, or that
// describe a normal user mistake.
var refusals = []error{
	errs.ErrObjectNotFound,
	errs.ErrValueIsRequired,
	errs.ErrValueIsInvalid,
	errs.ErrValueIsOutOfRange,

	order.ErrInvalidState,
	order.ErrUnauthorized,
	order.ErrPhoneRequired,
	order.ErrRegionMismatch,
	order.ErrNotAssignedDriver,
	order.ErrNotOwner,
	order.ErrAlreadyFinal,

	draft.ErrUnknownRegion,
	draft.ErrInvalidTime,
	draft.ErrAwaitingConfirmation,
	draft.ErrUnexpectedInput,

	onboarding.ErrUnknownRegion,
	onboarding.ErrTooManyRegions,
	onboarding.ErrNoRegionsSelected,
	onboarding.ErrUnexpectedStage,

	entitlement.ErrTrialAlreadyGranted,

	commands.ErrNotOnboarded,
	commands.ErrNoRegionSelected,
	commands.ErrNoActiveDraft,
	commands.ErrNotYourButton,
	commands.ErrAdminOnly,
	commands.ErrDriverRegionsUnknown,
	commands.ErrNotAwaitingReceipt,
}

func isRefusal(err error) bool {
	for _, target := range refusals {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func fullName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.UserName
	}
	return name
}
