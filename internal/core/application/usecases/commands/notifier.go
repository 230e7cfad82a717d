package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// notifier wraps the gateway for side effects whose failure is tolerated: the
// failure is counted under op and logged, and the caller carries on.
type notifier struct {
	gateway ports.MessagingGateway
	logger  *slog.Logger
}

func newNotifier(d Deps) notifier {
	return notifier{gateway: d.Gateway, logger: d.Logger}
}

func (n notifier) failed(op string, err error, args ...any) {
	metrics.RecordGatewayFailure(op)
	n.logger.Warn("chat side effect failed", append([]any{"operation", op, "error", err}, args...)...)
}

// send delivers msg and reports whether it arrived.
func (n notifier) send(ctx context.Context, op string, chatID int64, msg ports.Message) (kernel.MessageRef, bool) {
	ref, err := n.gateway.Send(ctx, chatID, msg)
	if err != nil {
		n.failed(op, err, "chat_id", chatID)
		return kernel.MessageRef{}, false
	}
	return ref, true
}

// sendText is send for plain text with an optional reply keyboard.
func (n notifier) sendText(ctx context.Context, op string, chatID int64, text string, kb *ports.Keyboard) {
	n.send(ctx, op, chatID, ports.Message{Text: text, HTML: true, Keyboard: kb})
}

func (n notifier) edit(ctx context.Context, op string, ref kernel.MessageRef, msg ports.Message) {
	if ref.IsZero() {
		return
	}
	if err := n.gateway.EditText(ctx, ref, msg); err != nil {
		n.failed(op, err, "chat_id", ref.ChatID, "message_id", ref.MessageID)
	}
}

// dropActions removes the inline buttons of ref, if any.
func (n notifier) dropActions(ctx context.Context, op string, ref kernel.MessageRef) {
	if ref.IsZero() {
		return
	}
	if err := n.gateway.EditActions(ctx, ref, nil); err != nil {
		n.failed(op, err, "chat_id", ref.ChatID, "message_id", ref.MessageID)
	}
}

func (n notifier) delete(ctx context.Context, op string, ref kernel.MessageRef) {
	if ref.IsZero() {
		return
	}
	if err := n.gateway.Delete(ctx, ref); err != nil {
		n.failed(op, err, "chat_id", ref.ChatID, "message_id", ref.MessageID)
	}
}

// toAdmins sends plain text to every admin; each delivery is attempted independently.
func (n notifier) toAdmins(ctx context.Context, op string, admins []kernel.UserID, text string) {
	for _, admin := range admins {
		n.send(ctx, op, int64(admin), ports.Message{Text: text})
	}
}
