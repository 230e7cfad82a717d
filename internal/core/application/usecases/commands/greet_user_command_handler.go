package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/ports"
)

// GreetUserCommandHandler answers /start.
type GreetUserCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewGreetUserCommandHandler creates the /start handler.
func NewGreetUserCommandHandler(deps Deps) GreetUserCommandHandler {
	return GreetUserCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h GreetUserCommandHandler) Handle(ctx context.Context, cmd GreetUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	chat := int64(cmd.UserID())

	p, err := lookupProfile(ctx, h.deps, cmd.UserID())
	if err != nil {
		return err
	}
	if p != nil && p.HasPhone() {
		h.notify.sendText(ctx, "greeting", chat, messages.TextChooseFromMenu, messages.MainMenu())
		return nil
	}

	h.notify.send(ctx, "greeting", chat, ports.Message{
		Text:     messages.Greeting(cmd.FullName()),
		Keyboard: messages.ContactRequest(messages.LabelSharePhoneNow),
	})
	return nil
}
