package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/onboarding"
)

// RequestReceiptCommandHandler parks the driver's wizard at the receipt step and asks
// for the photo. Drivers outside the wizard get ErrNotAwaitingReceipt.
type RequestReceiptCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewRequestReceiptCommandHandler creates the handler that parks the wizard until
// a receipt arrives.
func NewRequestReceiptCommandHandler(deps Deps) RequestReceiptCommandHandler {
	return RequestReceiptCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h RequestReceiptCommandHandler) Handle(ctx context.Context, cmd RequestReceiptCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	driverID := cmd.DriverID()

	err := h.deps.Onboarding.Update(ctx, driverID, func(o *onboarding.Onboarding) error {
		return o.AwaitReceipt()
	})
	if err != nil {
		return errors.Join(ErrNotAwaitingReceipt, err)
	}

	h.notify.sendText(ctx, "receipt_prompt", int64(driverID), messages.TextAskReceipt, nil)
	return nil
}
