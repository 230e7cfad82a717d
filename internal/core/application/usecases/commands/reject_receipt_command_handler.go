package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/pkg/metrics"
)

// RejectReceiptCommandHandler tells the driver the payment was refused and stamps
// the receipt. Returns ErrAdminOnly for non-admins.
type RejectReceiptCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewRejectReceiptCommandHandler creates the handler for rejected receipts.
func NewRejectReceiptCommandHandler(deps Deps) RejectReceiptCommandHandler {
	return RejectReceiptCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h RejectReceiptCommandHandler) Handle(ctx context.Context, cmd RejectReceiptCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !h.deps.Admins.IsAdmin(cmd.AdminID()) {
		return ErrAdminOnly
	}

	h.notify.sendText(ctx, "receipt_rejected", int64(cmd.DriverID()), messages.TextReceiptRejected, nil)
	stampReceipt(ctx, h.notify, cmd.Post(), cmd.Caption()+messages.RejectionNote(cmd.AdminName(), h.deps.Clock.Now()))

	metrics.ReceiptsTotal.WithLabelValues("rejected").Inc()
	h.deps.Logger.Info("receipt rejected", "driver_id", cmd.DriverID(), "admin_id", cmd.AdminID())
	return nil
}
