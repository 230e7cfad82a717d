package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"
)

// SubmitReceiptCommandHandler forwards a payment receipt to the payments chat with
// approve and reject buttons.
//
// A photo the chat refuses is retried as a document. When the payments chat cannot
// take the file at all, it is sent to every admin with a warning, the driver is asked
// to try later and ErrGatewayDeliveryFailed is returned; the wizard stays at the
// receipt step. A driver not at that step gets ErrNotAwaitingReceipt.
type SubmitReceiptCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewSubmitReceiptCommandHandler creates the handler that posts receipts to the payments chat.
func NewSubmitReceiptCommandHandler(deps Deps) SubmitReceiptCommandHandler {
	return SubmitReceiptCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h SubmitReceiptCommandHandler) Handle(ctx context.Context, cmd SubmitReceiptCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	driverID := cmd.DriverID()

	wizard, err := h.deps.Onboarding.Get(ctx, driverID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNotAwaitingReceipt
	}
	if err != nil {
		return err
	}
	if !wizard.IsAwaitingReceipt() {
		return ErrNotAwaitingReceipt
	}

	p, err := lookupProfile(ctx, h.deps, driverID)
	if err != nil {
		return err
	}
	regions := wizard.Regions()
	if len(regions) == 0 {
		if regions, err = driverRegions(ctx, h.deps, driverID, p); err != nil {
			return err
		}
	}

	applicant := wizard.Applicant()
	name, phone := applicant.Name, applicant.Phone
	if name == "" {
		name = profileName(p)
	}
	if phone == "" {
		phone = profilePhone(p)
	}
	caption := messages.ReceiptCaption(driverID, name, applicant.CarMake, applicant.CarPlate, phone, regions)

	if err := h.forward(ctx, cmd.File(), caption, wizard); err != nil {
		metrics.ReceiptsTotal.WithLabelValues("undeliverable").Inc()
		h.notify.failed("receipt_forward", err, "driver_id", driverID)
		h.fallback(ctx, cmd.File(), caption, wizard, err)
		h.notify.sendText(ctx, "receipt_failed", int64(driverID), messages.TextReceiptFailed, nil)
		return fmt.Errorf("%w: %w", ErrGatewayDeliveryFailed, err)
	}

	h.notify.sendText(ctx, "receipt_sent", int64(driverID), messages.TextReceiptSent, messages.MainMenu())
	if err := h.deps.Onboarding.Delete(ctx, driverID); err != nil {
		return err
	}

	metrics.ReceiptsTotal.WithLabelValues("submitted").Inc()
	h.deps.Logger.Info("receipt submitted", "driver_id", driverID, "regions", regions)
	return nil
}

func (h SubmitReceiptCommandHandler) forward(ctx context.Context, file ports.File, caption string, wizard *onboarding.Onboarding) error {
	msg := ports.Message{Text: caption, HTML: true, Actions: messages.PaymentReviewActions(wizard.DriverID())}
	chat := h.deps.Settings.PaymentsChatID

	_, err := h.deps.Gateway.SendFile(ctx, chat, file, msg)
	if errors.Is(err, ports.ErrPhotoNotAllowed) && file.Kind == ports.FilePhoto {
		file.Kind = ports.FileDocument
		_, err = h.deps.Gateway.SendFile(ctx, chat, file, msg)
	}
	return err
}

// fallback hands the receipt to the admins directly.
func (h SubmitReceiptCommandHandler) fallback(ctx context.Context, file ports.File, caption string, wizard *onboarding.Onboarding, cause error) {
	admins := h.deps.Admins.Admins()
	msg := ports.Message{Text: caption + messages.TextReceiptAdminNote, HTML: true}
	for _, admin := range admins {
		if _, err := h.deps.Gateway.SendFile(ctx, int64(admin), file, msg); err != nil {
			h.notify.failed("receipt_admin_copy", err, "admin_id", admin)
		}
	}
	h.notify.toAdmins(ctx, "receipt_admin_warning", admins, messages.ReceiptDeliveryWarning(wizard.DriverID(), cause))
}
