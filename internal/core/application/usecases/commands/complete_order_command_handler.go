package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// CompleteOrderCommandHandler closes an accepted order on behalf of its driver,
// stops the reminders and asks the customer for a rating.
//
// Returns order.ErrNotAssignedDriver for anyone but the driver and
// order.ErrInvalidState when the order is not Accepted.
type CompleteOrderCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewCompleteOrderCommandHandler creates the handler for order completion.
// Completion stops the reminders and asks the customer for a rating.
func NewCompleteOrderCommandHandler(deps Deps) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	customerID := cmd.CustomerID()

	unlock := h.deps.OrderLocks.Lock(customerID)
	defer unlock()

	var (
		done         *order.Order
		customerInfo kernel.MessageRef
	)
	err := h.deps.Orders.Update(ctx, customerID, func(o *order.Order) error {
		if err := o.Complete(cmd.DriverID()); err != nil {
			return err
		}
		customerInfo = o.TakeCustomerInfo()
		done = o.Clone()
		return nil
	})
	if err != nil {
		metrics.OrderRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}

	customer, err := lookupProfile(ctx, h.deps, customerID)
	if err != nil {
		h.deps.Logger.Warn("customer profile unavailable", "customer_id", customerID, "error", err)
	}

	h.notify.dropActions(ctx, "complete_driver_info", done.DriverInfo())
	h.notify.edit(ctx, "complete_dispatch_post", done.DispatchPost(), ports.Message{
		Text:           messages.DispatchPost(profileName(customer), done.Details(), messages.TextStatusCompleted),
		DisablePreview: true,
	})
	h.notify.delete(ctx, "complete_customer_info", customerInfo)

	prompt, ok := h.notify.send(ctx, "rating_prompt", int64(customerID), ports.Message{
		Text:    messages.TextRatePrompt,
		Actions: messages.RatingActions(customerID),
	})
	if ok {
		err = h.deps.Orders.Update(ctx, customerID, func(o *order.Order) error {
			if !o.IsInstance(done.ID()) {
				return errStaleOrder
			}
			o.SetRatingPrompt(prompt)
			return nil
		})
		if err != nil {
			h.deps.Logger.Warn("rating prompt not recorded", "customer_id", customerID, "error", err)
		}
	}

	metrics.RecordTransition("completed")
	h.deps.Logger.Info("order completed", "customer_id", customerID, "driver_id", cmd.DriverID())
	return nil
}
