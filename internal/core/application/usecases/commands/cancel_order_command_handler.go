package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// CancelOrderCommandHandler cancels an order for its customer, its driver or an admin.
//
// Outcomes:
//   - customer or admin: the dispatch post is deleted, both parties are told and the
//     order is removed
//   - driver: the customer's detail message is deleted, the customer is told a new
//     driver will come and the dispatch post offers the order again
//
// Returns the cancelling party, order.ErrAlreadyFinal for a completed order and
// order.ErrUnauthorized for anyone without a role in the order.
type CancelOrderCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewCancelOrderCommandHandler creates the handler for order cancellation.
func NewCancelOrderCommandHandler(deps Deps) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (order.CancelActor, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	actor, customerID := cmd.ActorID(), cmd.CustomerID()

	unlock := h.deps.OrderLocks.Lock(customerID)
	defer unlock()

	var (
		outcome   order.Cancellation
		cancelled *order.Order
	)
	err := h.deps.Orders.Update(ctx, customerID, func(o *order.Order) error {
		var err error
		if outcome, err = o.Cancel(actor, h.deps.Admins.IsAdmin(actor)); err != nil {
			return err
		}
		cancelled = o.Clone()
		return nil
	})
	if err != nil {
		metrics.OrderRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return 0, err
	}

	if outcome.Removed {
		if _, err := h.deps.Orders.Remove(ctx, customerID, cancelled.ID()); err != nil {
			h.deps.Logger.Error("cancelled order not removed", "customer_id", customerID, "error", err)
		}
		h.removed(ctx, customerID, cancelled, outcome)
	} else {
		h.reopened(ctx, customerID, cancelled, outcome)
	}

	transition := map[order.CancelActor]string{
		order.CancelledByCustomer: "cancelled_customer",
		order.CancelledByDriver:   "cancelled_driver",
		order.CancelledByAdmin:    "cancelled_admin",
	}[outcome.Actor]
	metrics.RecordTransition(transition)
	h.deps.Logger.Info("order cancelled", "customer_id", customerID, "actor_id", actor, "outcome", transition)

	return outcome.Actor, nil
}

// removed renders a customer or admin cancellation.
func (h CancelOrderCommandHandler) removed(ctx context.Context, customerID kernel.UserID, o *order.Order, c order.Cancellation) {
	toDriver, toCustomer := messages.TextCustomerCancelledToDriver, messages.TextCustomerCancelled
	if c.Actor == order.CancelledByAdmin {
		toDriver, toCustomer = messages.TextAdminCancelledToDriver, messages.TextAdminCancelledToCustomer
	}

	h.notify.delete(ctx, "cancel_dispatch_post", o.DispatchPost())
	h.notify.dropActions(ctx, "cancel_driver_info", c.DriverInfo)
	h.notify.dropActions(ctx, "cancel_customer_info", c.CustomerInfo)
	if c.Driver != 0 {
		h.notify.sendText(ctx, "cancel_notify_driver", int64(c.Driver), toDriver, nil)
	}
	h.notify.sendText(ctx, "cancel_notify_customer", int64(customerID), toCustomer, nil)
}

// reopened renders a driver cancellation: the order goes back on offer.
func (h CancelOrderCommandHandler) reopened(ctx context.Context, customerID kernel.UserID, o *order.Order, c order.Cancellation) {
	h.notify.delete(ctx, "cancel_customer_info", c.CustomerInfo)
	h.notify.dropActions(ctx, "cancel_driver_info", c.DriverInfo)
	h.notify.sendText(ctx, "cancel_notify_customer", int64(customerID), messages.TextDriverCancelledToCustomer, nil)

	customer, err := lookupProfile(ctx, h.deps, customerID)
	if err != nil {
		h.deps.Logger.Warn("customer profile unavailable", "customer_id", customerID, "error", err)
	}
	h.notify.edit(ctx, "cancel_dispatch_post", o.DispatchPost(), ports.Message{
		Text:           messages.DispatchPost(profileName(customer), o.Details(), ""),
		Actions:        messages.AcceptActions(customerID),
		DisablePreview: true,
	})
}
