package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// RateOrderCommandHandler stores the customer's score. The first rating wins; a
// repeated press is answered with the stored score and has no other effect.
//
// Returns the stored score, order.ErrNotOwner for anyone but the customer and
// order.ErrInvalidState unless the order is Completed.
type RateOrderCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewRateOrderCommandHandler creates the handler for order ratings.
func NewRateOrderCommandHandler(deps Deps) RateOrderCommandHandler {
	return RateOrderCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	customerID := cmd.CustomerID()

	unlock := h.deps.OrderLocks.Lock(customerID)
	defer unlock()

	var (
		stored  int
		changed bool
		rated   *order.Order
	)
	err := h.deps.Orders.Update(ctx, customerID, func(o *order.Order) error {
		var err error
		stored, changed, err = o.Rate(cmd.ActorID(), cmd.Score())
		rated = o.Clone()
		return err
	})
	if err != nil {
		metrics.OrderRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return 0, err
	}
	if !changed {
		return stored, nil
	}

	h.notify.dropActions(ctx, "rating_prompt", rated.RatingPrompt())
	h.notify.sendText(ctx, "rating_thanks", int64(customerID), messages.RatingThanks(stored), nil)

	if chat := h.deps.Settings.RatingsChatID; chat != 0 {
		customer, err := lookupProfile(ctx, h.deps, customerID)
		if err != nil {
			h.deps.Logger.Warn("customer profile unavailable", "customer_id", customerID, "error", err)
		}
		h.notify.send(ctx, "rating_log", chat, ports.Message{
			Text:           messages.RatingLog(customerID, profileName(customer), stored),
			HTML:           true,
			DisablePreview: true,
		})
	}

	metrics.RecordTransition("rated")
	return stored, nil
}
