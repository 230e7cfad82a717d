package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// AcceptOrderCommandHandler assigns an open order to the driver who pressed accept.
//
// Under the order's lock it:
//  1. resolves the driver's regions and runs order.Accept
//  2. DMs the driver the customer's contact; when that fails the order is reopened
//     and ErrGatewayDeliveryFailed is returned, so no driver holds an order they
//     never saw
//  3. marks the dispatch post as taken and tells the customer who is coming
//  4. starts the reminders and grants the order's region to a driver that had none
//
// Errors from order.Accept come back unchanged so the caller can pick an alert.
//
// Example:
//
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // the order is gone
//	case errors.Is(err, order.ErrInvalidState):
//	    // someone was faster
//	case errors.Is(err, order.ErrRegionMismatch):
//	    var mismatch *order.RegionMismatchError
//	    errors.As(err, &mismatch)
//	}
type AcceptOrderCommandHandler struct {
	deps   Deps
	notify notifier
}

// NewAcceptOrderCommandHandler creates the handler for order acceptance.
// Acceptance is serialized per customer through Deps.OrderLocks.
func NewAcceptOrderCommandHandler(deps Deps) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{deps: deps, notify: newNotifier(deps)}
}

func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	driverID, customerID := cmd.DriverID(), cmd.CustomerID()

	unlock := h.deps.OrderLocks.Lock(customerID)
	defer unlock()

	driver, err := lookupProfile(ctx, h.deps, driverID)
	if err != nil {
		return err
	}
	regions, err := driverRegions(ctx, h.deps, driverID, driver)
	if err != nil {
		return err
	}
	hasPhone := driver != nil && driver.HasPhone()

	var (
		accepted *order.Order
		grant    bool
	)
	err = h.deps.Orders.Update(ctx, customerID, func(o *order.Order) error {
		g, err := o.Accept(driverID, hasPhone, regions)
		if err != nil {
			return err
		}
		grant = g
		accepted = o.Clone()
		return nil
	})
	if err != nil {
		metrics.OrderRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		if errors.Is(err, order.ErrPhoneRequired) {
			h.notify.send(ctx, "accept_phone_prompt", int64(driverID), ports.Message{
				Text:     messages.TextAcceptNeedsPhone,
				Keyboard: messages.ContactRequest(messages.LabelSharePhone),
			})
		}
		return err
	}

	customer, err := lookupProfile(ctx, h.deps, customerID)
	if err != nil {
		h.deps.Logger.Warn("customer profile unavailable", "customer_id", customerID, "error", err)
	}
	details := accepted.Details()

	driverInfo, err := h.deps.Gateway.Send(ctx, int64(driverID), ports.Message{
		Text:    messages.DriverAssigned(customerID, profileName(customer), profilePhone(customer), details),
		HTML:    true,
		Actions: messages.DriverOrderActions(customerID),
	})
	if err != nil {
		h.notify.failed("accept_driver_dm", err, "driver_id", driverID)
		h.reopen(ctx, accepted, driverID)
		return fmt.Errorf("%w: %w", ErrGatewayDeliveryFailed, err)
	}

	h.notify.edit(ctx, "accept_dispatch_post", accepted.DispatchPost(), ports.Message{
		Text:           messages.DispatchPost(profileName(customer), details, messages.TextStatusAccepted),
		DisablePreview: true,
	})

	customerInfo, _ := h.notify.send(ctx, "accept_customer_info", int64(customerID), ports.Message{
		Text:    messages.CustomerAssigned(driverID, profileName(driver), profilePhone(driver), details.Region),
		HTML:    true,
		Actions: messages.CustomerOrderActions(customerID, driverID),
	})

	err = h.deps.Orders.Update(ctx, customerID, func(o *order.Order) error {
		if !o.IsInstance(accepted.ID()) {
			return errStaleOrder
		}
		o.SetDriverInfo(driverInfo)
		o.SetCustomerInfo(customerInfo)
		return o.AttachReminders(h.deps.Reminders.Schedule(o))
	})
	if err != nil {
		h.deps.Logger.Error("accepted order not updated", "customer_id", customerID, "error", err)
	}

	if grant {
		if _, err := h.deps.Profiles.Upsert(ctx, driverID, func(p *profile.Profile) error {
			p.AddRegions(details.Region)
			return nil
		}); err != nil {
			h.deps.Logger.Error("region grant failed", "driver_id", driverID, "region", details.Region, "error", err)
		}
	}

	metrics.RecordTransition("accepted")
	h.deps.Logger.Info("order accepted", "customer_id", customerID, "driver_id", driverID, "region", details.Region)
	return nil
}

// reopen undoes an acceptance whose driver could not be told about it.
func (h AcceptOrderCommandHandler) reopen(ctx context.Context, accepted *order.Order, driverID kernel.UserID) {
	err := h.deps.Orders.Update(ctx, accepted.CustomerID(), func(o *order.Order) error {
		if !o.IsInstance(accepted.ID()) {
			return errStaleOrder
		}
		_, err := o.Cancel(driverID, false)
		return err
	})
	if err != nil {
		h.deps.Logger.Error("order not reopened after failed driver DM",
			"customer_id", accepted.CustomerID(), "driver_id", driverID, "error", err)
	}
}
