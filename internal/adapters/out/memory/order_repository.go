package memory

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// OrderRepository keeps the current order of every customer in memory. A removed or
// replaced order is returned to the caller, which owns cancelling its reminders.
type OrderRepository struct {
	items *registry[kernel.UserID, *order.Order]
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository returns an empty order registry.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{items: newRegistry[kernel.UserID]((*order.Order).Clone)}
}

func (r *OrderRepository) Get(_ context.Context, customerID kernel.UserID) (*order.Order, error) {
	o, ok := r.items.get(customerID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("customerID", customerID)
	}
	return o, nil
}

func (r *OrderRepository) Put(_ context.Context, o *order.Order) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	prev, _ := r.items.put(o.CustomerID(), o)
	return prev, nil
}

func (r *OrderRepository) Update(_ context.Context, customerID kernel.UserID, fn func(o *order.Order) error) error {
	_, err := r.items.mutate(customerID, nil, fn)
	if errors.Is(err, errMissing) {
		return errs.NewObjectNotFoundError("customerID", customerID)
	}
	return err
}

func (r *OrderRepository) Remove(_ context.Context, customerID kernel.UserID, id kernel.UUID) (bool, error) {
	_, ok := r.items.removeIf(customerID, func(o *order.Order) bool { return o.IsInstance(id) })
	return ok, nil
}
