package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// GetOrderQueryHandler reads an order from the registry. A customer without an order
// gets an errs.ObjectNotFoundError.
type GetOrderQueryHandler struct {
	orders ports.OrderRepository
}

// NewGetOrderQueryHandler creates a handler reading from orders.
func NewGetOrderQueryHandler(orders ports.OrderRepository) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.CustomerID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	d := o.Details()
	resp := GetOrderQueryResponse{
		ID:         o.ID().String(),
		CustomerID: int64(o.CustomerID()),
		Status:     o.Status().String(),
		Region:     d.Region,
		Vehicle:    d.Vehicle,
		Pickup:     d.Pickup,
		Dropoff:    d.Dropoff,
		When:       d.When.String(),
	}
	if driver, ok := o.Driver(); ok {
		resp.DriverID = int64(driver)
	}
	if rating, ok := o.Rating(); ok {
		resp.Rating = rating
	}
	return resp, nil
}
