package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery looks up the current order of one customer.
//
// Example:
//
//	query, err := queries.NewGetOrderQuery(customerID)
//	if err != nil {
//	    return err
//	}
//	order, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // the customer has no order
//	}
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UserID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a lookup of a customer's live order.
// Returns an error when customerID is not a valid user id.
func NewGetOrderQuery(customerID kernel.UserID) (GetOrderQuery, error) {
	q := GetOrderQuery{guard: guard.NewConstructorGuard()}
	if err := q.setCustomerID(customerID); err != nil {
		return GetOrderQuery{}, err
	}
	return q, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) CustomerID() kernel.UserID {
	return q.customerID
}

func (q *GetOrderQuery) setCustomerID(customerID kernel.UserID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	q.customerID = customerID
	return nil
}

// GetOrderQueryResponse is the read model of an order. DriverID and Rating are zero
// when unset.
type GetOrderQueryResponse struct {
	ID         string `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Status     string `json:"status"`
	Region     string `json:"region"`
	Vehicle    string `json:"vehicle"`
	Pickup     string `json:"pickup"`
	Dropoff    string `json:"dropoff"`
	When       string `json:"when"`
	DriverID   int64  `json:"driver_id,omitempty"`
	Rating     int    `json:"rating,omitempty"`
}
