// Package queries holds the read-side handlers of the orders sample app.
package queries

import (
	"context"
	"fmt"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

// GetOrderQuery fetches a single order by ID.
type GetOrderQuery struct {
	OrderID int `validate:"required,gt=0"`
}

// GetOrderHandler handles GetOrderQuery.
type GetOrderHandler struct {
	orders order.Repository
}

// NewGetOrderHandler creates a new GetOrderHandler.
func NewGetOrderHandler(orders order.Repository) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle returns the *order.Order or order.ErrNotFound.
func (h *GetOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(GetOrderQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected GetOrderQuery")
	}
	return h.orders.FindByID(ctx, query.OrderID)
}
