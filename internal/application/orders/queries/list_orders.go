package queries

import (
	"context"
	"fmt"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

const defaultPageSize = 25

// ListOrdersQuery lists orders, optionally filtered by status, one page
// at a time.
type ListOrdersQuery struct {
	Status   order.Status
	Page     int `validate:"omitempty,gte=1"`
	PageSize int `validate:"omitempty,gte=1,lte=200"`
}

// ListOrdersResponse is one page of orders.
type ListOrdersResponse struct {
	Orders   []*order.Order
	Page     int
	PageSize int
	Total    int64
}

// ListOrdersHandler handles ListOrdersQuery.
type ListOrdersHandler struct {
	orders order.Repository
}

// NewListOrdersHandler creates a new ListOrdersHandler.
func NewListOrdersHandler(orders order.Repository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle returns the requested page.
func (h *ListOrdersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(ListOrdersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected ListOrdersQuery")
	}

	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = defaultPageSize
	}

	orders, total, err := h.orders.List(ctx, order.ListFilter{
		Status:   query.Status,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &ListOrdersResponse{
		Orders:   orders,
		Page:     query.Page,
		PageSize: query.PageSize,
		Total:    total,
	}, nil
}
