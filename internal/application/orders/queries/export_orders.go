package queries

import (
	"context"
	"fmt"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

// ExportOrdersQuery streams every order, one record at a time.
type ExportOrdersQuery struct{}

// ExportOrdersHandler handles ExportOrdersQuery as a stream.
type ExportOrdersHandler struct {
	orders order.Repository
}

// NewExportOrdersHandler creates a new ExportOrdersHandler.
func NewExportOrdersHandler(orders order.Repository) *ExportOrdersHandler {
	return &ExportOrdersHandler{orders: orders}
}

// Handle returns a channel yielding one *order.Order per item. Production
// stops when the consumer's context is cancelled.
func (h *ExportOrdersHandler) Handle(ctx context.Context, request mediator.Request) (<-chan mediator.StreamItem, error) {
	if _, ok := request.(ExportOrdersQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected ExportOrdersQuery")
	}

	out := make(chan mediator.StreamItem)
	go func() {
		defer close(out)
		err := h.orders.ForEach(ctx, func(o *order.Order) error {
			select {
			case out <- mediator.StreamItem{Value: o}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			select {
			case out <- mediator.StreamItem{Err: fmt.Errorf("order export aborted: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}
