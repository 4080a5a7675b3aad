// Package commands holds the write-side handlers of the orders sample app.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/application/common"
	"github.com/gragra33/blazing-mediator/internal/application/orders/notifications"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

// CreateOrderCommand creates a new order in pending state.
type CreateOrderCommand struct {
	CustomerEmail string  `validate:"required,email"`
	Total         float64 `validate:"gt=0"`
}

// CreateOrderHandler handles CreateOrderCommand.
type CreateOrderHandler struct {
	orders    order.Repository
	publisher mediator.Publisher
}

// NewCreateOrderHandler creates a new CreateOrderHandler.
func NewCreateOrderHandler(orders order.Repository, publisher mediator.Publisher) *CreateOrderHandler {
	return &CreateOrderHandler{orders: orders, publisher: publisher}
}

// Handle persists the order and publishes OrderCreatedNotification.
func (h *CreateOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(CreateOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected CreateOrderCommand")
	}

	now := time.Now()
	o := &order.Order{
		Number:        uuid.NewString(),
		CustomerEmail: cmd.CustomerEmail,
		Total:         cmd.Total,
		Status:        order.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	// Downstream reactions (confirmation email, inventory) run as a
	// notification fan-out so the command does not know about them.
	if err := h.publisher.Publish(ctx, notifications.OrderCreatedNotification{
		OrderID:       o.ID,
		OrderNumber:   o.Number,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total,
	}); err != nil {
		return nil, fmt.Errorf("order %d created but notification fan-out failed: %w", o.ID, err)
	}

	return common.Result(o.ID, fmt.Sprintf("order %s created", o.Number)), nil
}
