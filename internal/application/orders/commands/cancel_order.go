package commands

import (
	"context"
	"fmt"
	"time"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/application/orders/notifications"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

// CancelOrderCommand cancels a pending or paid order.
type CancelOrderCommand struct {
	OrderID int    `validate:"required,gt=0"`
	Reason  string `validate:"required"`
}

// CancelOrderHandler handles CancelOrderCommand.
type CancelOrderHandler struct {
	orders    order.Repository
	publisher mediator.Publisher
}

// NewCancelOrderHandler creates a new CancelOrderHandler.
func NewCancelOrderHandler(orders order.Repository, publisher mediator.Publisher) *CancelOrderHandler {
	return &CancelOrderHandler{orders: orders, publisher: publisher}
}

// Handle cancels the order and publishes OrderCancelledNotification.
func (h *CancelOrderHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(CancelOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected CancelOrderCommand")
	}

	o, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if !o.CanTransitionTo(order.StatusCancelled) {
		return nil, fmt.Errorf("order %d in status %s cannot be cancelled", o.ID, o.Status)
	}

	now := time.Now()
	o.Status = order.StatusCancelled
	o.UpdatedAt = now
	if err := h.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to cancel order %d: %w", o.ID, err)
	}

	if err := h.publisher.Publish(ctx, notifications.OrderCancelledNotification{
		OrderID:     o.ID,
		OrderNumber: o.Number,
		Reason:      cmd.Reason,
		CancelledAt: now,
	}); err != nil {
		return nil, fmt.Errorf("order %d cancelled but notification fan-out failed: %w", o.ID, err)
	}

	return nil, nil
}
