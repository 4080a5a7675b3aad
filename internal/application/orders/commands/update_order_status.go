package commands

import (
	"context"
	"fmt"
	"time"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

// UpdateOrderStatusCommand moves an order to a new lifecycle status.
type UpdateOrderStatusCommand struct {
	OrderID int          `validate:"required,gt=0"`
	Status  order.Status `validate:"required"`
}

// UpdateOrderStatusHandler handles UpdateOrderStatusCommand.
type UpdateOrderStatusHandler struct {
	orders order.Repository
}

// NewUpdateOrderStatusHandler creates a new UpdateOrderStatusHandler.
func NewUpdateOrderStatusHandler(orders order.Repository) *UpdateOrderStatusHandler {
	return &UpdateOrderStatusHandler{orders: orders}
}

// Handle validates the transition and persists the new status.
func (h *UpdateOrderStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(UpdateOrderStatusCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected UpdateOrderStatusCommand")
	}

	o, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if !o.CanTransitionTo(cmd.Status) {
		return nil, fmt.Errorf("order %d cannot move from %s to %s", o.ID, o.Status, cmd.Status)
	}

	o.Status = cmd.Status
	o.UpdatedAt = time.Now()
	if err := h.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", o.ID, err)
	}

	return nil, nil
}
