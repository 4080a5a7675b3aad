// Package notifications holds the sample app notification contracts and
// their handlers.
package notifications

import (
	"context"
	"fmt"

	mediator "github.com/gragra33/blazing-mediator"
)

// OrderCreatedNotification announces that a new order was persisted.
type OrderCreatedNotification struct {
	OrderID       int
	OrderNumber   string
	CustomerEmail string
	Total         float64
}

// EmailSender is the outbound port for customer email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// InventoryService is the outbound port for stock reservation.
type InventoryService interface {
	Reserve(ctx context.Context, orderID int) error
}

// OrderConfirmationHandler emails the customer when an order is created.
type OrderConfirmationHandler struct {
	email EmailSender
}

// NewOrderConfirmationHandler creates a new OrderConfirmationHandler.
func NewOrderConfirmationHandler(email EmailSender) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{email: email}
}

// Handle sends the confirmation email.
func (h *OrderConfirmationHandler) Handle(ctx context.Context, notification mediator.Notification) error {
	n, ok := notification.(OrderCreatedNotification)
	if !ok {
		return fmt.Errorf("invalid notification type: expected OrderCreatedNotification")
	}

	subject := fmt.Sprintf("Order %s confirmed", n.OrderNumber)
	body := fmt.Sprintf("Thanks for your order of %.2f. We'll let you know when it ships.", n.Total)
	if err := h.email.Send(ctx, n.CustomerEmail, subject, body); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// InventoryReservationHandler reserves stock when an order is created.
type InventoryReservationHandler struct {
	inventory InventoryService
}

// NewInventoryReservationHandler creates a new InventoryReservationHandler.
func NewInventoryReservationHandler(inventory InventoryService) *InventoryReservationHandler {
	return &InventoryReservationHandler{inventory: inventory}
}

// Handle reserves inventory for the order.
func (h *InventoryReservationHandler) Handle(ctx context.Context, notification mediator.Notification) error {
	n, ok := notification.(OrderCreatedNotification)
	if !ok {
		return fmt.Errorf("invalid notification type: expected OrderCreatedNotification")
	}

	if err := h.inventory.Reserve(ctx, n.OrderID); err != nil {
		return fmt.Errorf("failed to reserve inventory for order %d: %w", n.OrderID, err)
	}
	return nil
}
