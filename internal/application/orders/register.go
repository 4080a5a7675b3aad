// Package orders wires the sample app's handlers onto a mediator.
package orders

import (
	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/application/orders/commands"
	"github.com/gragra33/blazing-mediator/internal/application/orders/notifications"
	"github.com/gragra33/blazing-mediator/internal/application/orders/queries"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

// Services are the outbound dependencies of the orders handlers.
type Services struct {
	Orders    order.Repository
	Email     notifications.EmailSender
	Inventory notifications.InventoryService
	Audit     notifications.AuditLog
}

// Register registers every command, query, stream and notification handler
// of the orders feature on the mediator.
func Register(m *mediator.Mediator, s Services) error {
	if err := mediator.RegisterHandler[commands.CreateOrderCommand](m, commands.NewCreateOrderHandler(s.Orders, m)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[commands.UpdateOrderStatusCommand](m, commands.NewUpdateOrderStatusHandler(s.Orders)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[commands.CancelOrderCommand](m, commands.NewCancelOrderHandler(s.Orders, m)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[queries.GetOrderQuery](m, queries.NewGetOrderHandler(s.Orders)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[queries.ListOrdersQuery](m, queries.NewListOrdersHandler(s.Orders)); err != nil {
		return err
	}
	if err := mediator.RegisterStreamHandler[queries.ExportOrdersQuery](m, queries.NewExportOrdersHandler(s.Orders)); err != nil {
		return err
	}
	if err := mediator.RegisterNotificationHandler[notifications.OrderCreatedNotification](m, notifications.NewOrderConfirmationHandler(s.Email)); err != nil {
		return err
	}
	if err := mediator.RegisterNotificationHandler[notifications.OrderCreatedNotification](m, notifications.NewInventoryReservationHandler(s.Inventory)); err != nil {
		return err
	}
	return mediator.RegisterNotificationHandler[notifications.OrderCancelledNotification](m, notifications.NewCancellationAuditHandler(s.Audit))
}
