package orders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/application/common"
	"github.com/gragra33/blazing-mediator/internal/application/orders"
	"github.com/gragra33/blazing-mediator/internal/application/orders/commands"
	"github.com/gragra33/blazing-mediator/internal/application/orders/queries"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
	"github.com/gragra33/blazing-mediator/test/helpers"
)

type fixture struct {
	mediator  *mediator.Mediator
	orders    *helpers.MockOrderRepository
	email     *helpers.MockEmailSender
	inventory *helpers.MockInventoryService
	audit     *helpers.MockAuditLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		mediator:  mediator.New(),
		orders:    helpers.NewMockOrderRepository(),
		email:     &helpers.MockEmailSender{},
		inventory: &helpers.MockInventoryService{},
		audit:     &helpers.MockAuditLog{},
	}
	err := orders.Register(f.mediator, orders.Services{
		Orders:    f.orders,
		Email:     f.email,
		Inventory: f.inventory,
		Audit:     f.audit,
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) seedOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	o := &order.Order{
		Number:        "ORD-SEED",
		CustomerEmail: "customer@example.com",
		Total:         50,
		Status:        status,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.orders.AddOrder(o)
	return o
}

func TestCreateOrder_PersistsAndNotifies(t *testing.T) {
	f := newFixture(t)

	result, err := mediator.Send[common.OperationResult[int]](context.Background(), f.mediator, commands.CreateOrderCommand{
		CustomerEmail: "buyer@example.com",
		Total:         120.00,
	})
	require.NoError(t, err)
	require.NotZero(t, result.Value)

	saved, err := f.orders.FindByID(context.Background(), result.Value)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, saved.Status)
	assert.NotEmpty(t, saved.Number)

	// Both reactions to OrderCreatedNotification ran
	require.Len(t, f.email.Sent, 1)
	assert.Equal(t, "buyer@example.com", f.email.Sent[0].To)
	assert.Equal(t, []int{result.Value}, f.inventory.Reserved)
}

func TestCreateOrder_SaveFailureSkipsNotifications(t *testing.T) {
	f := newFixture(t)
	f.orders.SaveErr = errors.New("disk full")

	_, err := f.mediator.Send(context.Background(), commands.CreateOrderCommand{
		CustomerEmail: "buyer@example.com",
		Total:         10,
	})
	require.Error(t, err)
	assert.Empty(t, f.email.Sent)
	assert.Empty(t, f.inventory.Reserved)
}

func TestCreateOrder_NotificationFailureSurfacesButAllProcessorsRun(t *testing.T) {
	f := newFixture(t)
	emailErr := errors.New("smtp down")
	f.email.Fail = emailErr

	_, err := f.mediator.Send(context.Background(), commands.CreateOrderCommand{
		CustomerEmail: "buyer@example.com",
		Total:         10,
	})
	require.ErrorIs(t, err, emailErr)

	// The failing email handler did not stop inventory reservation
	assert.Len(t, f.inventory.Reserved, 1)
}

func TestUpdateOrderStatus_ValidTransition(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, order.StatusPending)

	_, err := f.mediator.Send(context.Background(), commands.UpdateOrderStatusCommand{
		OrderID: o.ID,
		Status:  order.StatusPaid,
	})
	require.NoError(t, err)

	updated, err := f.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, updated.Status)
}

func TestUpdateOrderStatus_RejectsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, order.StatusDelivered)

	_, err := f.mediator.Send(context.Background(), commands.UpdateOrderStatusCommand{
		OrderID: o.ID,
		Status:  order.StatusPaid,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot move")
}

func TestCancelOrder_AuditsCancellation(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, order.StatusPending)

	_, err := f.mediator.Send(context.Background(), commands.CancelOrderCommand{
		OrderID: o.ID,
		Reason:  "customer request",
	})
	require.NoError(t, err)

	cancelled, err := f.orders.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)

	require.Len(t, f.audit.Events, 1)
	assert.Equal(t, "order.cancelled", f.audit.Events[0].Event)
	assert.Equal(t, "customer request", f.audit.Events[0].Metadata["reason"])
}

func TestCancelOrder_TerminalOrderRejected(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, order.StatusDelivered)

	_, err := f.mediator.Send(context.Background(), commands.CancelOrderCommand{
		OrderID: o.ID,
		Reason:  "too late",
	})
	require.Error(t, err)
	assert.Empty(t, f.audit.Events)
}

func TestGetOrder_ReturnsEntityOrNotFound(t *testing.T) {
	f := newFixture(t)
	o := f.seedOrder(t, order.StatusPending)

	found, err := mediator.Send[*order.Order](context.Background(), f.mediator, queries.GetOrderQuery{OrderID: o.ID})
	require.NoError(t, err)
	assert.Equal(t, o.Number, found.Number)

	_, err = f.mediator.Send(context.Background(), queries.GetOrderQuery{OrderID: 999})
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestListOrders_AppliesPagingDefaults(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.seedOrder(t, order.StatusPending)
	}

	page, err := mediator.Send[*queries.ListOrdersResponse](context.Background(), f.mediator, queries.ListOrdersQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 25, page.PageSize)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Orders, 3)
}

func TestListOrders_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, order.StatusPending)
	f.seedOrder(t, order.StatusShipped)

	page, err := mediator.Send[*queries.ListOrdersResponse](context.Background(), f.mediator, queries.ListOrdersQuery{
		Status: order.StatusShipped,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, order.StatusShipped, page.Orders[0].Status)
}

func TestExportOrders_StreamsEveryOrder(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.seedOrder(t, order.StatusPending)
	}

	stream, err := f.mediator.SendStream(context.Background(), queries.ExportOrdersQuery{})
	require.NoError(t, err)

	var seen int
	for item := range stream {
		require.NoError(t, item.Err)
		_, ok := item.Value.(*order.Order)
		require.True(t, ok)
		seen++
	}
	assert.Equal(t, 5, seen)
}

func TestExportOrders_CancellationStopsStream(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 50; i++ {
		f.seedOrder(t, order.StatusPending)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := f.mediator.SendStream(ctx, queries.ExportOrdersQuery{})
	require.NoError(t, err)

	<-stream
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-stream:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after cancellation")
		}
	}
}
