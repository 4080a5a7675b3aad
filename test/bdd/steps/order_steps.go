package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/application/common"
	"github.com/gragra33/blazing-mediator/internal/application/orders"
	"github.com/gragra33/blazing-mediator/internal/application/orders/commands"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
	"github.com/gragra33/blazing-mediator/test/helpers"
)

type orderContext struct {
	mediator  *mediator.Mediator
	orders    *helpers.MockOrderRepository
	email     *helpers.MockEmailSender
	inventory *helpers.MockInventoryService
	audit     *helpers.MockAuditLog

	currentOrderID int
	createdOrderID int
	err            error
}

func (ctx *orderContext) reset() error {
	ctx.mediator = mediator.New()
	ctx.orders = helpers.NewMockOrderRepository()
	ctx.email = &helpers.MockEmailSender{}
	ctx.inventory = &helpers.MockInventoryService{}
	ctx.audit = &helpers.MockAuditLog{}
	ctx.currentOrderID = 0
	ctx.createdOrderID = 0
	ctx.err = nil

	return orders.Register(ctx.mediator, orders.Services{
		Orders:    ctx.orders,
		Email:     ctx.email,
		Inventory: ctx.inventory,
		Audit:     ctx.audit,
	})
}

// Given steps

func (ctx *orderContext) anEmptyOrderStore() error {
	return nil
}

func (ctx *orderContext) anOrderInStatus(status string) error {
	parsed, err := order.ParseStatus(status)
	if err != nil {
		return err
	}
	o := &order.Order{
		Number:        "ORD-BDD",
		CustomerEmail: "customer@example.com",
		Total:         10,
		Status:        parsed,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	ctx.orders.AddOrder(o)
	ctx.currentOrderID = o.ID
	return nil
}

// When steps

func (ctx *orderContext) iCreateAnOrderFor(email string, total float64) error {
	result, err := mediator.Send[common.OperationResult[int]](context.Background(), ctx.mediator, commands.CreateOrderCommand{
		CustomerEmail: email,
		Total:         total,
	})
	ctx.err = err
	if err == nil {
		ctx.createdOrderID = result.Value
	}
	return nil
}

func (ctx *orderContext) iCancelTheOrderWithReason(reason string) error {
	_, err := ctx.mediator.Send(context.Background(), commands.CancelOrderCommand{
		OrderID: ctx.currentOrderID,
		Reason:  reason,
	})
	ctx.err = err
	return nil
}

// Then steps

func (ctx *orderContext) theOrderIsPersistedWithStatus(status string) error {
	if ctx.err != nil {
		return fmt.Errorf("create failed: %w", ctx.err)
	}
	o, err := ctx.orders.FindByID(context.Background(), ctx.createdOrderID)
	if err != nil {
		return err
	}
	if string(o.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, o.Status)
	}
	return nil
}

func (ctx *orderContext) aConfirmationEmailIsSentTo(to string) error {
	if len(ctx.email.Sent) != 1 {
		return fmt.Errorf("expected 1 email, got %d", len(ctx.email.Sent))
	}
	if ctx.email.Sent[0].To != to {
		return fmt.Errorf("expected email to %s, got %s", to, ctx.email.Sent[0].To)
	}
	return nil
}

func (ctx *orderContext) inventoryIsReservedForTheOrder() error {
	if len(ctx.inventory.Reserved) != 1 || ctx.inventory.Reserved[0] != ctx.createdOrderID {
		return fmt.Errorf("expected reservation for order %d, got %v", ctx.createdOrderID, ctx.inventory.Reserved)
	}
	return nil
}

func (ctx *orderContext) theOrderStatusIs(status string) error {
	o, err := ctx.orders.FindByID(context.Background(), ctx.currentOrderID)
	if err != nil {
		return err
	}
	if string(o.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, o.Status)
	}
	return nil
}

func (ctx *orderContext) anAuditRecordIsWritten(event string) error {
	if len(ctx.audit.Events) != 1 {
		return fmt.Errorf("expected 1 audit record, got %d", len(ctx.audit.Events))
	}
	if ctx.audit.Events[0].Event != event {
		return fmt.Errorf("expected event %s, got %s", event, ctx.audit.Events[0].Event)
	}
	return nil
}

func (ctx *orderContext) theCancellationFails() error {
	if ctx.err == nil {
		return fmt.Errorf("expected cancellation to fail")
	}
	return nil
}

func (ctx *orderContext) noAuditRecordIsWritten() error {
	if len(ctx.audit.Events) != 0 {
		return fmt.Errorf("expected no audit records, got %d", len(ctx.audit.Events))
	}
	return nil
}

// InitializeOrderScenario registers the order lifecycle step definitions
func InitializeOrderScenario(sc *godog.ScenarioContext) {
	ctx := &orderContext{}

	sc.Before(func(c context.Context, scenario *godog.Scenario) (context.Context, error) {
		return c, ctx.reset()
	})

	sc.Step(`^an empty order store$`, ctx.anEmptyOrderStore)
	sc.Step(`^an order in status "([^"]*)"$`, ctx.anOrderInStatus)
	sc.Step(`^I create an order for "([^"]*)" totalling (\d+\.\d+)$`, ctx.iCreateAnOrderFor)
	sc.Step(`^I cancel the order with reason "([^"]*)"$`, ctx.iCancelTheOrderWithReason)
	sc.Step(`^the order is persisted with status "([^"]*)"$`, ctx.theOrderIsPersistedWithStatus)
	sc.Step(`^a confirmation email is sent to "([^"]*)"$`, ctx.aConfirmationEmailIsSentTo)
	sc.Step(`^inventory is reserved for the order$`, ctx.inventoryIsReservedForTheOrder)
	sc.Step(`^the order status is "([^"]*)"$`, ctx.theOrderStatusIs)
	sc.Step(`^an audit record "([^"]*)" is written$`, ctx.anAuditRecordIsWritten)
	sc.Step(`^the cancellation fails$`, ctx.theCancellationFails)
	sc.Step(`^no audit record is written$`, ctx.noAuditRecordIsWritten)
}
