package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cucumber/godog"

	mediator "github.com/gragra33/blazing-mediator"
)

type probeRequest struct{}

type probeNotification struct{}

type dispatchContext struct {
	mediator *mediator.Mediator
	observed atomic.Int64
	err      error
}

func (ctx *dispatchContext) reset() {
	ctx.mediator = nil
	ctx.observed.Store(0)
	ctx.err = nil
}

// Given steps

func (ctx *dispatchContext) aMediatorWithNoHandler() error {
	ctx.mediator = mediator.New()
	return nil
}

func (ctx *dispatchContext) aMediatorWithNotificationMiddlewareAndNoSubscribers() error {
	ctx.mediator = mediator.New()
	return ctx.mediator.UseNotification(func(c context.Context, n mediator.Notification, next mediator.NotificationHandlerChain) error {
		ctx.observed.Add(1)
		return next(c, n)
	})
}

// When steps

func (ctx *dispatchContext) iSendTheProbeRequest() error {
	_, err := ctx.mediator.Send(context.Background(), probeRequest{})
	ctx.err = err
	return nil
}

func (ctx *dispatchContext) iPublishAProbeNotification() error {
	ctx.err = ctx.mediator.Publish(context.Background(), probeNotification{})
	return nil
}

// Then steps

func (ctx *dispatchContext) dispatchFailsWithMissingHandlerError() error {
	if ctx.err == nil {
		return fmt.Errorf("expected dispatch to fail")
	}
	if !errors.Is(ctx.err, mediator.ErrNoHandler) {
		return fmt.Errorf("expected a missing handler error, got: %v", ctx.err)
	}
	if !strings.Contains(ctx.err.Error(), "probeRequest") {
		return fmt.Errorf("error does not name the request type: %v", ctx.err)
	}
	return nil
}

func (ctx *dispatchContext) thePublishSucceeds() error {
	if ctx.err != nil {
		return fmt.Errorf("publish failed: %w", ctx.err)
	}
	return nil
}

func (ctx *dispatchContext) theNotificationMiddlewareObservedTheNotification() error {
	if got := ctx.observed.Load(); got != 1 {
		return fmt.Errorf("expected middleware to run once, ran %d times", got)
	}
	return nil
}

// InitializeDispatchScenario registers the dispatch guarantee step definitions
func InitializeDispatchScenario(sc *godog.ScenarioContext) {
	ctx := &dispatchContext{}

	sc.Before(func(c context.Context, scenario *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a mediator with no handler for the probe request$`, ctx.aMediatorWithNoHandler)
	sc.Step(`^a mediator with notification middleware and no subscribers$`, ctx.aMediatorWithNotificationMiddlewareAndNoSubscribers)
	sc.Step(`^I send the probe request$`, ctx.iSendTheProbeRequest)
	sc.Step(`^I publish a probe notification$`, ctx.iPublishAProbeNotification)
	sc.Step(`^dispatch fails with a missing handler error naming the request type$`, ctx.dispatchFailsWithMissingHandlerError)
	sc.Step(`^the publish succeeds$`, ctx.thePublishSucceeds)
	sc.Step(`^the notification middleware observed the notification$`, ctx.theNotificationMiddlewareObservedTheNotification)
}
