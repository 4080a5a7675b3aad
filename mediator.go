package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// Mediator dispatches requests to their handlers and broadcasts
// notifications to handlers and subscribers, running each dispatch through
// the applicable middleware pipeline.
//
// A Mediator is safe for concurrent use. Handler and middleware
// registration is expected at configuration time; Subscribe and Unsubscribe
// may be called at any point.
type Mediator struct {
	registry      *registry
	subscriptions *subscriptionRegistry

	requestMiddleware      *matcher
	notificationMiddleware *matcher

	resolver    ServiceResolver
	logger      Logger
	logging     LoggingOptions
	statistics  StatisticsCollector
	constraints ConstraintOptions
}

// New creates a mediator instance.
func New(opts ...Option) *Mediator {
	m := &Mediator{
		registry:               newRegistry(),
		subscriptions:          newSubscriptionRegistry(),
		requestMiddleware:      newMatcher(),
		notificationMiddleware: newMatcher(),
		logger:                 NopLogger{},
		constraints:            ConstraintOptions{MaxConstraints: defaultMaxConstraints},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Use registers a request middleware. Order and type constraints come from
// the options; constraint validation runs eagerly here.
func (m *Mediator) Use(mw Middleware, opts ...MiddlewareOption) error {
	if mw == nil {
		return fmt.Errorf("middleware cannot be nil")
	}
	d := &descriptor{request: mw}
	for _, opt := range opts {
		opt(d)
	}
	return m.requestMiddleware.add(d, m.constraints, m.logger)
}

// UseNotification registers a notification middleware wrapping the Publish
// fan-out.
func (m *Mediator) UseNotification(mw NotificationMiddleware, opts ...MiddlewareOption) error {
	if mw == nil {
		return fmt.Errorf("middleware cannot be nil")
	}
	d := &descriptor{notification: mw}
	for _, opt := range opts {
		opt(d)
	}
	return m.notificationMiddleware.add(d, m.constraints, m.logger)
}

// Send dispatches a request to its single registered handler and returns
// the handler's response.
//
// Resolution is by the exact runtime type of the request value. Zero
// handlers yield a NoHandlerError, more than one a MultipleHandlersError;
// dispatch never silently picks among ambiguous handlers. Handler and
// middleware errors propagate unmodified. Context cancellation is checked
// before resolution and before handler invocation; in-flight synchronous
// code is never forcibly aborted.
func (m *Mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = ContextWithLogger(ctx, m.logger)

	requestType := reflect.TypeOf(request)
	name := typeNameOf(requestType)
	if m.statistics != nil {
		m.statistics.RecordStart(name)
	}
	start := time.Now()

	handler, err := m.resolveRequestHandler(requestType)
	if err != nil {
		m.recordCompletion(name, start, false)
		return nil, err
	}

	if m.logging.EnableSendLogging {
		m.logger.Log(LevelDebug, "sending request", map[string]any{"request": name})
	}

	pipeline := buildRequestPipeline(m.requestMiddleware.applicable(requestType), func(ctx context.Context, request Request) (Response, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return handler.Handle(ctx, request)
	})

	response, err := pipeline(ctx, request)
	m.recordCompletion(name, start, err == nil)
	m.logSendResult(name, start, err)
	return response, err
}

// Publish broadcasts a notification to every registered notification
// handler and every manual subscriber.
//
// Processor ordering is fixed: handlers first, in registration order, then
// subscribers, in subscription order. Zero processors is not an error; the
// pipeline still runs so middleware observes the publication.
//
// Failure policy: every processor runs regardless of individual failures,
// and the errors of those that failed are joined into the returned error.
func (m *Mediator) Publish(ctx context.Context, notification Notification) error {
	if notification == nil {
		return ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = ContextWithLogger(ctx, m.logger)

	notificationType := reflect.TypeOf(notification)
	name := typeNameOf(notificationType)
	if m.statistics != nil {
		m.statistics.RecordStart(name)
	}
	start := time.Now()

	processors := m.resolveNotificationProcessors(notificationType)
	if m.logging.EnablePublishLogging {
		m.logger.Log(LevelDebug, "publishing notification", map[string]any{
			"notification": name,
			"processors":   len(processors),
		})
	}

	pipeline := buildNotificationPipeline(m.notificationMiddleware.applicable(notificationType), func(ctx context.Context, notification Notification) error {
		var errs []error
		for _, p := range processors {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			if err := p.Handle(ctx, notification); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	err := pipeline(ctx, notification)
	m.recordCompletion(name, start, err == nil)
	m.logPublishResult(name, start, err)
	return err
}

// Subscribe adds a manual subscriber for the given notification type.
// Subscribing an already-subscribed instance is a no-op.
func (m *Mediator) Subscribe(notificationType reflect.Type, subscriber NotificationSubscriber) {
	m.subscriptions.add(notificationType, subscriber)
}

// Unsubscribe removes a manual subscriber. Unsubscribing an instance that
// is not subscribed is a no-op, not an error.
func (m *Mediator) Unsubscribe(notificationType reflect.Type, subscriber NotificationSubscriber) {
	m.subscriptions.remove(notificationType, subscriber)
}

// SubscriberCount returns the number of manual subscribers for a
// notification type. Useful for tests and monitoring.
func (m *Mediator) SubscriberCount(notificationType reflect.Type) int {
	return m.subscriptions.count(notificationType)
}

// resolveRequestHandler enforces the exactly-one invariant for Send.
func (m *Mediator) resolveRequestHandler(t reflect.Type) (RequestHandler, error) {
	handlers := m.registry.requestHandlersFor(t)
	if m.resolver != nil {
		for _, instance := range m.resolver.ResolveAll(t) {
			if h, ok := instance.(RequestHandler); ok {
				handlers = append(handlers, h)
			}
		}
	}
	switch len(handlers) {
	case 0:
		return nil, &NoHandlerError{RequestType: t}
	case 1:
		return handlers[0], nil
	default:
		return nil, &MultipleHandlersError{RequestType: t, Count: len(handlers)}
	}
}

// resolveNotificationProcessors returns handlers in registration order
// followed by manual subscribers in subscription order.
func (m *Mediator) resolveNotificationProcessors(t reflect.Type) []NotificationHandler {
	handlers := m.registry.notificationHandlersFor(t)
	if m.resolver != nil {
		for _, instance := range m.resolver.ResolveAll(t) {
			if h, ok := instance.(NotificationHandler); ok {
				handlers = append(handlers, h)
			}
		}
	}
	for _, s := range m.subscriptions.snapshot(t) {
		handlers = append(handlers, NotificationHandler(s))
	}
	return handlers
}

func (m *Mediator) recordCompletion(name string, start time.Time, success bool) {
	if m.statistics == nil {
		return
	}
	m.statistics.RecordCompletion(name, time.Since(start), success)
}

func (m *Mediator) logSendResult(name string, start time.Time, err error) {
	if !m.logging.EnableSendLogging {
		return
	}
	metadata := map[string]any{"request": name, "success": err == nil}
	if m.logging.EnablePerformanceTiming {
		metadata["elapsed"] = time.Since(start).String()
	}
	m.logger.Log(LevelDebug, "request completed", metadata)
}

func (m *Mediator) logPublishResult(name string, start time.Time, err error) {
	if !m.logging.EnablePublishLogging {
		return
	}
	metadata := map[string]any{"notification": name, "success": err == nil}
	if m.logging.EnablePerformanceTiming {
		metadata["elapsed"] = time.Since(start).String()
	}
	m.logger.Log(LevelDebug, "notification published", metadata)
}

// Send dispatches a request and asserts the response to TResponse.
//
// Example:
//
//	result, err := mediator.Send[common.OperationResult[int]](ctx, m, cmd)
func Send[TResponse Response](ctx context.Context, sender Sender, request Request) (TResponse, error) {
	var zero TResponse
	response, err := sender.Send(ctx, request)
	if err != nil {
		return zero, err
	}
	if response == nil {
		return zero, nil
	}
	typed, ok := response.(TResponse)
	if !ok {
		return zero, fmt.Errorf("unexpected response type %T for request %s", response, TypeName(request))
	}
	return typed, nil
}

// Subscribe adds a manual subscriber for the notification type T.
func Subscribe[T Notification](m *Mediator, subscriber NotificationSubscriber) {
	m.Subscribe(typeOf[T](), subscriber)
}

// Unsubscribe removes a manual subscriber for the notification type T.
func Unsubscribe[T Notification](m *Mediator, subscriber NotificationSubscriber) {
	m.Unsubscribe(typeOf[T](), subscriber)
}
