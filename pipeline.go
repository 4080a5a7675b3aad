package mediator

import (
	"context"
)

// HandlerFunc is the next-step continuation passed to request middleware.
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps request handler execution with cross-cutting concerns.
// Examples: logging, validation, metrics, rate limiting, circuit breakers.
//
// A middleware may run code before calling next, after, or both, and may
// short-circuit by not calling next at all. An error returned by a
// middleware aborts the remaining chain and the terminal handler, and
// propagates unmodified to the dispatch caller.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// NotificationHandlerChain is the next-step continuation passed to
// notification middleware.
type NotificationHandlerChain func(ctx context.Context, notification Notification) error

// NotificationMiddleware wraps the notification fan-out. The terminal step
// of a notification pipeline invokes every resolved handler and subscriber.
type NotificationMiddleware func(ctx context.Context, notification Notification, next NotificationHandlerChain) error

// buildRequestPipeline folds the applicable middleware around the terminal
// handler invocation, innermost last. Each descriptor's runtime condition
// is re-evaluated per dispatch: a statically applicable middleware whose
// condition rejects the value is skipped for that call only.
func buildRequestPipeline(descriptors []*descriptor, terminal HandlerFunc) HandlerFunc {
	next := terminal
	for i := len(descriptors) - 1; i >= 0; i-- {
		d := descriptors[i]
		inner := next
		next = func(ctx context.Context, request Request) (Response, error) {
			if d.condition != nil && !d.condition(request) {
				return inner(ctx, request)
			}
			return d.request(ctx, request, inner)
		}
	}
	return next
}

// buildNotificationPipeline is the fan-out counterpart of
// buildRequestPipeline.
func buildNotificationPipeline(descriptors []*descriptor, terminal NotificationHandlerChain) NotificationHandlerChain {
	next := terminal
	for i := len(descriptors) - 1; i >= 0; i-- {
		d := descriptors[i]
		inner := next
		next = func(ctx context.Context, notification Notification) error {
			if d.condition != nil && !d.condition(notification) {
				return inner(ctx, notification)
			}
			return d.notification(ctx, notification, inner)
		}
	}
	return next
}
