package mediator

import (
	"context"
	"reflect"
	"strings"
)

// Request represents a command or query dispatched to exactly one handler.
type Request any

// Response represents the result of handling a request.
type Response any

// Notification represents an event broadcast to zero or more processors.
type Notification any

// RequestHandler handles a specific request type and produces a response.
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// RequestHandlerFunc is a function adapter for RequestHandler.
type RequestHandlerFunc func(ctx context.Context, request Request) (Response, error)

// Handle implements the RequestHandler interface.
func (f RequestHandlerFunc) Handle(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}

// StreamItem is a single element produced by a stream handler. Exactly one
// of Value or Err is meaningful; an item with a non-nil Err reports a
// mid-stream failure.
type StreamItem struct {
	Value Response
	Err   error
}

// StreamHandler handles a request by producing a sequence of responses.
//
// The returned channel must be closed by the handler when production ends.
// Handlers must select on ctx.Done() between items so that consumers can
// cancel without draining the remainder of the sequence.
type StreamHandler interface {
	Handle(ctx context.Context, request Request) (<-chan StreamItem, error)
}

// StreamHandlerFunc is a function adapter for StreamHandler.
type StreamHandlerFunc func(ctx context.Context, request Request) (<-chan StreamItem, error)

// Handle implements the StreamHandler interface.
func (f StreamHandlerFunc) Handle(ctx context.Context, request Request) (<-chan StreamItem, error) {
	return f(ctx, request)
}

// NotificationHandler processes a published notification. Any number of
// handlers may be registered for the same notification type.
type NotificationHandler interface {
	Handle(ctx context.Context, notification Notification) error
}

// NotificationHandlerFunc is a function adapter for NotificationHandler.
type NotificationHandlerFunc func(ctx context.Context, notification Notification) error

// Handle implements the NotificationHandler interface.
func (f NotificationHandlerFunc) Handle(ctx context.Context, notification Notification) error {
	return f(ctx, notification)
}

// NotificationSubscriber is a manually registered, process-lifetime
// notification listener. Subscribers are tracked by identity, so the same
// instance passed to Subscribe must be passed to Unsubscribe.
type NotificationSubscriber interface {
	Handle(ctx context.Context, notification Notification) error
}

// Sender is the narrow dispatch capability consumed by callers that only
// send requests.
type Sender interface {
	Send(ctx context.Context, request Request) (Response, error)
}

// Publisher is the narrow dispatch capability consumed by callers that only
// publish notifications.
type Publisher interface {
	Publish(ctx context.Context, notification Notification) error
}

// StreamSender is the narrow dispatch capability for streaming requests.
type StreamSender interface {
	SendStream(ctx context.Context, request Request) (<-chan StreamItem, error)
}

// typeOf returns the reflect.Type for a type parameter without needing a
// constructed value.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypeName extracts a short, stable name for a request or notification
// value. Pointer prefixes and package qualifiers are stripped:
// "*commands.CreateOrderCommand" becomes "CreateOrderCommand". Statistics,
// logging, and metrics all key on this name.
func TypeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return typeNameOf(reflect.TypeOf(v))
}

func typeNameOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	full := strings.TrimPrefix(t.String(), "*")
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[i+1:]
	}
	return full
}
