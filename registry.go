package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// ServiceResolver is the capability through which a surrounding dependency
// injection container supplies handler instances. Resolution is keyed by
// the concrete request or notification type. The mediator's built-in
// registry is always consulted first; resolver-supplied instances are
// considered in addition to directly registered ones.
type ServiceResolver interface {
	// Resolve returns a single instance for the given type, or an error
	// if none is available.
	Resolve(t reflect.Type) (any, error)

	// ResolveAll returns every instance registered for the given type.
	// An empty slice means none.
	ResolveAll(t reflect.Type) []any
}

// registry maps concrete request and notification types to registered
// handler instances. Registration happens at configuration time; dispatch
// only reads. Slices are kept per type so duplicate registrations stay
// visible and Send can detect ambiguity instead of silently picking one.
type registry struct {
	mu                   sync.RWMutex
	requestHandlers      map[reflect.Type][]RequestHandler
	streamHandlers       map[reflect.Type][]StreamHandler
	notificationHandlers map[reflect.Type][]NotificationHandler
}

func newRegistry() *registry {
	return &registry{
		requestHandlers:      make(map[reflect.Type][]RequestHandler),
		streamHandlers:       make(map[reflect.Type][]StreamHandler),
		notificationHandlers: make(map[reflect.Type][]NotificationHandler),
	}
}

func (r *registry) addRequestHandler(t reflect.Type, h RequestHandler) error {
	if t == nil {
		return fmt.Errorf("request type cannot be nil")
	}
	if h == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requestHandlers[t] = append(r.requestHandlers[t], h)
	return nil
}

func (r *registry) addStreamHandler(t reflect.Type, h StreamHandler) error {
	if t == nil {
		return fmt.Errorf("request type cannot be nil")
	}
	if h == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streamHandlers[t] = append(r.streamHandlers[t], h)
	return nil
}

func (r *registry) addNotificationHandler(t reflect.Type, h NotificationHandler) error {
	if t == nil {
		return fmt.Errorf("notification type cannot be nil")
	}
	if h == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notificationHandlers[t] = append(r.notificationHandlers[t], h)
	return nil
}

func (r *registry) requestHandlersFor(t reflect.Type) []RequestHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handlers := r.requestHandlers[t]
	out := make([]RequestHandler, len(handlers))
	copy(out, handlers)
	return out
}

func (r *registry) streamHandlersFor(t reflect.Type) []StreamHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handlers := r.streamHandlers[t]
	out := make([]StreamHandler, len(handlers))
	copy(out, handlers)
	return out
}

func (r *registry) notificationHandlersFor(t reflect.Type) []NotificationHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handlers := r.notificationHandlers[t]
	out := make([]NotificationHandler, len(handlers))
	copy(out, handlers)
	return out
}

// RegisterHandler registers a request handler for the request type T.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
//
// Example:
//
//	mediator.RegisterHandler[commands.CreateOrderCommand](m, createHandler)
func RegisterHandler[T Request](m *Mediator, handler RequestHandler) error {
	return m.registry.addRequestHandler(typeOf[T](), handler)
}

// RegisterHandlerFunc registers a handler function for the request type T.
func RegisterHandlerFunc[T Request](m *Mediator, fn func(ctx context.Context, request Request) (Response, error)) error {
	return RegisterHandler[T](m, RequestHandlerFunc(fn))
}

// RegisterStreamHandler registers a stream handler for the request type T.
func RegisterStreamHandler[T Request](m *Mediator, handler StreamHandler) error {
	return m.registry.addStreamHandler(typeOf[T](), handler)
}

// RegisterNotificationHandler registers a notification handler for the
// notification type T. Unlike request handlers, any number of handlers may
// be registered for the same notification type.
func RegisterNotificationHandler[T Notification](m *Mediator, handler NotificationHandler) error {
	return m.registry.addNotificationHandler(typeOf[T](), handler)
}
