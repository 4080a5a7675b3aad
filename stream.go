package mediator

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// SendStream dispatches a request to its single registered stream handler
// and returns a lazy sequence of response items.
//
// The middleware pipeline wraps the production of the sequence, not each
// item: middleware runs once, around obtaining the handler's channel.
// Items are forwarded to the caller as produced. Cancelling ctx stops the
// stream: the returned channel is closed and no further item is delivered,
// without requiring the consumer to drain the remainder of the sequence.
func (m *Mediator) SendStream(ctx context.Context, request Request) (<-chan StreamItem, error) {
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

	handler, err := m.resolveStreamHandler(requestType)
	if err != nil {
		m.recordCompletion(name, start, false)
		return nil, err
	}

	if m.logging.EnableStreamLogging {
		m.logger.Log(LevelDebug, "opening stream", map[string]any{"request": name})
	}

	pipeline := buildRequestPipeline(m.requestMiddleware.applicable(requestType), func(ctx context.Context, request Request) (Response, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return handler.Handle(ctx, request)
	})

	produced, err := streamFromPipeline(pipeline, ctx, request)
	if err != nil {
		m.recordCompletion(name, start, false)
		return nil, err
	}

	out := make(chan StreamItem)
	go m.forwardStream(ctx, name, start, produced, out)
	return out, nil
}

// resolveStreamHandler enforces the exactly-one invariant for SendStream.
func (m *Mediator) resolveStreamHandler(t reflect.Type) (StreamHandler, error) {
	handlers := m.registry.streamHandlersFor(t)
	if m.resolver != nil {
		for _, instance := range m.resolver.ResolveAll(t) {
			if h, ok := instance.(StreamHandler); ok {
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

// streamFromPipeline runs the production pipeline and recovers the item
// channel from the generic middleware response.
func streamFromPipeline(pipeline HandlerFunc, ctx context.Context, request Request) (<-chan StreamItem, error) {
	response, err := pipeline(ctx, request)
	if err != nil {
		return nil, err
	}
	switch produced := response.(type) {
	case <-chan StreamItem:
		return produced, nil
	case chan StreamItem:
		return produced, nil
	default:
		return nil, fmt.Errorf("stream pipeline produced %T, expected a StreamItem channel", response)
	}
}

// forwardStream copies items from the handler's channel to the consumer,
// cutting off on cancellation so the consumer never observes an item
// produced after ctx is done. Completion statistics are recorded when the
// stream ends.
func (m *Mediator) forwardStream(ctx context.Context, name string, start time.Time, produced <-chan StreamItem, out chan<- StreamItem) {
	defer close(out)

	failed := false
	for {
		select {
		case <-ctx.Done():
			m.recordCompletion(name, start, false)
			return
		case item, ok := <-produced:
			if !ok {
				m.recordCompletion(name, start, !failed)
				if m.logging.EnableStreamLogging {
					m.logger.Log(LevelDebug, "stream completed", map[string]any{"request": name})
				}
				return
			}
			if item.Err != nil {
				failed = true
			}
			select {
			case out <- item:
			case <-ctx.Done():
				m.recordCompletion(name, start, false)
				return
			}
		}
	}
}
