package mediator_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediator "github.com/gragra33/blazing-mediator"
)

// Test fixtures

type PingQuery struct {
	Message string
}

type PongResponse struct {
	Message string
}

type pingHandler struct {
	calls int
	mu    sync.Mutex
}

func (h *pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*PingQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PingQuery")
	}
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return &PongResponse{Message: query.Message + " pong"}, nil
}

type GreetingNotification struct {
	Name string
}

type recordingProcessor struct {
	label string
	log   *callLog
	err   error
}

func (p *recordingProcessor) Handle(ctx context.Context, notification mediator.Notification) error {
	p.log.append(p.label)
	return p.err
}

type callLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *callLog) append(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.entries...)
}

func TestSend_InvokesRegisteredHandler(t *testing.T) {
	m := mediator.New()
	handler := &pingHandler{}
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, handler))

	response, err := m.Send(context.Background(), &PingQuery{Message: "ping"})

	require.NoError(t, err)
	pong, ok := response.(*PongResponse)
	require.True(t, ok)
	assert.Equal(t, "ping pong", pong.Message)
	assert.Equal(t, 1, handler.calls)
}

func TestSend_NoHandlerRegistered(t *testing.T) {
	m := mediator.New()

	_, err := m.Send(context.Background(), &PingQuery{})

	require.Error(t, err)
	assert.ErrorIs(t, err, mediator.ErrNoHandler)

	var noHandler *mediator.NoHandlerError
	require.ErrorAs(t, err, &noHandler)
	assert.Equal(t, reflect.TypeOf(&PingQuery{}), noHandler.RequestType)
}

func TestSend_MultipleHandlersAlwaysFails(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, &pingHandler{}))
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, &pingHandler{}))

	for i := 0; i < 5; i++ {
		_, err := m.Send(context.Background(), &PingQuery{})
		require.Error(t, err)
		assert.ErrorIs(t, err, mediator.ErrMultipleHandlers)

		var multiple *mediator.MultipleHandlersError
		require.ErrorAs(t, err, &multiple)
		assert.Equal(t, 2, multiple.Count)
	}
}

func TestSend_NilRequest(t *testing.T) {
	m := mediator.New()

	_, err := m.Send(context.Background(), nil)

	assert.ErrorIs(t, err, mediator.ErrInvalidRequest)
}

func TestSend_ResolvesByRuntimeType(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, &pingHandler{}))

	// The caller holds the request through an interface-typed variable;
	// resolution still finds the concrete type's handler.
	var request mediator.Request = &PingQuery{Message: "hidden"}
	response, err := m.Send(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, "hidden pong", response.(*PongResponse).Message)
}

func TestSend_TypedHelper(t *testing.T) {
	m := mediator.New()
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, &pingHandler{}))

	pong, err := mediator.Send[*PongResponse](context.Background(), m, &PingQuery{Message: "typed"})

	require.NoError(t, err)
	assert.Equal(t, "typed pong", pong.Message)
}

func TestSend_HandlerErrorPropagatesUnmodified(t *testing.T) {
	m := mediator.New()
	sentinel := errors.New("business failure")
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, mediator.RequestHandlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			return nil, sentinel
		})))

	_, err := m.Send(context.Background(), &PingQuery{})

	assert.Equal(t, sentinel, err)
}

func TestSend_CancelledContext(t *testing.T) {
	m := mediator.New()
	handler := &pingHandler{}
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, handler))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Send(ctx, &PingQuery{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, handler.calls)
}

func TestSend_LoggerFlowsThroughContext(t *testing.T) {
	logger := &capturingLogger{}
	m := mediator.New(mediator.WithLogger(logger))

	mediator.RegisterHandlerFunc[*PingQuery](m, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		mediator.LoggerFromContext(ctx).Log(mediator.LevelWarn, "from handler", nil)
		return &PongResponse{}, nil
	})

	_, err := m.Send(context.Background(), &PingQuery{})

	require.NoError(t, err)
	assert.Equal(t, []string{"from handler"}, logger.warnings)
}

func TestSend_ConcurrentDispatchIsDeterministic(t *testing.T) {
	m := mediator.New()
	handler := &pingHandler{}
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, handler))

	const callers = 16
	const perCaller = 50

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perCaller; j++ {
				_, err := m.Send(context.Background(), &PingQuery{Message: "ping"})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, callers*perCaller, handler.calls)
}

func TestPublish_ZeroProcessorsCompletes(t *testing.T) {
	m := mediator.New()

	err := m.Publish(context.Background(), &GreetingNotification{Name: "nobody"})

	assert.NoError(t, err)
}

func TestPublish_NilNotification(t *testing.T) {
	m := mediator.New()

	err := m.Publish(context.Background(), nil)

	assert.ErrorIs(t, err, mediator.ErrInvalidRequest)
}

func TestPublish_HandlersRunBeforeSubscribers(t *testing.T) {
	m := mediator.New()
	log := &callLog{}

	// Interleave registration so the ordering cannot be accidental.
	mediator.Subscribe[*GreetingNotification](m, &recordingProcessor{label: "subscriber-1", log: log})
	require.NoError(t, mediator.RegisterNotificationHandler[*GreetingNotification](m, &recordingProcessor{label: "handler-1", log: log}))
	mediator.Subscribe[*GreetingNotification](m, &recordingProcessor{label: "subscriber-2", log: log})
	require.NoError(t, mediator.RegisterNotificationHandler[*GreetingNotification](m, &recordingProcessor{label: "handler-2", log: log}))

	require.NoError(t, m.Publish(context.Background(), &GreetingNotification{}))

	assert.Equal(t, []string{"handler-1", "handler-2", "subscriber-1", "subscriber-2"}, log.all())
}

func TestPublish_SubscribeThenUnsubscribe(t *testing.T) {
	m := mediator.New()
	log := &callLog{}
	subscriber := &recordingProcessor{label: "s", log: log}

	mediator.Subscribe[*GreetingNotification](m, subscriber)
	require.NoError(t, m.Publish(context.Background(), &GreetingNotification{Name: "first"}))
	require.Len(t, log.all(), 1)

	mediator.Unsubscribe[*GreetingNotification](m, subscriber)
	require.NoError(t, m.Publish(context.Background(), &GreetingNotification{Name: "second"}))

	assert.Len(t, log.all(), 1, "unsubscribed listener must receive no further notifications")
}

func TestPublish_UnsubscribeUnknownIsNoOp(t *testing.T) {
	m := mediator.New()

	mediator.Unsubscribe[*GreetingNotification](m, &recordingProcessor{label: "never-subscribed", log: &callLog{}})

	assert.Equal(t, 0, m.SubscriberCount(reflect.TypeOf(&GreetingNotification{})))
}

func TestPublish_SubscribeIsIdempotentPerInstance(t *testing.T) {
	m := mediator.New()
	log := &callLog{}
	subscriber := &recordingProcessor{label: "s", log: log}

	mediator.Subscribe[*GreetingNotification](m, subscriber)
	mediator.Subscribe[*GreetingNotification](m, subscriber)

	require.NoError(t, m.Publish(context.Background(), &GreetingNotification{}))

	assert.Len(t, log.all(), 1, "double-subscribed instance must still receive exactly one call")
}

func TestPublish_FanOutRunsAllProcessorsAndJoinsErrors(t *testing.T) {
	m := mediator.New()
	log := &callLog{}
	firstErr := errors.New("first processor failed")
	lastErr := errors.New("last processor failed")

	require.NoError(t, mediator.RegisterNotificationHandler[*GreetingNotification](m, &recordingProcessor{label: "a", log: log, err: firstErr}))
	require.NoError(t, mediator.RegisterNotificationHandler[*GreetingNotification](m, &recordingProcessor{label: "b", log: log}))
	require.NoError(t, mediator.RegisterNotificationHandler[*GreetingNotification](m, &recordingProcessor{label: "c", log: log, err: lastErr}))

	err := m.Publish(context.Background(), &GreetingNotification{})

	require.Error(t, err)
	assert.ErrorIs(t, err, firstErr)
	assert.ErrorIs(t, err, lastErr)
	assert.Equal(t, []string{"a", "b", "c"}, log.all(), "a failing processor must not prevent the rest from running")
}

// stubResolver supplies handler instances the way a DI container would.
type stubResolver struct {
	instances map[reflect.Type][]any
}

func (r *stubResolver) Resolve(t reflect.Type) (any, error) {
	all := r.instances[t]
	if len(all) == 0 {
		return nil, fmt.Errorf("no instance for %s", t)
	}
	return all[0], nil
}

func (r *stubResolver) ResolveAll(t reflect.Type) []any {
	return r.instances[t]
}

func TestSend_ResolverSuppliedHandler(t *testing.T) {
	handler := &pingHandler{}
	resolver := &stubResolver{instances: map[reflect.Type][]any{
		reflect.TypeOf(&PingQuery{}): {handler},
	}}
	m := mediator.New(mediator.WithResolver(resolver))

	_, err := m.Send(context.Background(), &PingQuery{Message: "di"})

	require.NoError(t, err)
	assert.Equal(t, 1, handler.calls)
}

func TestSend_AmbiguityAcrossRegistryAndResolver(t *testing.T) {
	resolver := &stubResolver{instances: map[reflect.Type][]any{
		reflect.TypeOf(&PingQuery{}): {&pingHandler{}},
	}}
	m := mediator.New(mediator.WithResolver(resolver))
	require.NoError(t, mediator.RegisterHandler[*PingQuery](m, &pingHandler{}))

	_, err := m.Send(context.Background(), &PingQuery{})

	assert.ErrorIs(t, err, mediator.ErrMultipleHandlers)
}
