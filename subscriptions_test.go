package mediator

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNote struct{}

// nopSubscriber carries an id so each instance has a distinct address;
// pointers to zero-size values may alias.
type nopSubscriber struct {
	id int
}

func (*nopSubscriber) Handle(ctx context.Context, notification Notification) error { return nil }

func TestSubscriptionRegistry_SnapshotIsStable(t *testing.T) {
	r := newSubscriptionRegistry()
	noteType := reflect.TypeOf(&testNote{})
	a, b := &nopSubscriber{id: 1}, &nopSubscriber{id: 2}

	r.add(noteType, a)
	r.add(noteType, b)
	snapshot := r.snapshot(noteType)

	// Mutations after the snapshot must not affect it.
	r.remove(noteType, a)
	r.remove(noteType, b)

	require.Len(t, snapshot, 2)
	assert.Equal(t, 0, r.count(noteType))
}

func TestSubscriptionRegistry_RemoveMiddleKeepsOrder(t *testing.T) {
	r := newSubscriptionRegistry()
	noteType := reflect.TypeOf(&testNote{})
	a, b, c := &nopSubscriber{id: 1}, &nopSubscriber{id: 2}, &nopSubscriber{id: 3}

	r.add(noteType, a)
	r.add(noteType, b)
	r.add(noteType, c)
	r.remove(noteType, b)

	snapshot := r.snapshot(noteType)
	require.Len(t, snapshot, 2)
	assert.Same(t, a, snapshot[0].(*nopSubscriber))
	assert.Same(t, c, snapshot[1].(*nopSubscriber))
}

func TestSubscriptionRegistry_FuncSubscribersByIdentity(t *testing.T) {
	r := newSubscriptionRegistry()
	noteType := reflect.TypeOf(&testNote{})

	fn := NotificationHandlerFunc(func(ctx context.Context, notification Notification) error {
		return nil
	})

	r.add(noteType, fn)
	assert.Equal(t, 1, r.count(noteType))

	r.remove(noteType, fn)
	assert.Equal(t, 0, r.count(noteType))
}

func TestSubscriptionRegistry_ConcurrentMutationDuringSnapshot(t *testing.T) {
	r := newSubscriptionRegistry()
	noteType := reflect.TypeOf(&testNote{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := &nopSubscriber{id: i}
			for j := 0; j < 200; j++ {
				r.add(noteType, s)
				_ = r.snapshot(noteType)
				r.remove(noteType, s)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.count(noteType))
}

func TestMatcher_CacheRebuiltAfterRegistration(t *testing.T) {
	m := newMatcher()
	nop := func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		return next(ctx, request)
	}
	reqType := reflect.TypeOf(&testNote{})

	require.NoError(t, m.add(&descriptor{request: nop}, ConstraintOptions{}, NopLogger{}))
	assert.Len(t, m.applicable(reqType), 1)

	// A later registration must invalidate the cached per-type list.
	require.NoError(t, m.add(&descriptor{request: nop}, ConstraintOptions{}, NopLogger{}))
	assert.Len(t, m.applicable(reqType), 2)
}
