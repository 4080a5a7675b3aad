package mediator

import (
	"reflect"
	"sync"
)

// subscriptionRegistry tracks manually subscribed notification listeners.
// It is owned by a single Mediator instance, not ambient global state.
//
// Publish reads a snapshot so that a subscribe or unsubscribe in flight
// never mutates a fan-out that has already started. Subscribers are tracked
// by identity: subscribing an already-subscribed instance is a no-op, as is
// unsubscribing an instance that was never subscribed.
type subscriptionRegistry struct {
	mu          sync.RWMutex
	subscribers map[reflect.Type][]NotificationSubscriber
}

func newSubscriptionRegistry() *subscriptionRegistry {
	return &subscriptionRegistry{
		subscribers: make(map[reflect.Type][]NotificationSubscriber),
	}
}

func (r *subscriptionRegistry) add(t reflect.Type, s NotificationSubscriber) {
	if t == nil || s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subscribers[t] {
		if sameSubscriber(existing, s) {
			return
		}
	}
	r.subscribers[t] = append(r.subscribers[t], s)
}

func (r *subscriptionRegistry) remove(t reflect.Type, s NotificationSubscriber) {
	if t == nil || s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := r.subscribers[t]
	for i, existing := range subs {
		if sameSubscriber(existing, s) {
			// Copy-on-write: publishes holding an older snapshot keep it.
			replacement := make([]NotificationSubscriber, 0, len(subs)-1)
			replacement = append(replacement, subs[:i]...)
			replacement = append(replacement, subs[i+1:]...)
			if len(replacement) == 0 {
				delete(r.subscribers, t)
			} else {
				r.subscribers[t] = replacement
			}
			return
		}
	}
}

// snapshot returns the subscribers for the given notification type in
// subscription order. The returned slice is never mutated afterwards.
func (r *subscriptionRegistry) snapshot(t reflect.Type) []NotificationSubscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := r.subscribers[t]
	out := make([]NotificationSubscriber, len(subs))
	copy(out, subs)
	return out
}

func (r *subscriptionRegistry) count(t reflect.Type) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers[t])
}

// sameSubscriber compares subscribers by identity without panicking on
// incomparable dynamic types (such as function adapters).
func sameSubscriber(a, b NotificationSubscriber) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
			return va.Pointer() == vb.Pointer()
		}
		return false
	}
	return a == b
}
