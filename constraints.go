package mediator

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// descriptor is the immutable registration record for one middleware.
type descriptor struct {
	request      Middleware
	notification NotificationMiddleware

	// order sorts ascending; ties broken by seq (registration sequence),
	// so re-running with the same registration set always yields the same
	// pipeline order.
	order int
	seq   int

	// constraints restrict applicability to concrete types assignable to
	// at least one of these interface types. Empty means unconstrained.
	constraints []reflect.Type

	// condition is a runtime predicate evaluated per dispatched value,
	// after static applicability has already passed.
	condition func(value any) bool
}

// MiddlewareOption configures a middleware registration.
type MiddlewareOption func(*descriptor)

// WithOrder sets the middleware's numeric order. Lower runs first; equal
// orders keep registration order. The default order is zero.
func WithOrder(order int) MiddlewareOption {
	return func(d *descriptor) {
		d.order = order
	}
}

// AppliesTo constrains a middleware to requests or notifications whose
// concrete type implements the interface C. Covariant: types implementing
// C transitively through another interface also match. Multiple AppliesTo
// options are OR-ed, and a descriptor matching through several constraints
// still runs once.
func AppliesTo[C any]() MiddlewareOption {
	t := typeOf[C]()
	return func(d *descriptor) {
		d.constraints = append(d.constraints, t)
	}
}

// When attaches a runtime predicate evaluated against each dispatched
// value after static applicability passes. Returning false skips the
// middleware for that dispatch only.
func When(predicate func(value any) bool) MiddlewareOption {
	return func(d *descriptor) {
		d.condition = predicate
	}
}

// matcher holds the registered middleware descriptors for one pipeline
// kind (request or notification) and decides per-concrete-type
// applicability. Applicability lists are computed once per type and cached;
// correctness does not depend on the cache.
type matcher struct {
	mu          sync.Mutex
	descriptors []*descriptor
	nextSeq     int

	cache sync.Map // reflect.Type -> []*descriptor
}

func newMatcher() *matcher {
	return &matcher{}
}

// add validates and stores a descriptor. Validation runs eagerly here so a
// misconfigured constraint surfaces at startup rather than on the first
// dispatch of a matching type.
func (m *matcher) add(d *descriptor, opts ConstraintOptions, logger Logger) error {
	if opts.MaxConstraints <= 0 {
		opts.MaxConstraints = defaultMaxConstraints
	}

	if opts.Strictness != StrictnessDisabled {
		if len(d.constraints) > opts.MaxConstraints {
			err := &ConstraintError{
				Reason: fmt.Sprintf("%d constraints exceed the configured maximum of %d", len(d.constraints), opts.MaxConstraints),
			}
			if opts.Strictness == StrictnessStrict {
				return err
			}
			logger.Log(LevelWarn, "middleware constraints truncated", map[string]any{
				"declared": len(d.constraints),
				"max":      opts.MaxConstraints,
			})
			d.constraints = d.constraints[:opts.MaxConstraints]
		}

		kept := d.constraints[:0]
		for _, c := range d.constraints {
			if c.Kind() == reflect.Interface {
				kept = append(kept, c)
				continue
			}
			err := &ConstraintError{Constraint: c, Reason: "constraint must be an interface type"}
			if opts.Strictness == StrictnessStrict {
				return err
			}
			logger.Log(LevelWarn, "middleware constraint dropped", map[string]any{
				"constraint": c.String(),
			})
		}
		d.constraints = kept
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	d.seq = m.nextSeq
	m.nextSeq++
	m.descriptors = append(m.descriptors, d)

	// Drop any per-type lists computed before this registration.
	m.cache.Range(func(key, _ any) bool {
		m.cache.Delete(key)
		return true
	})
	return nil
}

// applicable returns the ordered middleware chain for the given concrete
// type.
func (m *matcher) applicable(t reflect.Type) []*descriptor {
	if cached, ok := m.cache.Load(t); ok {
		return cached.([]*descriptor)
	}

	m.mu.Lock()
	descriptors := make([]*descriptor, len(m.descriptors))
	copy(descriptors, m.descriptors)
	m.mu.Unlock()

	matched := make([]*descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if m.matches(d, t) {
			matched = append(matched, d)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].order != matched[j].order {
			return matched[i].order < matched[j].order
		}
		return matched[i].seq < matched[j].seq
	})

	m.cache.Store(t, matched)
	return matched
}

// matches reports static applicability: unconstrained descriptors always
// apply; constrained ones apply iff the concrete type (or its pointer)
// implements at least one declared interface. A descriptor satisfied by
// several constraints matches exactly once.
func (m *matcher) matches(d *descriptor, t reflect.Type) bool {
	if len(d.constraints) == 0 {
		return true
	}
	for _, c := range d.constraints {
		if implementsConstraint(t, c) {
			return true
		}
	}
	return false
}

func implementsConstraint(concrete, constraint reflect.Type) bool {
	if constraint.Kind() != reflect.Interface {
		return concrete.AssignableTo(constraint)
	}
	if concrete.Implements(constraint) {
		return true
	}
	// A value registered by value type may implement the interface through
	// pointer receivers.
	if concrete.Kind() != reflect.Pointer && reflect.PointerTo(concrete).Implements(constraint) {
		return true
	}
	return false
}
