package mediator

import "time"

// LoggingOptions holds the boolean toggles that gate dispatch logging.
// All toggles default to off; a configured Logger with every toggle off
// receives no calls.
type LoggingOptions struct {
	// EnableSendLogging logs handler resolution and completion for Send.
	EnableSendLogging bool

	// EnablePublishLogging logs processor fan-out for Publish.
	EnablePublishLogging bool

	// EnableStreamLogging logs stream pipeline creation for SendStream.
	EnableStreamLogging bool

	// EnablePerformanceTiming attaches elapsed time to completion logs.
	EnablePerformanceTiming bool
}

// ConstraintStrictness controls how constraint validation failures at
// middleware registration time are treated.
type ConstraintStrictness int

const (
	// StrictnessStrict rejects the registration with a ConstraintError.
	StrictnessStrict ConstraintStrictness = iota

	// StrictnessLenient keeps the registration but drops the offending
	// constraint and logs a warning.
	StrictnessLenient

	// StrictnessDisabled skips constraint validation entirely.
	StrictnessDisabled
)

// ConstraintOptions configures middleware constraint validation.
type ConstraintOptions struct {
	// Strictness decides whether a bad constraint fails registration,
	// degrades it, or is ignored.
	Strictness ConstraintStrictness

	// MaxConstraints caps the number of type constraints a single
	// middleware registration may declare. Zero means the default.
	MaxConstraints int
}

const defaultMaxConstraints = 8

// StatisticsCollector is the side-channel observer consulted around every
// dispatch. Implementations must be safe for unbounded concurrent callers.
// statistics.Tracker satisfies this interface.
type StatisticsCollector interface {
	RecordStart(typeName string)
	RecordCompletion(typeName string, duration time.Duration, success bool)
}

// Option configures a Mediator at construction time.
type Option func(*Mediator)

// WithLogger sets the logger used for dispatch logging.
func WithLogger(logger Logger) Option {
	return func(m *Mediator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLogging sets the boolean toggles that gate dispatch logging.
func WithLogging(opts LoggingOptions) Option {
	return func(m *Mediator) {
		m.logging = opts
	}
}

// WithStatistics attaches a statistics collector observing every dispatch.
func WithStatistics(collector StatisticsCollector) Option {
	return func(m *Mediator) {
		m.statistics = collector
	}
}

// WithResolver attaches an external service resolver. Handlers supplied by
// the resolver are considered in addition to directly registered ones.
func WithResolver(resolver ServiceResolver) Option {
	return func(m *Mediator) {
		m.resolver = resolver
	}
}

// WithConstraintOptions sets constraint validation behavior. Validation
// runs eagerly at registration time, never during dispatch.
func WithConstraintOptions(opts ConstraintOptions) Option {
	return func(m *Mediator) {
		if opts.MaxConstraints <= 0 {
			opts.MaxConstraints = defaultMaxConstraints
		}
		m.constraints = opts
	}
}
