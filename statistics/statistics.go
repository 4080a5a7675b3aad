// Package statistics tracks per-type execution aggregates for mediator
// dispatch. The tracker is the one structure in the library under sustained
// high-frequency concurrent write, so every counter is atomic: a naive
// read-modify-write here would silently lose counts under load.
package statistics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Options configures a Tracker.
type Options struct {
	// RetentionWindow is how long an idle entry survives before the
	// cleanup sweep evicts it. Zero means the default of one hour.
	RetentionWindow time.Duration

	// CleanupInterval is the period of the background cleanup sweep.
	// Zero disables the background sweep; Cleanup can still be called
	// manually.
	CleanupInterval time.Duration

	// DetailedTracking keeps a bounded window of recent execution
	// timestamps per entry, reported by Analyze(detailed=true).
	DetailedTracking bool

	// MaxRecentSamples bounds the per-entry timestamp window when
	// DetailedTracking is on. Zero means the default of 64.
	MaxRecentSamples int
}

const (
	defaultRetentionWindow  = time.Hour
	defaultMaxRecentSamples = 64
)

// Tracker aggregates execution counters keyed by request or notification
// type name. Safe for unbounded concurrent callers.
type Tracker struct {
	entries sync.Map // string -> *entry
	opts    Options

	stop     chan struct{}
	stopOnce sync.Once
}

// entry holds the aggregate for one type name. Counters are atomic;
// the recent-timestamp window has its own mutex and never blocks the
// counter hot path.
type entry struct {
	executions    atomic.Int64
	successes     atomic.Int64
	failures      atomic.Int64
	totalDuration atomic.Int64 // nanoseconds
	lastSeen      atomic.Int64 // unix nanoseconds

	mu     sync.Mutex
	recent []time.Time
}

// NewTracker creates a tracker and, when CleanupInterval is set, starts
// the background cleanup sweep. Call Stop at shutdown to cancel the sweep.
func NewTracker(opts Options) *Tracker {
	if opts.RetentionWindow <= 0 {
		opts.RetentionWindow = defaultRetentionWindow
	}
	if opts.MaxRecentSamples <= 0 {
		opts.MaxRecentSamples = defaultMaxRecentSamples
	}
	t := &Tracker{
		opts: opts,
		stop: make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go t.runCleanup(opts.CleanupInterval)
	}
	return t
}

// RecordStart records that a dispatch of the named type began. Entries are
// created lazily on first sight of a type name.
func (t *Tracker) RecordStart(typeName string) {
	e := t.entryFor(typeName)
	e.executions.Add(1)
	now := time.Now()
	e.lastSeen.Store(now.UnixNano())

	if t.opts.DetailedTracking {
		e.mu.Lock()
		e.recent = append(e.recent, now)
		if len(e.recent) > t.opts.MaxRecentSamples {
			e.recent = e.recent[len(e.recent)-t.opts.MaxRecentSamples:]
		}
		e.mu.Unlock()
	}
}

// RecordCompletion records the outcome and duration of a dispatch.
func (t *Tracker) RecordCompletion(typeName string, duration time.Duration, success bool) {
	e := t.entryFor(typeName)
	if success {
		e.successes.Add(1)
	} else {
		e.failures.Add(1)
	}
	e.totalDuration.Add(int64(duration))
	e.lastSeen.Store(time.Now().UnixNano())
}

// Cleanup evicts entries idle beyond the retention window and returns how
// many were removed. The background sweep calls this periodically; tests
// may call it directly with a chosen reference time.
func (t *Tracker) Cleanup(now time.Time) int {
	cutoff := now.Add(-t.opts.RetentionWindow).UnixNano()
	removed := 0
	t.entries.Range(func(key, value any) bool {
		e := value.(*entry)
		if e.lastSeen.Load() < cutoff {
			// Re-check under CompareAndDelete so a concurrent record that
			// already refreshed lastSeen keeps its entry.
			if e.lastSeen.Load() < cutoff && t.entries.CompareAndDelete(key, value) {
				removed++
			}
		}
		return true
	})
	return removed
}

// Stop cancels the background cleanup sweep. Safe to call more than once.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

func (t *Tracker) runCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case now := <-ticker.C:
			t.Cleanup(now)
		}
	}
}

func (t *Tracker) entryFor(typeName string) *entry {
	if existing, ok := t.entries.Load(typeName); ok {
		return existing.(*entry)
	}
	created, _ := t.entries.LoadOrStore(typeName, &entry{})
	return created.(*entry)
}
