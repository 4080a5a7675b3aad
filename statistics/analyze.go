package statistics

import (
	"fmt"
	"sort"
	"time"
)

// TypeReport is the aggregate for one request or notification type name.
type TypeReport struct {
	TypeName        string
	Executions      int64
	Successes       int64
	Failures        int64
	AverageDuration time.Duration
	LastSeen        time.Time

	// Recent holds the bounded window of recent execution timestamps.
	// Populated only when the tracker runs with detailed tracking and the
	// report was requested detailed.
	Recent []time.Time
}

// Analyze returns a report per tracked type, sorted by type name for
// stable output. With detailed set, recent execution timestamps are
// included when the tracker collects them.
func (t *Tracker) Analyze(detailed bool) []TypeReport {
	var reports []TypeReport
	t.entries.Range(func(key, value any) bool {
		name := key.(string)
		e := value.(*entry)

		report := TypeReport{
			TypeName:   name,
			Executions: e.executions.Load(),
			Successes:  e.successes.Load(),
			Failures:   e.failures.Load(),
			LastSeen:   time.Unix(0, e.lastSeen.Load()),
		}
		if completed := report.Successes + report.Failures; completed > 0 {
			report.AverageDuration = time.Duration(e.totalDuration.Load() / completed)
		}
		if detailed && t.opts.DetailedTracking {
			e.mu.Lock()
			report.Recent = append([]time.Time(nil), e.recent...)
			e.mu.Unlock()
		}

		reports = append(reports, report)
		return true
	})

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].TypeName < reports[j].TypeName
	})
	return reports
}

// ReportTo renders a human-readable report of every tracked type.
func (t *Tracker) ReportTo(r Renderer, detailed bool) {
	reports := t.Analyze(detailed)
	r.Render(fmt.Sprintf("Mediator statistics (%d types tracked)", len(reports)))
	for _, report := range reports {
		r.Render(fmt.Sprintf("  %s: executions=%d successes=%d failures=%d avg=%s",
			report.TypeName, report.Executions, report.Successes, report.Failures, report.AverageDuration))
		if detailed {
			for _, ts := range report.Recent {
				r.Render(fmt.Sprintf("    at %s", ts.Format(time.RFC3339Nano)))
			}
		}
	}
}
