package agent

import (
	"sync"

	"github.com/tempolabs/drover/activities"
	"github.com/tempolabs/drover/chain"
	"github.com/tempolabs/drover/logging"
)

// KindCounts aggregates outcome counts for one activity kind.
type KindCounts struct {
	// Confirmed is the number of executions that confirmed on-chain.
	Confirmed int

	// Failed is the number of executions that failed.
	Failed int

	// Skipped is the number of executions skipped on unmet preconditions.
	Skipped int
}

// Metrics aggregates outcome counts across every agent in a run. It is safe for concurrent use.
type Metrics struct {
	// lock guards counts.
	lock sync.Mutex

	// counts maps activity kinds to their aggregated outcome counts.
	counts map[activities.Kind]*KindCounts
}

// NewMetrics returns an empty Metrics aggregate.
func NewMetrics() *Metrics {
	return &Metrics{
		counts: make(map[activities.Kind]*KindCounts),
	}
}

// Record tallies one outcome under its activity kind.
func (m *Metrics) Record(kind activities.Kind, outcome chain.Outcome) {
	m.lock.Lock()
	defer m.lock.Unlock()

	counts, ok := m.counts[kind]
	if !ok {
		counts = &KindCounts{}
		m.counts[kind] = counts
	}
	switch outcome.Status {
	case chain.OutcomeStatusConfirmed:
		counts.Confirmed++
	case chain.OutcomeStatusFailed:
		counts.Failed++
	case chain.OutcomeStatusSkipped:
		counts.Skipped++
	}
}

// Counts returns a copy of the aggregated counts for the provided kind.
func (m *Metrics) Counts(kind activities.Kind) KindCounts {
	m.lock.Lock()
	defer m.lock.Unlock()

	if counts, ok := m.counts[kind]; ok {
		return *counts
	}
	return KindCounts{}
}

// LogSummary writes one summary line per activity kind that recorded any outcome.
func (m *Metrics) LogSummary(logger *logging.Logger) {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, kind := range activities.AllKinds() {
		counts, ok := m.counts[kind]
		if !ok {
			continue
		}
		logger.Info("Activity summary", logging.StructuredLogInfo{
			"activity":  string(kind),
			"confirmed": counts.Confirmed,
			"failed":    counts.Failed,
			"skipped":   counts.Skipped,
		})
	}
}
