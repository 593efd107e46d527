package stream

import "sync/atomic"

// Sequencer provides monotonically increasing stream numbers for logging.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next stream number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Metrics counts session outcomes. A session is counted as started exactly
// once and then as either completed or aborted.
type Metrics struct {
	started   atomic.Uint64
	completed atomic.Uint64
	aborted   atomic.Uint64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() (started, completed, aborted uint64) {
	return m.started.Load(), m.completed.Load(), m.aborted.Load()
}
