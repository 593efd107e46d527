// Package stream drives the per-connection fast/slow/done event sequence.
package stream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/thamit1/lazy-loading/internal/obs"
	"github.com/thamit1/lazy-loading/internal/sse"
	"github.com/thamit1/lazy-loading/internal/table"
)

// Event names and the done sentinel payload are the wire contract with the
// table page. The done payload is a bare string, not JSON.
const (
	EventFast = "fast"
	EventSlow = "slow"
	EventDone = "done"

	donePayload = "finished"
)

// Streamer serves SSE sessions over a fixed dataset. A single Streamer is
// shared by all connections; each session only reads from it.
type Streamer struct {
	src        *table.Source
	slowDelay  time.Duration
	closeGrace time.Duration

	seq     Sequencer
	metrics Metrics
}

// New creates a Streamer. slowDelay is the simulated computation time before
// the slow event, closeGrace the pause between the done event and the end of
// the response body.
func New(src *table.Source, slowDelay, closeGrace time.Duration) *Streamer {
	return &Streamer{src: src, slowDelay: slowDelay, closeGrace: closeGrace}
}

// MetricsSnapshot returns the current session counters.
func (s *Streamer) MetricsSnapshot() (started, completed, aborted uint64) {
	return s.metrics.Snapshot()
}

// Serve drives one connection through the sequence
//
//	fast -> (slow delay) -> slow -> done -> (close grace) -> close
//
// and returns when the sequence finished or the client went away. Phases are
// strictly ordered; none is skipped or retried. Cancellation of ctx at any
// suspension point ends the session without touching the connection again.
func (s *Streamer) Serve(ctx context.Context, w http.ResponseWriter, requestID string) error {
	id := s.seq.Next()
	s.metrics.started.Add(1)
	log := obs.Logger.With("stream", id, "request_id", requestID)

	sw, err := sse.Open(w)
	if err != nil {
		s.metrics.aborted.Add(1)
		log.Error("stream_open_failed", "error", err)
		return err
	}
	log.Info("stream_open", "rows", s.src.RowCount())

	if err := sw.Event(EventFast, s.src.FastJSON()); err != nil {
		return s.abort(log, "fast", err)
	}
	log.Info("stream_fast_sent")

	if !wait(ctx, s.slowDelay) {
		return s.abort(log, "slow_delay", ctx.Err())
	}

	if err := sw.Event(EventSlow, s.src.SlowJSON()); err != nil {
		return s.abort(log, "slow", err)
	}
	log.Info("stream_slow_sent")

	if err := sw.Event(EventDone, []byte(donePayload)); err != nil {
		return s.abort(log, "done", err)
	}
	log.Info("stream_done_sent")

	// Let the client's EventSource consume the done event before the
	// chunked body ends.
	if !wait(ctx, s.closeGrace) {
		return s.abort(log, "close_grace", ctx.Err())
	}

	s.metrics.completed.Add(1)
	log.Info("stream_closed")
	return nil
}

func (s *Streamer) abort(log *slog.Logger, phase string, err error) error {
	s.metrics.aborted.Add(1)
	log.Warn("stream_aborted", "phase", phase, "error", err)
	return err
}

// wait sleeps for d or until ctx is cancelled, reporting whether the full
// duration elapsed.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
