package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thamit1/lazy-loading/internal/obs"
	"github.com/thamit1/lazy-loading/internal/sse"
	"github.com/thamit1/lazy-loading/internal/table"
)

func TestMain(m *testing.M) {
	obs.InitLogger("error")
	m.Run()
}

type frame struct {
	event string
	data  string
}

func parseFrames(t *testing.T, body string) []frame {
	t.Helper()
	var frames []frame
	for _, block := range strings.Split(body, "\n\n") {
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		require.Len(t, lines, 2, "unexpected frame %q", block)
		require.True(t, strings.HasPrefix(lines[0], "event: "), "frame %q", block)
		require.True(t, strings.HasPrefix(lines[1], "data: "), "frame %q", block)
		frames = append(frames, frame{
			event: strings.TrimPrefix(lines[0], "event: "),
			data:  strings.TrimPrefix(lines[1], "data: "),
		})
	}
	return frames
}

func newTestStreamer(t *testing.T, slowDelay, closeGrace time.Duration) *Streamer {
	t.Helper()
	src, err := table.NewSource(6)
	require.NoError(t, err)
	return New(src, slowDelay, closeGrace)
}

func TestServeSequence(t *testing.T) {
	slowDelay := 40 * time.Millisecond
	closeGrace := 20 * time.Millisecond
	s := newTestStreamer(t, slowDelay, closeGrace)

	w := httptest.NewRecorder()
	start := time.Now()
	err := s.Serve(context.Background(), w, "req-1")
	elapsed := time.Since(start)
	require.NoError(t, err)

	frames := parseFrames(t, w.Body.String())
	require.Len(t, frames, 3)
	assert.Equal(t, EventFast, frames[0].event)
	assert.Equal(t, EventSlow, frames[1].event)
	assert.Equal(t, EventDone, frames[2].event)
	assert.JSONEq(t, string(s.src.FastJSON()), frames[0].data)
	assert.JSONEq(t, string(s.src.SlowJSON()), frames[1].data)
	assert.Equal(t, "finished", frames[2].data)

	// The session must have suspended through both delays.
	assert.GreaterOrEqual(t, elapsed, slowDelay+closeGrace)

	started, completed, aborted := s.MetricsSnapshot()
	assert.EqualValues(t, 1, started)
	assert.EqualValues(t, 1, completed)
	assert.EqualValues(t, 0, aborted)
}

func TestServeRepeatedPayloadsIdentical(t *testing.T) {
	s := newTestStreamer(t, time.Millisecond, time.Millisecond)

	w1 := httptest.NewRecorder()
	require.NoError(t, s.Serve(context.Background(), w1, "a"))
	w2 := httptest.NewRecorder()
	require.NoError(t, s.Serve(context.Background(), w2, "b"))

	assert.Equal(t, w1.Body.Bytes(), w2.Body.Bytes())
}

func TestServeCancelDuringSlowDelay(t *testing.T) {
	s := newTestStreamer(t, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	w := httptest.NewRecorder()
	start := time.Now()
	err := s.Serve(ctx, w, "c")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, context.Canceled)
	// Cancellation must short-circuit the slow timer.
	assert.Less(t, elapsed, 500*time.Millisecond)

	frames := parseFrames(t, w.Body.String())
	require.Len(t, frames, 1)
	assert.Equal(t, EventFast, frames[0].event)

	started, completed, aborted := s.MetricsSnapshot()
	assert.EqualValues(t, 1, started)
	assert.EqualValues(t, 0, completed)
	assert.EqualValues(t, 1, aborted)
}

func TestServeCancelBeforeStart(t *testing.T) {
	s := newTestStreamer(t, 30*time.Millisecond, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := httptest.NewRecorder()
	err := s.Serve(ctx, w, "d")
	assert.ErrorIs(t, err, context.Canceled)

	// The fast event goes out before the first suspension point, nothing
	// after it does.
	frames := parseFrames(t, w.Body.String())
	require.Len(t, frames, 1)
	assert.Equal(t, EventFast, frames[0].event)
}

type writerNotFlusher struct{ header http.Header }

func (w writerNotFlusher) Header() http.Header       { return w.header }
func (w writerNotFlusher) Write(b []byte) (int, error) { return len(b), nil }
func (w writerNotFlusher) WriteHeader(int)           {}

func TestServeStreamingUnsupported(t *testing.T) {
	s := newTestStreamer(t, time.Millisecond, time.Millisecond)

	err := s.Serve(context.Background(), writerNotFlusher{header: make(http.Header)}, "e")
	assert.ErrorIs(t, err, sse.ErrStreamingUnsupported)

	started, _, aborted := s.MetricsSnapshot()
	assert.EqualValues(t, 1, started)
	assert.EqualValues(t, 1, aborted)
}

func TestServeConcurrentSessionsIndependent(t *testing.T) {
	s := newTestStreamer(t, 20*time.Millisecond, 5*time.Millisecond)

	const n = 12
	bodies := make([]string, n)
	errs := make([]error, n)
	done := make(chan int, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			w := httptest.NewRecorder()
			errs[i] = s.Serve(context.Background(), w, "conn")
			bodies[i] = w.Body.String()
			done <- i
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		frames := parseFrames(t, bodies[i])
		require.Len(t, frames, 3)
		assert.Equal(t, bodies[0], bodies[i])
	}

	started, completed, aborted := s.MetricsSnapshot()
	assert.EqualValues(t, n, started)
	assert.EqualValues(t, n, completed)
	assert.EqualValues(t, 0, aborted)
}
