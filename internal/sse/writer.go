// Package sse writes Server-Sent Events wire frames to HTTP responses.
package sse

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingUnsupported is returned by Open when the response writer
// cannot flush frames to the client as they are written.
var ErrStreamingUnsupported = errors.New("sse: response writer does not implement http.Flusher")

// ErrMultilineData is returned when an event payload contains a raw newline.
// A newline inside a data line would terminate the frame early and desync
// the client, so such payloads are rejected before any bytes are written.
var ErrMultilineData = errors.New("sse: event data contains a newline")

// Writer emits SSE frames on a single HTTP response. It is not safe for
// concurrent use; each stream session owns its writer.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// Open switches the response to an SSE stream. Headers are written and
// flushed immediately so the client sees the stream open as soon as the
// handler runs.
func Open(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Writer{w: w, flusher: flusher}, nil
}

// Event writes a single named frame and flushes it:
//
//	event: <name>\n
//	data: <data>\n
//	\n
//
// A write error means the client is gone; the caller should stop the stream.
func (sw *Writer) Event(name string, data []byte) error {
	if bytes.ContainsRune(data, '\n') {
		return ErrMultilineData
	}
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}
