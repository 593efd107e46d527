package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/thamit1/lazy-loading/internal/config"
	httpopenapi "github.com/thamit1/lazy-loading/internal/http/openapi"
	"github.com/thamit1/lazy-loading/internal/sse"
	"github.com/thamit1/lazy-loading/internal/stream"
	"github.com/thamit1/lazy-loading/internal/webui"
)

// App bundles the dependencies of the HTTP handlers.
type App struct {
	Cfg     config.Config
	Streams *stream.Streamer
	started time.Time
}

// NewApp constructs the handler set around a Streamer.
func NewApp(cfg config.Config, st *stream.Streamer) *App {
	return &App{Cfg: cfg, Streams: st, started: time.Now()}
}

// indexHandler serves the table page. The "/" pattern also catches unknown
// paths, which get a JSON 404.
func (a *App) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(webui.IndexHTML)
}

// streamHandler runs one SSE session. Query parameters and extra headers are
// deliberately ignored; the stream always carries the fixed dataset.
func (a *App) streamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	err := a.Streams.Serve(r.Context(), w, RequestIDFromContext(r.Context()))
	if errors.Is(err, sse.ErrStreamingUnsupported) {
		// Nothing has been written yet, a plain error response is still
		// possible.
		WriteJSONError(w, http.StatusInternalServerError, "streaming_unsupported", "")
	}
	// Any other error happened mid-stream and was already logged by the
	// session; the connection is beyond repair at this point.
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	started, completed, aborted := a.Streams.MetricsSnapshot()
	m := map[string]any{
		"streams_started":   started,
		"streams_completed": completed,
		"streams_aborted":   aborted,
		"streams_active":    started - completed - aborted,
		"row_count":         a.Cfg.RowCount,
		"uptime_sec":        time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
