// Package main boots the SSE lazy-loading table service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thamit1/lazy-loading/internal/config"
	httpapi "github.com/thamit1/lazy-loading/internal/http"
	"github.com/thamit1/lazy-loading/internal/obs"
	"github.com/thamit1/lazy-loading/internal/stream"
	"github.com/thamit1/lazy-loading/internal/table"
)

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting",
		"rows", cfg.RowCount,
		"slow_delay_ms", cfg.SlowDelay.Milliseconds(),
		"close_grace_ms", cfg.CloseGrace.Milliseconds(),
	)

	src, err := table.NewSource(cfg.RowCount)
	if err != nil {
		obs.Logger.Error("dataset_encode_error", "error", err)
		os.Exit(1)
	}

	streams := stream.New(src, cfg.SlowDelay, cfg.CloseGrace)
	app := httpapi.NewApp(cfg, streams)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// SSE responses stay open across the slow delay; the session
		// bounds its own lifetime, so no server-side write timeout.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	started, completed, aborted := streams.MetricsSnapshot()
	obs.Logger.Info("service_stopped",
		"streams_started", started,
		"streams_completed", completed,
		"streams_aborted", aborted,
	)
}
