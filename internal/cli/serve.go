package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roompulse/roompulse/internal/api"
	"github.com/roompulse/roompulse/internal/config"
	"github.com/roompulse/roompulse/internal/pipeline"
	"github.com/roompulse/roompulse/internal/store"
	"github.com/roompulse/roompulse/internal/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the leaderboard over HTTP and recompute on log changes",
	Long: `serve runs an initial recomputation, then watches the log directory
and recomputes whenever the collector appends. Results are exposed on the
REST API at /api/v1 and pushed to WebSocket clients at /ws/stream.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, cfg)
}

// serve runs the serving stack until ctx is cancelled: initial compute, the
// log watcher, the WebSocket hub and the HTTP server, all concurrently.
func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("roompulse serve starting",
		"room", cfg.Room.Name,
		"logs", cfg.Logs.Dir,
		"http_port", cfg.Serve.HTTPPort,
	)

	st := store.New(cfg.Serve.HistorySize)

	hub := ws.New(st, cfg.Serve.BroadcastInterval)
	go hub.Run(ctx)

	recompute := func() {
		res, err := pipeline.Run(cfg, time.Now().UTC())
		if err != nil {
			slog.Error("recompute failed", "err", err)
			return
		}
		if err := pipeline.WriteDocuments(cfg, res); err != nil {
			slog.Error("write documents failed", "err", err)
			return
		}
		st.Put(res)
		hub.Notify()
	}

	// Initial run so the API has data before the first log change.
	recompute()

	// The watcher blocks until ctx is cancelled, so it runs alongside the
	// HTTP server rather than ahead of it.
	go func() {
		if err := pipeline.Watch(ctx, cfg, recompute); err != nil {
			slog.Error("log watcher stopped", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Serve.HTTPPort),
		Handler: serveMux(api.New(st, cfg.Room.Name), hub),
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Serve.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown", "err", err)
	}
	return nil
}

// serveMux mounts everything the serve port exposes. The API handler owns
// both the /api/v1 subtree and /metrics; /metrics sits at the root, outside
// the /api/ pattern, so it needs its own route here.
func serveMux(apiHandler http.Handler, hub http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", apiHandler)
	mux.Handle("/ws/stream", hub)
	return mux
}
