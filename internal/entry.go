// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/memopad/internal/api"
	"github.com/starford/memopad/internal/notice"
	"github.com/starford/memopad/internal/sse"
	"github.com/starford/memopad/internal/view"
)

const readyTimeout = 2 * time.Second

// Run starts the HTTP host with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(cfg.App.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("memo_key", cfg.Memo.Key),
		slog.Duration("notice_duration", cfg.Notice.Duration),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := openRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	// SSE broker; new clients start from the current memo and notice state.
	broker := sse.NewBroker(sse.WithSnapshot(func() []sse.Event {
		return []sse.Event{
			sse.MemoEvent(rt.holder.Snapshot()),
			sse.NoticeEvent(rt.timer.State() == notice.Visible),
		}
	}))
	defer broker.Close()

	rt.holder.Subscribe(broker.PublishMemo)
	rt.timer.Subscribe(func(s notice.State) {
		broker.PublishNotice(s == notice.Visible)
	})

	handler := api.NewHandler(rt.holder, rt.timer)
	apiRouter := api.NewRouter(handler, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		readyCtx, cancel := context.WithTimeout(req.Context(), readyTimeout)
		defer cancel()
		if _, _, err := rt.store.Get(readyCtx, cfg.Memo.Key); err != nil {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			writeHealth(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeHealth(w, http.StatusOK, "ok")
	})

	r.Get("/", api.PageHandler(rt.holder, rt.timer, view.DefaultLabels, cfg.Auth.AuthEnabled(), cfg.Auth.Token))

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Follow external edits of the memo file.
	if rt.watchEnabled() {
		g.Go(func() error {
			if err := rt.watch(gCtx, nil); err != nil {
				logger.Warn("file watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Streaming SSE handlers exit once the broker closes their channels.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

func writeHealth(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, text)
}
