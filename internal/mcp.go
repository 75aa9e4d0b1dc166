package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/memopad/internal/mcpserver"
)

// RunMCP serves the memo tools over stdio. Stdout carries the protocol,
// so logs only go to app.log_file.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logOut, err := openLogFile(cfg.App.LogFile)
	if err != nil {
		return err
	}
	if logOut != nil {
		defer logOut.Close()
	}
	logger := newLogger(cfg.App.LogLevel, logOut)
	slog.SetDefault(logger)

	rt, err := openRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.watchEnabled() {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := rt.watch(watchCtx, nil); err != nil {
				logger.Warn("file watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	srv := mcpserver.New(rt.holder, rt.timer, app.version)
	logger.Info("MCP server starting", slog.String("memo_key", cfg.Memo.Key))
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
