package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/memopad/internal/notice"
	"github.com/starford/memopad/internal/tui"
	"github.com/starford/memopad/internal/view"
)

// RunTerminal starts the full-screen terminal editor. Logs go to
// app.log_file so they do not corrupt the screen.
func RunTerminal(ctx context.Context, opts ...Option) error {
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

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.New(ctx, rt.holder, view.DefaultLabels, cfg.Memo.MaxLength)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Notice transitions may be emitted from inside Update, so the listener
	// must not block on the program: it keeps only the latest state.
	notices := make(chan bool, 1)
	publish := func(s notice.State) {
		select {
		case <-notices:
		default:
		}
		notices <- s == notice.Visible
	}
	rt.timer.Subscribe(publish)
	if st := rt.timer.State(); st == notice.Visible {
		publish(st)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case visible := <-notices:
				p.Send(tui.NoticeMsg{Visible: visible})
			}
		}
	}()

	if rt.watchEnabled() {
		go func() {
			err := rt.watch(ctx, func(text string) {
				p.Send(tui.ReloadMsg{Text: text})
			})
			if err != nil {
				logger.Warn("file watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("Terminal editor starting", slog.String("memo_key", cfg.Memo.Key))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal: %w", err)
	}
	logger.Info("Terminal editor stopped")
	return nil
}
