package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/memopad/internal/apperr"
	"github.com/starford/memopad/internal/memo"
	"github.com/starford/memopad/internal/notice"
	"github.com/starford/memopad/internal/storage"
)

var errConfigRequired = errors.New("config is required")

// memoRuntime is the storage, notice timer and holder shared by every host.
type memoRuntime struct {
	cfg    *Config
	logger *slog.Logger
	store  storage.Provider
	timer  *notice.Timer
	holder *memo.Holder
}

// newLogger builds the JSON logger. A nil w discards output.
func newLogger(level slog.Level, w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// openLogFile returns the configured log file, or nil when logs are discarded.
func openLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// openRuntime opens storage and loads the memo. A failed load is logged and the
// memo starts empty; a storage that cannot be opened at all is fatal.
func openRuntime(ctx context.Context, cfg *Config, logger *slog.Logger) (*memoRuntime, error) {
	store, err := storage.Open(ctx, cfg.Storage.Options())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	timer := notice.New(notice.SystemClock, cfg.Notice.Duration)
	holder := memo.New(store, cfg.Memo.Key, timer,
		memo.WithNoticeOnLoad(cfg.Notice.OnLoad),
		memo.WithMaxLength(cfg.Memo.MaxLength),
		memo.WithLogger(logger),
	)
	if err := holder.Initialize(ctx); err != nil {
		if !errors.Is(err, apperr.ErrStorageUnavailable) {
			store.Close()
			return nil, fmt.Errorf("load memo: %w", err)
		}
		logger.Warn("memo load failed, starting empty", slog.String("error", err.Error()))
	}

	logger.Info("Memo loaded",
		slog.String("key", cfg.Memo.Key),
		slog.String("driver", cfg.Storage.Driver),
		slog.Int("length", len([]rune(holder.Text()))))

	return &memoRuntime{cfg: cfg, logger: logger, store: store, timer: timer, holder: holder}, nil
}

// watchEnabled reports whether external file changes are followed.
func (rt *memoRuntime) watchEnabled() bool {
	_, isFS := rt.store.(*storage.FS)
	return rt.cfg.Storage.Watch && isFS
}

// watch reloads the memo on external file changes until ctx is cancelled.
// onReload runs after the holder adopted a changed value.
func (rt *memoRuntime) watch(ctx context.Context, onReload func(text string)) error {
	fs, ok := rt.store.(*storage.FS)
	if !ok {
		return nil
	}
	return storage.Watch(ctx, fs.Root(), rt.logger, func(key string) {
		if key != rt.holder.Key() {
			return
		}
		changed, err := rt.holder.Reload(ctx)
		if err != nil {
			rt.logger.Warn("memo reload failed", slog.String("error", err.Error()))
			return
		}
		if changed {
			rt.logger.Info("memo changed on disk, reloaded")
			if onReload != nil {
				onReload(rt.holder.Text())
			}
		}
	})
}

func (rt *memoRuntime) Close() {
	rt.holder.Close()
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("storage close failed", slog.String("error", err.Error()))
	}
}
