package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called with the key whose file changed on disk.
type ChangeCallback func(key string)

// debounceDelay coalesces the burst of events produced by one atomic write.
const debounceDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the file driver's directory and reports
// external changes to key files until ctx is cancelled. Events for the same key
// are debounced, so cb sees one call per burst. Deleting a key file reports a
// change as well; the next Get returns the key as absent.
func Watch(ctx context.Context, dir string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func(key string) {
		pending[key] = struct{}{}
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounceDelay)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for key := range pending {
				logger.Debug("watcher: changed", slog.String("key", key))
				cb(key)
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			key, ok := KeyFromFileName(filepath.Base(ev.Name))
			if !ok {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			schedule(key)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
