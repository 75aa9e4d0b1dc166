package internal

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/memopad/internal/notice"
	"github.com/starford/memopad/internal/storage"
)

func testConfig(t *testing.T, driver string) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Storage.Driver = driver
	cfg.Storage.Path = t.TempDir()
	if driver == storage.DriverSQLite {
		cfg.Storage.Path = filepath.Join(cfg.Storage.Path, "memo.db")
	}
	return cfg
}

func discardLogger() *slog.Logger {
	return newLogger(slog.LevelError, nil)
}

func TestNewApplication_RequiresConfig(t *testing.T) {
	if _, err := newApplication(nil); err == nil {
		t.Fatal("expected error without config")
	}
	app, err := newApplication([]Option{WithConfig(NewDefaultConfig()), WithVersion("1.2.3")})
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	if app.version != "1.2.3" {
		t.Errorf("version = %q", app.version)
	}
}

func TestOpenRuntime_LoadsPersistedMemo(t *testing.T) {
	for _, driver := range []string{storage.DriverFile, storage.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			ctx := context.Background()

			rt, err := openRuntime(ctx, cfg, discardLogger())
			if err != nil {
				t.Fatalf("openRuntime: %v", err)
			}
			if err := rt.holder.OnTextChanged(ctx, "persist me"); err != nil {
				t.Fatalf("OnTextChanged: %v", err)
			}
			rt.Close()

			rt, err = openRuntime(ctx, cfg, discardLogger())
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer rt.Close()
			if got := rt.holder.Text(); got != "persist me" {
				t.Errorf("text = %q, want %q", got, "persist me")
			}
			if rt.timer.State() != notice.Hidden {
				t.Error("notice should stay hidden on load by default")
			}
		})
	}
}

func TestOpenRuntime_NoticeOnLoad(t *testing.T) {
	cfg := testConfig(t, storage.DriverFile)
	cfg.Notice.OnLoad = true
	ctx := context.Background()

	store, err := storage.NewFS(cfg.Storage.Path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, cfg.Memo.Key, "hello"); err != nil {
		t.Fatal(err)
	}

	rt, err := openRuntime(ctx, cfg, discardLogger())
	if err != nil {
		t.Fatalf("openRuntime: %v", err)
	}
	defer rt.Close()
	if rt.timer.State() != notice.Visible {
		t.Error("notice should be visible after loading a non-empty memo")
	}
}

func TestWatchEnabled(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t, storage.DriverMemory)
	rt, err := openRuntime(ctx, cfg, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()
	if rt.watchEnabled() {
		t.Error("memory driver cannot be watched")
	}

	cfg = testConfig(t, storage.DriverFile)
	cfg.Storage.Watch = false
	rt2, err := openRuntime(ctx, cfg, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer rt2.Close()
	if rt2.watchEnabled() {
		t.Error("watch disabled in config")
	}
}

func TestWatch_ReloadsExternalEdit(t *testing.T) {
	cfg := testConfig(t, storage.DriverFile)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := openRuntime(ctx, cfg, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	var (
		mu       sync.Mutex
		reloaded []string
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = rt.watch(ctx, func(text string) {
			mu.Lock()
			reloaded = append(reloaded, text)
			mu.Unlock()
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(cfg.Storage.Path, storage.FileName(cfg.Memo.Key))
	if err := os.WriteFile(path, []byte("edited elsewhere"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if rt.holder.Text() == "edited elsewhere" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if got := rt.holder.Text(); got != "edited elsewhere" {
		t.Fatalf("text = %q, want external edit", got)
	}

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(reloaded) == 0 || reloaded[len(reloaded)-1] != "edited elsewhere" {
		t.Errorf("reload callback got %v", reloaded)
	}
}

func TestOpenLogFile(t *testing.T) {
	w, err := openLogFile("")
	if err != nil || w != nil {
		t.Fatalf("empty path: w=%v err=%v", w, err)
	}

	path := filepath.Join(t.TempDir(), "memopad.log")
	w, err = openLogFile(path)
	if err != nil {
		t.Fatalf("openLogFile: %v", err)
	}
	newLogger(slog.LevelInfo, w).Info("hello")
	w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}
