package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type keyRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *keyRecorder) record(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func (r *keyRecorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.keys {
		if k == key {
			n++
		}
	}
	return n
}

func startWatch(t *testing.T, dir string, rec *keyRecorder) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = Watch(ctx, dir, logger, rec.record)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
}

func TestWatch_ExternalWriteReported(t *testing.T) {
	s := tempStore(t)
	rec := &keyRecorder{}
	startWatch(t, s.Root(), rec)

	if err := os.WriteFile(filepath.Join(s.Root(), "my-memo.txt"), []byte("edited elsewhere"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		return rec.count("my-memo") > 0
	}, "external write not reported")
}

func TestWatch_AtomicWriteDebounced(t *testing.T) {
	s := tempStore(t)
	rec := &keyRecorder{}
	startWatch(t, s.Root(), rec)

	if err := s.Set(context.Background(), "my-memo", "one write"); err != nil {
		t.Fatal(err)
	}
	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		return rec.count("my-memo") > 0
	}, "atomic write not reported")

	time.Sleep(2 * debounceDelay)
	if n := rec.count("my-memo"); n != 1 {
		t.Errorf("callbacks = %d, want 1 per burst", n)
	}
}

func TestWatch_RemoveReported(t *testing.T) {
	s := tempStore(t)
	if err := s.Set(context.Background(), "my-memo", "bye"); err != nil {
		t.Fatal(err)
	}
	rec := &keyRecorder{}
	startWatch(t, s.Root(), rec)

	if err := os.Remove(filepath.Join(s.Root(), "my-memo.txt")); err != nil {
		t.Fatal(err)
	}
	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		return rec.count("my-memo") > 0
	}, "remove not reported")
}

func TestWatch_IgnoresForeignFiles(t *testing.T) {
	s := tempStore(t)
	rec := &keyRecorder{}
	startWatch(t, s.Root(), rec)

	_ = os.WriteFile(filepath.Join(s.Root(), "readme.md"), []byte("x"), 0o644)
	time.Sleep(3 * debounceDelay)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.keys) != 0 {
		t.Errorf("unexpected callbacks: %v", rec.keys)
	}
}
