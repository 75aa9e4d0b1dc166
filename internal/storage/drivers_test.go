package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/starford/memopad/internal/apperr"
)

// roundTrip exercises the Provider contract shared by every driver.
func roundTrip(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := p.Get(ctx, "my-memo"); err != nil || ok {
		t.Fatalf("fresh Get: ok=%v err=%v", ok, err)
	}
	for _, v := range []string{"Hello", "", "multi\nline ✓"} {
		if err := p.Set(ctx, "my-memo", v); err != nil {
			t.Fatalf("Set(%q): %v", v, err)
		}
		got, ok, err := p.Get(ctx, "my-memo")
		if err != nil || !ok || got != v {
			t.Fatalf("Get after Set(%q) = %q, %v, %v", v, got, ok, err)
		}
	}
	if _, ok, _ := p.Get(ctx, "other"); ok {
		t.Error("keys must be independent")
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	roundTrip(t, NewMemory())
}

func TestFS_RoundTrip(t *testing.T) {
	roundTrip(t, tempStore(t))
}

func TestSQLite_RoundTrip(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "memopad-test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	roundTrip(t, s)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memopad-test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(context.Background(), "my-memo", "survives"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, ok, err := s.Get(context.Background(), "my-memo")
	if err != nil || !ok || got != "survives" {
		t.Errorf("after reopen Get = %q, %v, %v", got, ok, err)
	}
}

func TestSQLite_ClosedIsUnavailable(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "memopad-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if err := s.Set(context.Background(), "k", "v"); !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Errorf("Set on closed db err = %v, want ErrStorageUnavailable", err)
	}
}

func TestRedis_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := OpenRedis(context.Background(), RedisOptions{Addr: mr.Addr(), OperationTimeout: time.Second})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	roundTrip(t, r)

	// Values are stored raw and without a TTL.
	got, err := mr.Get("my-memo")
	if err != nil || got != "multi\nline ✓" {
		t.Errorf("raw redis value = %q, %v", got, err)
	}
	if ttl := mr.TTL("my-memo"); ttl != 0 {
		t.Errorf("ttl = %v, want none", ttl)
	}
}

func TestRedis_ServerDownIsUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := OpenRedis(context.Background(), RedisOptions{Addr: mr.Addr(), OperationTimeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	mr.Close()

	if err := r.Set(context.Background(), "my-memo", "x"); !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Errorf("Set err = %v, want ErrStorageUnavailable", err)
	}
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	p, err := Open(ctx, Options{Driver: DriverFile, Path: filepath.Join(dir, "data")})
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if _, ok := p.(*FS); !ok {
		t.Errorf("file driver returned %T", p)
	}

	p, err = Open(ctx, Options{Driver: DriverSQLite, Path: filepath.Join(dir, "kv.db")})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	p.Close()

	p, err = Open(ctx, Options{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := p.(*Memory); !ok {
		t.Errorf("memory driver returned %T", p)
	}

	if _, err := Open(ctx, Options{Driver: "etcd"}); err == nil {
		t.Error("unknown driver should fail")
	}
}
