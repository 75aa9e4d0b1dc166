package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/memopad/internal/apperr"
)

func tempStore(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestFS_SetAndGet(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	if err := s.Set(ctx, "my-memo", "こんにちは\nworld"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get(ctx, "my-memo")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got != "こんにちは\nworld" {
		t.Errorf("Get = %q, %v", got, ok)
	}
}

func TestFS_GetAbsent(t *testing.T) {
	s := tempStore(t)
	got, ok, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absent key should not error: %v", err)
	}
	if ok || got != "" {
		t.Errorf("Get = %q, %v; want absent", got, ok)
	}
}

func TestFS_StoresRawText(t *testing.T) {
	s := tempStore(t)
	if err := s.Set(context.Background(), "my-memo", `{"not":"json-wrapped"}`); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(s.Root(), "my-memo.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"not":"json-wrapped"}` {
		t.Errorf("file content = %q", data)
	}
}

func TestFS_OverwriteEmpty(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	_ = s.Set(ctx, "k", "something")
	if err := s.Set(ctx, "k", ""); err != nil {
		t.Fatal(err)
	}
	got, ok, _ := s.Get(ctx, "k")
	if !ok || got != "" {
		t.Errorf("Get = %q, %v; want present empty string", got, ok)
	}
}

func TestFS_NoTempFilesLeft(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	for _, v := range []string{"a", "ab", "abc"} {
		if err := s.Set(ctx, "k", v); err != nil {
			t.Fatal(err)
		}
	}
	entries, _ := os.ReadDir(s.Root())
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want only k.txt", names)
	}
}

func TestFS_InvalidKeys(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	for _, key := range []string{"", ".", "..", "../escape", "a/b", `a\b`} {
		if err := s.Set(ctx, key, "x"); !errors.Is(err, apperr.ErrInvalidKey) {
			t.Errorf("Set(%q) err = %v, want ErrInvalidKey", key, err)
		}
		if _, _, err := s.Get(ctx, key); !errors.Is(err, apperr.ErrInvalidKey) {
			t.Errorf("Get(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestNewFS_CreatesMissingRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFS(dir); err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestNewFS_RootIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFS(f); err == nil {
		t.Fatal("expected error for file root")
	}
}

func TestKeyFromFileName(t *testing.T) {
	cases := []struct {
		name string
		key  string
		ok   bool
	}{
		{"my-memo.txt", "my-memo", true},
		{".memopad-tmp-123", "", false},
		{"notes.md", "", false},
	}
	for _, c := range cases {
		key, ok := KeyFromFileName(c.name)
		if key != c.key || ok != c.ok {
			t.Errorf("KeyFromFileName(%q) = %q, %v", c.name, key, ok)
		}
	}
}
