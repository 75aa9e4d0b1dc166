package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/memopad/internal/apperr"
)

// fileExt is appended to the key to form the file name.
const fileExt = ".txt"

// FS implements Provider with one file per key under a root directory.
type FS struct {
	root string // absolute path to the data directory
}

// NewFS creates a new FS provider rooted at the given directory, creating it if needed.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string {
	return f.root
}

// FileName returns the file name a key is stored in.
func FileName(key string) string {
	return key + fileExt
}

// KeyFromFileName is the inverse of FileName. ok is false for foreign files.
func KeyFromFileName(name string) (string, bool) {
	if !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return strings.TrimSuffix(name, fileExt), true
}

// keyPath maps a key to its file, rejecting keys that would escape the root.
func (f *FS) keyPath(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.root, FileName(key)), nil
}

// Get reads the file for key.
func (f *FS) Get(_ context.Context, key string) (string, bool, error) {
	p, err := f.keyPath(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("storage: read %s: %w: %w", key, apperr.ErrStorageUnavailable, err)
	}
	return string(data), true, nil
}

// Set atomically writes value: tmp file → fsync → rename.
func (f *FS) Set(_ context.Context, key, value string) error {
	p, err := f.keyPath(key)
	if err != nil {
		return err
	}
	if err := writeAtomic(f.root, p, []byte(value)); err != nil {
		return fmt.Errorf("storage: write %s: %w: %w", key, apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// Close is a no-op for the file driver.
func (f *FS) Close() error { return nil }

func writeAtomic(dir, dst string, content []byte) error {
	tmp, err := os.CreateTemp(dir, ".memopad-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	success = true
	return nil
}

// ValidateKey rejects empty keys and keys that are not a single path element.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("storage: %w: %q", apperr.ErrInvalidKey, key)
	}
	return nil
}
