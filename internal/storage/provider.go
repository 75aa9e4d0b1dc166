// Package storage defines the key-value accessor the memo is persisted through.
package storage

import "context"

// Provider is a durable key-value store holding raw strings.
type Provider interface {
	// Get returns the value stored under key. ok is false when the key is absent;
	// absence is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Close releases the underlying resources.
	Close() error
}
