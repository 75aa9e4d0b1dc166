package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/starford/memopad/internal/apperr"
)

// Redis implements Provider with plain GET/SET commands. Values never expire.
type Redis struct {
	client  *redis.Client
	timeout time.Duration
}

// RedisOptions configures the redis driver.
type RedisOptions struct {
	Addr             string
	Username         string
	Password         string
	DB               int
	OperationTimeout time.Duration
}

// OpenRedis connects to redis and verifies the connection with PING.
func OpenRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	r := &Redis{client: client, timeout: opts.OperationTimeout}
	if r.timeout <= 0 {
		r.timeout = 5 * time.Second
	}

	pingCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: redis ping: %w", err)
	}
	return r, nil
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	v, err := r.client.Get(opCtx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: redis get %s: %w: %w", key, apperr.ErrStorageUnavailable, err)
	}
	return v, true, nil
}

// Set stores value under key without expiration.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.client.Set(opCtx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis set %s: %w: %w", key, apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
