package storage

import (
	"context"
	"fmt"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a driver.
type Options struct {
	Driver string
	// Path is the data directory for the file driver and the database file for sqlite.
	Path  string
	Redis RedisOptions
}

// Open builds the Provider selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Provider, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFS(opts.Path)
	case DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverRedis:
		return OpenRedis(ctx, opts.Redis)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
