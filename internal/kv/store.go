// Package kv is the durable key-value boundary the client core persists
// through. Values are opaque strings; callers own the encoding.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrMissingPath   = errors.New("storage path required")
	ErrMissingDSN    = errors.New("storage dsn required")
)

// Store is implemented by every backend. Get reports found=false for a key
// that was never set; that is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Driver string
	// Path is the file or database location for the file and sqlite drivers.
	Path string
	// DSN is the connection string for the postgres driver.
	DSN string
}

// Open constructs the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverMemory:
		return NewMemStore(), nil
	case DriverFile:
		if opts.Path == "" {
			return nil, ErrMissingPath
		}
		return NewFileStore(opts.Path)
	case DriverSQLite:
		if opts.Path == "" {
			return nil, ErrMissingPath
		}
		return OpenSQLite(ctx, opts.Path)
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, ErrMissingDSN
		}
		return OpenPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
