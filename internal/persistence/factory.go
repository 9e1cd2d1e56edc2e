package persistence

import (
	"context"
	"fmt"

	"github.com/omniorder/omniorder/internal/platform/cache"
	"github.com/omniorder/omniorder/internal/platform/db"
)

// Supported storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Options selects and configures a slots backend.
type Options struct {
	Driver      string
	Dir         string
	RedisAddr   string
	RedisPrefix string
	PostgresDSN string
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Slots, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemorySlots(), nil
	case DriverFile:
		return NewFileSlots(opts.Dir)
	case DriverRedis:
		client, err := cache.New(ctx, opts.RedisAddr)
		if err != nil {
			return nil, err
		}
		return NewRedisSlots(client, opts.RedisPrefix), nil
	case DriverPostgres:
		pool, err := db.New(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		slots := NewPostgresSlots(pool)
		if err := slots.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return slots, nil
	default:
		return nil, fmt.Errorf("persistence: unknown driver %q", opts.Driver)
	}
}
