// Package cache stores rendered PNG artifacts keyed by a hash of every
// input that affects the pixels.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps one file per entry under a directory (CLI default)
//   - [RedisCache] shares entries between processes through Redis
//   - [NullCache] stores nothing and always misses
//
// Keys come from a [Keyer]. The default keyer hashes the render kind, the
// render parameters and the canvas options together, so two requests that
// would draw the same image share an entry.
//
//	c, err := cache.Open(ctx, cache.Config{Backend: cache.BackendFile, Dir: dir})
//	key := cache.NewDefaultKeyer().RenderKey("calendar", params, opts)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/calsheet/pkg/errors"
)

// DefaultTTL bounds how long an artifact is reused. Renders depend on the
// current date, so entries older than a day are rarely useful.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with optional expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the entry and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error
	Close() error
}

// Backend names a Cache implementation.
type Backend string

const (
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendNone  Backend = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend  Backend
	Dir      string // file backend
	RedisURL string // redis backend, e.g. redis://localhost:6379/0
}

// Open builds the configured backend. An empty backend means none.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendNone, "":
		return NewNullCache(), nil
	case BackendFile:
		if cfg.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "file cache needs a directory")
		}
		fc, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open file cache")
		}
		return fc, nil
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "redis cache needs a URL")
		}
		rc, err := NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown cache backend %q", cfg.Backend)
}
