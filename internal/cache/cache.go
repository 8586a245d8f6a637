// Package cache stores computed control charts. Results are deterministic for a
// given request, so entries never need invalidation beyond their TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emsqi/spc/internal/config"
)

// Type represents a cache backend
type Type string

const (
	TypeNone   Type = "none"
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
)

// ErrMiss is returned by Get when the key is not cached
var ErrMiss = errors.New("cache miss")

// Cache stores opaque payloads by key
type Cache interface {
	// Get returns the payload stored under key, or ErrMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores payload under key. A zero ttl keeps the entry until evicted.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Close releases backend resources
	Close() error
}

// NewCache creates a Cache based on configuration. It returns nil for the
// none type.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	cacheType := Type(strings.ToLower(cfg.Type))
	switch cacheType {
	case TypeMemory:
		return NewMemoryCache(cfg.MaxItems), nil

	case TypeRedis:
		rc, err := NewRedisCache(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil

	default:
		return nil, fmt.Errorf("unsupported cache type: %s (supported: none, memory, redis)", cacheType)
	}
}
