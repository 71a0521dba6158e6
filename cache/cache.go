// Package cache holds the response cache used by the public list endpoints.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl; a zero ttl uses the cache default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	Close() error
}

type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrCacheMiss   Error = "cache miss"
	ErrCacheClosed Error = "cache closed"
)
