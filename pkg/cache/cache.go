package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON-encodable values for a limited time.
type Cache interface {
	// Get decodes the value under key into dst. found is false on a miss.
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Key joins parts into a namespaced cache key, skipping empty parts.
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ":")
}

type noop struct{}

// NewNoop returns a cache that never holds anything.
func NewNoop() Cache {
	return noop{}
}

func (noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (noop) Set(context.Context, string, any, time.Duration) error { return nil }

func (noop) Delete(context.Context, ...string) error { return nil }

func (noop) Close() error { return nil }
