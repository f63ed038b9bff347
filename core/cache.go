package core

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-key expiry.
type Cache interface {
	// Get returns ok=false when the key is missing or expired.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
