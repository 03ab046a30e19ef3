package cache

import (
	"context"
	"time"
)

// Backend is a key/value store with per-entry expiry.
type Backend interface {
	// Get returns the value for key. Expired entries are reported as missing.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set fully replaces the value for key.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key that starts with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	// Purge removes expired entries and returns how many were removed.
	Purge(ctx context.Context) (int, error)
	Close() error
}
