package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract shared by the Redis and in-memory stores.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found=false on a miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error

	// Counters used for login throttling.
	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// TTL returns the remaining lifetime, or a negative duration when the key
	// is missing or has no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
