package cache

import (
	"context"
	"time"
)

// Store is the cache surface used by repositories.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	AddCacheKeyToPropertySet(ctx context.Context, propertyID, cacheKey string, expiration time.Duration) error
	InvalidatePropertyCacheKeys(ctx context.Context, propertyID string) (int64, error)
}

// Locker is the distributed lock surface.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, token string) error
}

var (
	_ Store  = (*Client)(nil)
	_ Locker = (*Client)(nil)
)
