package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TryLock sets key to a fresh token if it is free. ok is false when another
// holder owns the key.
func (c *Client) TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error) {
	start := time.Now()
	token = uuid.NewString()
	ok, err = c.rdb.SetNX(ctx, key, token, ttl).Result()
	RecordOperationDuration("lock", time.Since(start).Seconds())
	if err != nil {
		IncrementError("lock")
		return "", false, NewCacheError("lock", err, true)
	}
	return token, ok, nil
}

// Unlock releases key if it is still held with token.
func (c *Client) Unlock(ctx context.Context, key, token string) error {
	start := time.Now()
	err := releaseLockScript.Run(ctx, c.rdb, []string{key}, token).Err()
	RecordOperationDuration("unlock", time.Since(start).Seconds())
	if err != nil {
		IncrementError("unlock")
		return NewCacheError("unlock", err, true)
	}
	return nil
}
