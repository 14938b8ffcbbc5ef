package cache

import (
	"context"
	"time"

	"realestate-catalog/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// Set stores value under key, JSON encoded and zstd compressed.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	start := time.Now()
	data, err := Encode(value)
	if err != nil {
		IncrementError("set_marshal")
		logger.GlobalLogger.Errorf("failed to marshal value for key %s: %v", key, err)
		return NewCacheError("marshal", err, false)
	}
	err = c.rdb.Set(ctx, key, data, expiration).Err()
	RecordOperationDuration("set", time.Since(start).Seconds())
	if err != nil {
		IncrementError("set")
		logger.GlobalLogger.Errorf("failed to set key %s: %v", key, err)
		return NewCacheError("set", err, true)
	}
	return nil
}

// Get loads key into dest. A missing key returns ErrMiss.
func (c *Client) Get(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Bytes()
	RecordOperationDuration("get", time.Since(start).Seconds())
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		IncrementError("get")
		logger.GlobalLogger.Errorf("failed to get key %s: %v", key, err)
		return NewCacheError("get", err, true)
	}
	if err := Decode(val, dest); err != nil {
		IncrementError("get_unmarshal")
		logger.GlobalLogger.Errorf("failed to unmarshal value for key %s: %v", key, err)
		return NewCacheError("unmarshal", err, false)
	}
	return nil
}

// Delete removes keys from the cache.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.rdb.Del(ctx, keys...).Err()
	RecordOperationDuration("delete", time.Since(start).Seconds())
	if err != nil {
		IncrementError("delete")
		logger.GlobalLogger.Errorf("failed to delete keys %v: %v", keys, err)
		return NewCacheError("delete", err, true)
	}
	return nil
}

// Exists checks if a key exists in the cache.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	count, err := c.rdb.Exists(ctx, key).Result()
	RecordOperationDuration("exists", time.Since(start).Seconds())
	if err != nil {
		IncrementError("exists")
		logger.GlobalLogger.Errorf("failed to check existence of key %s: %v", key, err)
		return false, NewCacheError("exists", err, true)
	}
	return count > 0, nil
}

// Counter reads an integer key, treating a missing key as zero.
func (c *Client) Counter(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	n, err := c.rdb.Get(ctx, key).Int64()
	RecordOperationDuration("counter", time.Since(start).Seconds())
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		IncrementError("counter")
		return 0, NewCacheError("counter", err, true)
	}
	return n, nil
}

// Incr bumps an integer key and returns the new value.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	n, err := c.rdb.Incr(ctx, key).Result()
	RecordOperationDuration("incr", time.Since(start).Seconds())
	if err != nil {
		IncrementError("incr")
		logger.GlobalLogger.Errorf("failed to increment key %s: %v", key, err)
		return 0, NewCacheError("incr", err, true)
	}
	return n, nil
}
