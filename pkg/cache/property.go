package cache

import (
	"context"
	"time"

	"realestate-catalog/pkg/logger"
)

// AddCacheKeyToPropertySet registers cacheKey as derived from propertyID.
func (c *Client) AddCacheKeyToPropertySet(ctx context.Context, propertyID, cacheKey string, expiration time.Duration) error {
	start := time.Now()
	setKey := PropertyKeysSetKey(propertyID)
	pipe := c.rdb.TxPipeline()
	pipe.SAdd(ctx, setKey, cacheKey)
	pipe.Expire(ctx, setKey, expiration)
	_, err := pipe.Exec(ctx)
	RecordOperationDuration("sadd", time.Since(start).Seconds())
	if err != nil {
		IncrementError("sadd")
		logger.GlobalLogger.Errorf("failed to add cache key %s to set %s: %v", cacheKey, setKey, err)
		return NewCacheError("sadd", err, true)
	}
	return nil
}

// InvalidatePropertyCacheKeys drops every key derived from propertyID and
// bumps the search generation. It returns the new generation.
func (c *Client) InvalidatePropertyCacheKeys(ctx context.Context, propertyID string) (int64, error) {
	start := time.Now()
	gen, err := invalidatePropertyCacheScript.Run(ctx, c.rdb,
		[]string{PropertyKeysSetKey(propertyID), SearchGenerationKey()}).Int64()
	RecordOperationDuration("invalidate_cache", time.Since(start).Seconds())
	if err != nil {
		IncrementError("invalidate_cache")
		logger.GlobalLogger.Errorf("failed to execute invalidate property cache script for property %s: %v", propertyID, err)
		return 0, NewCacheError("invalidate_cache", err, true)
	}
	return gen, nil
}
