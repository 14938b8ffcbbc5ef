package repositories

import (
	"context"
	"errors"
	"time"

	"realestate-catalog/internal/models"
	"realestate-catalog/pkg/cache"
	"realestate-catalog/pkg/metrics"
)

type propertyCache struct {
	store cache.Store
}

func NewPropertyCache(store cache.Store) PropertyCache {
	return &propertyCache{store: store}
}

// Generation is the current catalog write generation. Every write bumps it.
func (c *propertyCache) Generation(ctx context.Context) (int64, error) {
	return c.store.Counter(ctx, cache.SearchGenerationKey())
}

func (c *propertyCache) GetProperty(ctx context.Context, generation int64, id string) (*models.Property, error) {
	var property models.Property
	err := c.store.Get(ctx, cache.PropertyKey(generation, id), &property)
	if errors.Is(err, cache.ErrMiss) {
		metrics.CacheMissesTotal.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	metrics.CacheHitsTotal.Inc()
	return &property, nil
}

func (c *propertyCache) SetProperty(ctx context.Context, generation int64, property *models.Property, expiration time.Duration) error {
	id := property.ID.Hex()
	key := cache.PropertyKey(generation, id)
	if err := c.store.Set(ctx, key, property, expiration); err != nil {
		return err
	}
	return c.store.AddCacheKeyToPropertySet(ctx, id, key, expiration)
}

func (c *propertyCache) InvalidateProperty(ctx context.Context, id string) error {
	_, err := c.store.InvalidatePropertyCacheKeys(ctx, id)
	return err
}

// SearchKey derives the cache key of a search input at the current generation.
func (c *propertyCache) SearchKey(ctx context.Context, input interface{}) (string, error) {
	gen, err := c.Generation(ctx)
	if err != nil {
		return "", err
	}
	return cache.SearchKey(gen, input), nil
}

func (c *propertyCache) GetSearch(ctx context.Context, key string) (*models.PagedResult[models.Property], error) {
	var result models.PagedResult[models.Property]
	err := c.store.Get(ctx, key, &result)
	if errors.Is(err, cache.ErrMiss) {
		metrics.CacheMissesTotal.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	metrics.CacheHitsTotal.Inc()
	return &result, nil
}

func (c *propertyCache) SetSearch(ctx context.Context, key string, result *models.PagedResult[models.Property], expiration time.Duration) error {
	return c.store.Set(ctx, key, result, expiration)
}

func (c *propertyCache) InvalidateSearches(ctx context.Context) error {
	_, err := c.store.Incr(ctx, cache.SearchGenerationKey())
	return err
}

type nopPropertyCache struct{}

// NewNopPropertyCache is used when Redis is not configured. Every read misses.
func NewNopPropertyCache() PropertyCache {
	return nopPropertyCache{}
}

func (nopPropertyCache) Generation(context.Context) (int64, error) { return 0, nil }
func (nopPropertyCache) GetProperty(context.Context, int64, string) (*models.Property, error) {
	return nil, nil
}
func (nopPropertyCache) SetProperty(context.Context, int64, *models.Property, time.Duration) error {
	return nil
}
func (nopPropertyCache) InvalidateProperty(context.Context, string) error { return nil }
func (nopPropertyCache) SearchKey(context.Context, interface{}) (string, error) {
	return "", nil
}
func (nopPropertyCache) GetSearch(context.Context, string) (*models.PagedResult[models.Property], error) {
	return nil, nil
}
func (nopPropertyCache) SetSearch(context.Context, string, *models.PagedResult[models.Property], time.Duration) error {
	return nil
}
func (nopPropertyCache) InvalidateSearches(context.Context) error { return nil }
