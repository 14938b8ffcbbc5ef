package services

import (
	"context"
	"time"

	"realestate-catalog/internal/repositories"
	"realestate-catalog/pkg/events"
	"realestate-catalog/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PropertyTTL is how long hydrated property details stay cached.
const PropertyTTL = 24 * time.Hour

// Data sources recorded on the request for the access log.
const (
	SourceCache    = "REDIS"
	SourceDatabase = "DATABASE"
)

// setDataSource records where a read was served from when ctx is a gin request.
func setDataSource(ctx context.Context, source string, cacheHit bool) {
	if ginCtx, ok := ctx.(*gin.Context); ok && ginCtx != nil {
		ginCtx.Set("data_source", source)
		ginCtx.Set("cache_hit", cacheHit)
	}
}

// publish sends a domain event. Broker failures are logged and never fail the write.
func publish(ctx context.Context, publisher events.Publisher, routingKey, aggregateID string, data interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events.NewEvent(routingKey, aggregateID, data)); err != nil {
		logger.GlobalLogger.Errorf("Failed to publish %s for %s: %v", routingKey, aggregateID, err)
	}
}

// invalidateProperty drops the cached details of a property and every cached
// search page. Cache failures are logged and otherwise ignored.
func invalidateProperty(ctx context.Context, cache repositories.PropertyCache, id string) {
	if err := cache.InvalidateProperty(ctx, id); err != nil {
		logger.GlobalLogger.Errorf("Failed to invalidate property %s: %v", id, err)
	}
	if err := cache.InvalidateSearches(ctx); err != nil {
		logger.GlobalLogger.Errorf("Failed to invalidate searches: %v", err)
	}
}
