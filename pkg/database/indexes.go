package database

import (
	"context"
	"fmt"
	"time"

	"realestate-catalog/internal/models"
	"realestate-catalog/pkg/logger"
	"realestate-catalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexPlan lists the indexes each catalog collection needs.
func IndexPlan() map[string][]mongo.IndexModel {
	byProperty := mongo.IndexModel{Keys: bson.D{{Key: "IdProperty", Value: 1}}}
	return map[string][]mongo.IndexModel{
		models.PropertyCollection: {
			{
				Keys:    bson.D{{Key: "CodigoInternal", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_codigo_internal"),
			},
			{Keys: bson.D{{Key: "IdOwner", Value: 1}}},
			{Keys: bson.D{{Key: "Price", Value: 1}}},
			{Keys: bson.D{{Key: "CreatedAt", Value: -1}}},
		},
		models.OwnerCollection: {
			{
				Keys:    bson.D{{Key: "Email", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_email"),
			},
		},
		models.ImageCollection: {
			byProperty,
			{Keys: bson.D{{Key: "IdProperty", Value: 1}, {Key: "Enabled", Value: 1}, {Key: "IsMain", Value: -1}}},
			{Keys: bson.D{{Key: "CloudinaryPublicId", Value: 1}}},
		},
		models.PlaceCollection: {
			{
				Keys:    bson.D{{Key: "IdProperty", Value: 1}, {Key: "Name", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_property_tag"),
			},
			{Keys: bson.D{{Key: "Name", Value: 1}, {Key: "Value", Value: 1}}},
		},
		models.TraceCollection: {
			{Keys: bson.D{{Key: "IdProperty", Value: 1}, {Key: "DateSale", Value: -1}}},
		},
	}
}

// EnsureIndexes creates every index from IndexPlan. Existing indexes with the
// same definition are left untouched by the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, idx := range IndexPlan() {
		start := time.Now()
		_, err := db.Collection(collection).Indexes().CreateMany(ctx, idx)
		metrics.MongoOperationDuration.WithLabelValues("create_indexes", collection).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.MongoErrorsTotal.WithLabelValues("create_indexes", collection).Inc()
			logger.GlobalLogger.Errorf("Failed to create indexes on %s: %v", collection, err)
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	logger.GlobalLogger.Println("MongoDB indexes created successfully.")
	return nil
}
