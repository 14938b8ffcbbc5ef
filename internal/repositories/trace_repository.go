package repositories

import (
	"context"

	"realestate-catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type traceRepository struct {
	*mongoRepository[models.PropertyTrace, *models.PropertyTrace]
}

func NewTraceRepository(db *mongo.Database) TraceRepository {
	return &traceRepository{newMongoRepository[models.PropertyTrace, *models.PropertyTrace](db, models.TraceCollection)}
}

// FindByPropertyID returns the sale history, most recent sale first.
func (r *traceRepository) FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID) ([]models.PropertyTrace, error) {
	return r.find(ctx, bson.M{"IdProperty": propertyID},
		options.Find().SetSort(bson.D{{Key: "DateSale", Value: -1}}))
}

func (r *traceRepository) DeleteByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (int64, error) {
	return r.deleteMany(ctx, bson.M{"IdProperty": propertyID})
}

func (r *traceRepository) DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return r.distinctIDs(ctx, "IdProperty", bson.D{})
}
