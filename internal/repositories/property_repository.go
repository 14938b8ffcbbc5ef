package repositories

import (
	"context"

	"realestate-catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type propertyRepository struct {
	*mongoRepository[models.Property, *models.Property]
}

func NewPropertyRepository(db *mongo.Database) PropertyRepository {
	return &propertyRepository{newMongoRepository[models.Property, *models.Property](db, models.PropertyCollection)}
}

func (r *propertyRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	return r.count(ctx, filter)
}

func (r *propertyRepository) Find(ctx context.Context, filter, sort bson.D, skip, limit int64) ([]models.Property, error) {
	findOptions := options.Find().SetSort(sort).SetSkip(skip)
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	return r.find(ctx, filter, findOptions)
}

func (r *propertyRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	if len(ids) == 0 {
		return []models.Property{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *propertyRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Property, error) {
	return r.find(ctx, bson.M{"IdOwner": ownerID}, options.Find().SetSort(bson.D{{Key: "CreatedAt", Value: -1}}))
}

// ExistsByCodigoInternal reports whether another property uses code. excludeID
// may be the zero id.
func (r *propertyRepository) ExistsByCodigoInternal(ctx context.Context, code string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"CodigoInternal": code}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.exists(ctx, filter)
}

// ExistingIDs returns the subset of ids that still have a property document.
func (r *propertyRepository) ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	found := make(map[primitive.ObjectID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	present, err := r.distinctIDs(ctx, "_id", bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, id := range present {
		found[id] = true
	}
	return found, nil
}
