package repositories

import (
	"context"
	"time"

	"realestate-catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type imageRepository struct {
	*mongoRepository[models.PropertyImage, *models.PropertyImage]
}

func NewImageRepository(db *mongo.Database) ImageRepository {
	return &imageRepository{newMongoRepository[models.PropertyImage, *models.PropertyImage](db, models.ImageCollection)}
}

// FindByPropertyIDs returns every image of the given properties in storage order.
func (r *imageRepository) FindByPropertyIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PropertyImage, error) {
	if len(ids) == 0 {
		return []models.PropertyImage{}, nil
	}
	return r.find(ctx, byPropertyIDs(ids))
}

// FindByPropertyID lists a property's images. With enabledOnly the main image
// comes first, then oldest first.
func (r *imageRepository) FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID, enabledOnly bool) ([]models.PropertyImage, error) {
	filter := bson.M{"IdProperty": propertyID}
	opts := options.Find().SetSort(bson.D{{Key: "CreatedAt", Value: 1}})
	if enabledOnly {
		filter["Enabled"] = true
		opts.SetSort(bson.D{{Key: "IsMain", Value: -1}, {Key: "CreatedAt", Value: 1}})
	}
	return r.find(ctx, filter, opts)
}

func (r *imageRepository) FindMain(ctx context.Context, propertyID primitive.ObjectID) (*models.PropertyImage, error) {
	return r.findOne(ctx, bson.M{"IdProperty": propertyID, "IsMain": true, "Enabled": true},
		options.FindOne().SetSort(bson.D{{Key: "UpdatedAt", Value: -1}}))
}

// MarkMain flags imageID as main if it is an enabled image of propertyID.
// It reports whether such an image exists; marking an image that is already
// main still reports true.
// markMainFilter matches the image only while it is enabled and belongs to the property.
func markMainFilter(propertyID, imageID primitive.ObjectID) bson.M {
	return bson.M{"_id": imageID, "IdProperty": propertyID, "Enabled": true}
}

// clearMainFilter matches every other main image of the property.
func clearMainFilter(propertyID, keepID primitive.ObjectID) bson.M {
	return bson.M{"IdProperty": propertyID, "IsMain": true, "_id": bson.M{"$ne": keepID}}
}

func (r *imageRepository) MarkMain(ctx context.Context, propertyID, imageID primitive.ObjectID) (bool, error) {
	result, err := r.updateOne(ctx,
		markMainFilter(propertyID, imageID),
		bson.M{"$set": bson.M{"IsMain": true, "UpdatedAt": r.now()}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// ClearMainExcept unsets the main flag on every other image of propertyID.
func (r *imageRepository) ClearMainExcept(ctx context.Context, propertyID, keepID primitive.ObjectID) (int64, error) {
	result, err := r.updateMany(ctx,
		clearMainFilter(propertyID, keepID),
		bson.M{"$set": bson.M{"IsMain": false, "UpdatedAt": r.now()}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// Disable soft-deletes an image and drops its main flag.
func (r *imageRepository) Disable(ctx context.Context, propertyID, imageID primitive.ObjectID) (bool, error) {
	result, err := r.updateOne(ctx,
		bson.M{"_id": imageID, "IdProperty": propertyID},
		bson.M{"$set": bson.M{"Enabled": false, "IsMain": false, "UpdatedAt": r.now()}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *imageRepository) DeleteByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (int64, error) {
	return r.deleteMany(ctx, bson.M{"IdProperty": propertyID})
}

func (r *imageRepository) DeleteByPublicID(ctx context.Context, publicID string) (int64, error) {
	return r.deleteMany(ctx, bson.M{"CloudinaryPublicId": publicID})
}

// PropertiesWithMultipleMains finds properties violating the single main image rule.
func (r *imageRepository) PropertiesWithMultipleMains(ctx context.Context) ([]primitive.ObjectID, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"IsMain": true, "Enabled": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$IdProperty", "count": bson.M{"$sum": 1}}}},
		{{Key: "$match", Value: bson.M{"count": bson.M{"$gt": 1}}}},
	}
	start := time.Now()
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	r.observe("aggregate", start, err)
	if err != nil {
		return nil, r.fail("aggregate", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, r.fail("cursor_all", err)
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// DistinctPropertyIDs lists every property id referenced by an image.
func (r *imageRepository) DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return r.distinctIDs(ctx, "IdProperty", bson.D{})
}
