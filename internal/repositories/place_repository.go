package repositories

import (
	"context"
	"time"

	"realestate-catalog/internal/models"
	"realestate-catalog/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type placeRepository struct {
	*mongoRepository[models.PropertyPlace, *models.PropertyPlace]
}

func NewPlaceRepository(db *mongo.Database) PlaceRepository {
	return &placeRepository{newMongoRepository[models.PropertyPlace, *models.PropertyPlace](db, models.PlaceCollection)}
}

func (r *placeRepository) FindByPropertyIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PropertyPlace, error) {
	if len(ids) == 0 {
		return []models.PropertyPlace{}, nil
	}
	return r.find(ctx, byPropertyIDs(ids))
}

func (r *placeRepository) FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID) ([]models.PropertyPlace, error) {
	return r.find(ctx, bson.M{"IdProperty": propertyID})
}

// MatchPropertyIDs returns the properties having a place tagged tag whose value contains term.
func (r *placeRepository) MatchPropertyIDs(ctx context.Context, tag, term string) ([]primitive.ObjectID, error) {
	return r.distinctIDs(ctx, "IdProperty", bson.M{
		"Name":  query.Exact(tag),
		"Value": query.Contains(term),
	})
}

// MatchAnyPropertyIDs returns the properties matching at least one tag/term pair.
func (r *placeRepository) MatchAnyPropertyIDs(ctx context.Context, terms map[string]string) ([]primitive.ObjectID, error) {
	if len(terms) == 0 {
		return []primitive.ObjectID{}, nil
	}
	or := bson.A{}
	for tag, term := range terms {
		or = append(or, bson.M{"Name": query.Exact(tag), "Value": query.Contains(term)})
	}
	return r.distinctIDs(ctx, "IdProperty", bson.M{"$or": or})
}

// Upsert writes the place for (IdProperty, Name), replacing any existing
// value so a property keeps one place per tag.
func (r *placeRepository) Upsert(ctx context.Context, place *models.PropertyPlace) error {
	now := r.now()
	place.Name = models.CanonicalTag(place.Name)
	set := bson.M{
		"Value":     place.Value,
		"PlaceType": place.PlaceType,
		"UpdatedAt": now,
	}
	unset := bson.M{}
	for field, v := range map[string]*float64{"Latitude": place.Latitude, "Longitude": place.Longitude} {
		if v != nil {
			set[field] = *v
		} else {
			unset[field] = ""
		}
	}
	if place.Geohash != "" {
		set["Geohash"] = place.Geohash
	} else {
		unset["Geohash"] = ""
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"CreatedAt": now},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	start := time.Now()
	var stored models.PropertyPlace
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"IdProperty": place.IdProperty, "Name": place.Name},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&stored)
	r.observe("upsert", start, err)
	if err != nil {
		return r.fail("upsert", err)
	}
	*place = stored
	return nil
}

func (r *placeRepository) DeleteByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (int64, error) {
	return r.deleteMany(ctx, bson.M{"IdProperty": propertyID})
}

func (r *placeRepository) DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return r.distinctIDs(ctx, "IdProperty", bson.D{})
}
