package repositories

import (
	"context"
	"regexp"
	"strings"

	"realestate-catalog/internal/models"
	"realestate-catalog/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ownerRepository struct {
	*mongoRepository[models.Owner, *models.Owner]
}

func NewOwnerRepository(db *mongo.Database) OwnerRepository {
	return &ownerRepository{newMongoRepository[models.Owner, *models.Owner](db, models.OwnerCollection)}
}

func (r *ownerRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Owner, error) {
	if len(ids) == 0 {
		return []models.Owner{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// nameFilter matches owners whose first, last or trimmed full name contains term.
func nameFilter(term string) bson.M {
	fullName := bson.M{"$trim": bson.M{"input": bson.M{"$concat": bson.A{
		bson.M{"$ifNull": bson.A{"$Name", ""}},
		" ",
		bson.M{"$ifNull": bson.A{"$LastName", ""}},
	}}}}
	return bson.M{"$or": bson.A{
		bson.M{"Name": query.Contains(term)},
		bson.M{"LastName": query.Contains(term)},
		bson.M{"$expr": bson.M{"$regexMatch": bson.M{
			"input":   fullName,
			"regex":   regexp.QuoteMeta(term),
			"options": "i",
		}}},
	}}
}

// MatchIDsByName resolves an owner-name term to owner ids inside the store.
func (r *ownerRepository) MatchIDsByName(ctx context.Context, term string) ([]primitive.ObjectID, error) {
	return r.distinctIDs(ctx, "_id", nameFilter(strings.TrimSpace(term)))
}

func (r *ownerRepository) SearchByName(ctx context.Context, term string) ([]models.Owner, error) {
	return r.find(ctx, nameFilter(strings.TrimSpace(term)),
		options.Find().SetSort(bson.D{{Key: "Name", Value: 1}, {Key: "LastName", Value: 1}}))
}

// FindByEmail matches the whole address case-insensitively.
func (r *ownerRepository) FindByEmail(ctx context.Context, email string) (*models.Owner, error) {
	return r.findOne(ctx, bson.M{"Email": query.Exact(strings.TrimSpace(email))})
}

func (r *ownerRepository) ExistsByEmail(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"Email": query.Exact(strings.TrimSpace(email))}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.exists(ctx, filter)
}
