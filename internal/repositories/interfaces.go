package repositories

import (
	"context"
	"time"

	"realestate-catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is single-entity CRUD. Malformed ids fail with InvalidIdentifier;
// GetByID returns nil, nil for a well-formed id with no document; Update and
// Delete report affected counts and leave NotFound to the caller.
type Repository[T any] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, doc *T) error
	Update(ctx context.Context, doc *T) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type PropertyRepository interface {
	Repository[models.Property]
	Count(ctx context.Context, filter bson.D) (int64, error)
	Find(ctx context.Context, filter, sort bson.D, skip, limit int64) ([]models.Property, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Property, error)
	ExistsByCodigoInternal(ctx context.Context, code string, excludeID primitive.ObjectID) (bool, error)
	ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
}

type OwnerRepository interface {
	Repository[models.Owner]
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Owner, error)
	MatchIDsByName(ctx context.Context, term string) ([]primitive.ObjectID, error)
	SearchByName(ctx context.Context, term string) ([]models.Owner, error)
	FindByEmail(ctx context.Context, email string) (*models.Owner, error)
	ExistsByEmail(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error)
}

type ImageRepository interface {
	Repository[models.PropertyImage]
	FindByPropertyIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PropertyImage, error)
	FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID, enabledOnly bool) ([]models.PropertyImage, error)
	FindMain(ctx context.Context, propertyID primitive.ObjectID) (*models.PropertyImage, error)
	MarkMain(ctx context.Context, propertyID, imageID primitive.ObjectID) (bool, error)
	ClearMainExcept(ctx context.Context, propertyID, keepID primitive.ObjectID) (int64, error)
	Disable(ctx context.Context, propertyID, imageID primitive.ObjectID) (bool, error)
	DeleteByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (int64, error)
	DeleteByPublicID(ctx context.Context, publicID string) (int64, error)
	PropertiesWithMultipleMains(ctx context.Context) ([]primitive.ObjectID, error)
	DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type PlaceRepository interface {
	Repository[models.PropertyPlace]
	FindByPropertyIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PropertyPlace, error)
	FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID) ([]models.PropertyPlace, error)
	MatchPropertyIDs(ctx context.Context, tag, term string) ([]primitive.ObjectID, error)
	MatchAnyPropertyIDs(ctx context.Context, terms map[string]string) ([]primitive.ObjectID, error)
	Upsert(ctx context.Context, place *models.PropertyPlace) error
	DeleteByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (int64, error)
	DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

type TraceRepository interface {
	Repository[models.PropertyTrace]
	FindByPropertyID(ctx context.Context, propertyID primitive.ObjectID) ([]models.PropertyTrace, error)
	DeleteByPropertyID(ctx context.Context, propertyID primitive.ObjectID) (int64, error)
	DistinctPropertyIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

// PropertyCache holds hydrated properties and search pages.
type PropertyCache interface {
	Generation(ctx context.Context) (int64, error)
	GetProperty(ctx context.Context, generation int64, id string) (*models.Property, error)
	SetProperty(ctx context.Context, generation int64, property *models.Property, expiration time.Duration) error
	InvalidateProperty(ctx context.Context, id string) error
	SearchKey(ctx context.Context, input interface{}) (string, error)
	GetSearch(ctx context.Context, key string) (*models.PagedResult[models.Property], error)
	SetSearch(ctx context.Context, key string, result *models.PagedResult[models.Property], expiration time.Duration) error
	InvalidateSearches(ctx context.Context) error
}
