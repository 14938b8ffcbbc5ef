package handlers

import (
	"context"
	"io"

	"realestate-catalog/internal/models"
)

type PropertyReader interface {
	SearchProperties(ctx context.Context, f models.PropertyFilter) (*models.PagedResult[models.Property], error)
	GetPropertyWithDetails(ctx context.Context, id string) (*models.Property, error)
	GetPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
	GetPropertiesByPriceRange(ctx context.Context, min, max *float64) ([]models.Property, error)
	GetPropertiesByLocation(ctx context.Context, city, state, country string) ([]models.Property, error)
}

type PropertyWriter interface {
	Create(ctx context.Context, in *models.PropertyInput) (*models.Property, error)
	Update(ctx context.Context, id string, in *models.PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, id string) error
	ExistsByCodigoInternal(ctx context.Context, code string) (bool, error)
}

type OwnerManager interface {
	GetAll(ctx context.Context) ([]models.Owner, error)
	GetByID(ctx context.Context, id string) (*models.Owner, error)
	GetByEmail(ctx context.Context, email string) (*models.Owner, error)
	SearchByName(ctx context.Context, name string) ([]models.Owner, error)
	Create(ctx context.Context, in *models.OwnerInput) (*models.Owner, error)
	Update(ctx context.Context, id string, in *models.OwnerInput) (*models.Owner, error)
	Delete(ctx context.Context, id string) error
}

type ImageManager interface {
	Upload(ctx context.Context, propertyID string, upload *models.ImageUpload, file io.Reader) (*models.PropertyImage, error)
	GetImages(ctx context.Context, propertyID string, enabledOnly bool) ([]models.PropertyImage, error)
	GetMainImage(ctx context.Context, propertyID string) (*models.PropertyImage, error)
	SetMainImage(ctx context.Context, propertyID, imageID string) error
	DisableImage(ctx context.Context, propertyID, imageID string) error
	DeleteImage(ctx context.Context, propertyID, imageID string) error
	GetResponsiveURLs(ctx context.Context, propertyID, imageID string) (*models.ResponsiveURLs, error)
}

type PlaceManager interface {
	GetByProperty(ctx context.Context, propertyID string) ([]models.PropertyPlace, error)
	Upsert(ctx context.Context, propertyID string, in *models.PlaceInput) (*models.PropertyPlace, error)
	Delete(ctx context.Context, id string) error
}

type TraceManager interface {
	GetAll(ctx context.Context) ([]models.PropertyTrace, error)
	GetByID(ctx context.Context, id string) (*models.PropertyTrace, error)
	GetByProperty(ctx context.Context, propertyID string) ([]models.PropertyTrace, error)
	Create(ctx context.Context, in *models.TraceInput) (*models.PropertyTrace, error)
	Update(ctx context.Context, id string, in *models.TraceInput) (*models.PropertyTrace, error)
	Delete(ctx context.Context, id string) error
	DeleteByProperty(ctx context.Context, propertyID string) (int64, error)
}
