package validators

import (
	"realestate-catalog/internal/models"
)

type PropertyValidator interface {
	ValidateCreate(in *models.PropertyInput) error
	ValidateUpdate(in *models.PropertyInput) error
	ValidateSearch(f *models.PropertyFilter) error
	ValidatePriceRange(min, max *float64) error
}

type OwnerValidator interface {
	ValidateCreate(in *models.OwnerInput) error
	ValidateUpdate(in *models.OwnerInput) error
}

type TraceValidator interface {
	ValidateCreate(in *models.TraceInput) error
	ValidateUpdate(in *models.TraceInput) error
}

type PlaceValidator interface {
	ValidatePlace(in *models.PlaceInput) error
}

type ImageValidator interface {
	ValidateUpload(upload *models.ImageUpload) error
}
