package validators

import (
	"strings"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
)

type placeValidator struct{}

func NewPlaceValidator() PlaceValidator {
	return &placeValidator{}
}

func (v *placeValidator) ValidatePlace(in *models.PlaceInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Value) == "" {
		return apperrors.Validation("place name and value are required")
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return apperrors.Validation("latitude and longitude must be given together")
	}
	return checkStruct(in)
}
