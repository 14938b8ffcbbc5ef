package validators

import (
	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
)

type ownerValidator struct{}

func NewOwnerValidator() OwnerValidator {
	return &ownerValidator{}
}

func (v *ownerValidator) ValidateCreate(in *models.OwnerInput) error {
	if blank(in.Name) {
		return apperrors.Validation("name is required")
	}
	return checkStruct(in)
}

func (v *ownerValidator) ValidateUpdate(in *models.OwnerInput) error {
	if setButBlank(in.Name) {
		return apperrors.Validation("name cannot be blank")
	}
	return checkStruct(in)
}
