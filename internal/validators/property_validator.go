package validators

import (
	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
)

type propertyValidator struct {
	maxPageSize int
}

func NewPropertyValidator(maxPageSize int) PropertyValidator {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &propertyValidator{maxPageSize: maxPageSize}
}

func (v *propertyValidator) ValidateCreate(in *models.PropertyInput) error {
	if blank(in.Name) || blank(in.Address) {
		return apperrors.Validation("name and address are required")
	}
	if in.Price == nil {
		return apperrors.Validation("price is required")
	}
	if blank(in.IdOwner) {
		return apperrors.Validation("idOwner is required")
	}
	return checkStruct(in)
}

func (v *propertyValidator) ValidateUpdate(in *models.PropertyInput) error {
	if setButBlank(in.Name) || setButBlank(in.Address) || setButBlank(in.IdOwner) {
		return apperrors.Validation("name, address and idOwner cannot be blank")
	}
	return checkStruct(in)
}

func (v *propertyValidator) ValidateSearch(f *models.PropertyFilter) error {
	if f.Page < 1 {
		return apperrors.Validation("page must be at least 1")
	}
	if f.PageSize < 1 || f.PageSize > v.maxPageSize {
		return apperrors.Validation("pageSize must be between 1 and %d", v.maxPageSize)
	}
	return v.ValidatePriceRange(f.MinPrice, f.MaxPrice)
}

func (v *propertyValidator) ValidatePriceRange(min, max *float64) error {
	if (min != nil && *min < 0) || (max != nil && *max < 0) {
		return apperrors.Validation("prices must be non-negative")
	}
	if min != nil && max != nil && *min > *max {
		return apperrors.Validation("minPrice must not exceed maxPrice")
	}
	return nil
}
