package validators

import (
	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
)

type traceValidator struct{}

func NewTraceValidator() TraceValidator {
	return &traceValidator{}
}

func (v *traceValidator) ValidateCreate(in *models.TraceInput) error {
	if blank(in.IdProperty) {
		return apperrors.Validation("idProperty is required")
	}
	if blank(in.Name) {
		return apperrors.Validation("name is required")
	}
	if in.DateSale == nil || in.DateSale.IsZero() {
		return apperrors.Validation("dateSale is required")
	}
	if in.Value == nil {
		return apperrors.Validation("value is required")
	}
	return checkStruct(in)
}

func (v *traceValidator) ValidateUpdate(in *models.TraceInput) error {
	if setButBlank(in.Name) {
		return apperrors.Validation("name cannot be blank")
	}
	if in.DateSale != nil && in.DateSale.IsZero() {
		return apperrors.Validation("dateSale cannot be empty")
	}
	return checkStruct(in)
}
