package validators

import (
	"strings"

	apperrors "realestate-catalog/internal/errors"
	"realestate-catalog/internal/models"
	"realestate-catalog/pkg/imagehost"
)

type imageValidator struct {
	maxBytes int64
}

func NewImageValidator() ImageValidator {
	return &imageValidator{maxBytes: imagehost.MaxUploadBytes}
}

func (v *imageValidator) ValidateUpload(upload *models.ImageUpload) error {
	if strings.TrimSpace(upload.FileName) == "" {
		return apperrors.Validation("file is required")
	}
	if upload.Size <= 0 {
		return apperrors.Validation("file is empty")
	}
	if upload.Size > v.maxBytes {
		return apperrors.Validation("file exceeds %d MB", v.maxBytes>>20)
	}
	if !imagehost.Allowed(upload.ContentType) {
		return apperrors.Validation("unsupported image type %q", upload.ContentType)
	}
	return nil
}
