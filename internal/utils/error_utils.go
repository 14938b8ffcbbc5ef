package utils

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"realestate-catalog/internal/errors"
	"realestate-catalog/pkg/cache"
	"realestate-catalog/pkg/logger"
)

// LogAndMapError logs technical details and returns a user-friendly AppError.
func LogAndMapError(ctx context.Context, err error, operation string, params ...interface{}) *errors.AppError {
	appErr := errors.MapError(err)
	if appErr == nil {
		return nil
	}

	var details strings.Builder
	for i := 0; i+1 < len(params); i += 2 {
		fmt.Fprintf(&details, " %v=%v", params[i], params[i+1])
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.GlobalLogger.Errorf("%s failed: %s%s", operation, appErr.TechnicalMessage, details.String())
	} else {
		logger.GlobalLogger.Debugf("%s rejected: %s%s", operation, appErr.TechnicalMessage, details.String())
	}
	return appErr
}

// WrapError adds context to an error while preserving the original.
func WrapError(err error, message string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(message, args...), err)
}

// IsRetryableError determines if an error is transient and worth retrying.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var cacheErr *cache.CacheError
	if stderrors.As(err, &cacheErr) {
		return cacheErr.Retryable
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus == http.StatusServiceUnavailable ||
			strings.Contains(appErr.TechnicalMessage, "timeout") ||
			strings.Contains(appErr.TechnicalMessage, "connection")
	}
	if errors.Is(err, errors.ErrDependencyFailure) {
		return true
	}
	return strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "connection")
}
