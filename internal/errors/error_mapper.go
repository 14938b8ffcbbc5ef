package errors

import (
	stderrors "errors"
	"net/http"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()

	switch {
	case stderrors.Is(err, ErrNotFound):
		return NewAppError(technicalMessage, MsgNotFound, ErrCodeNotFound, http.StatusNotFound, err)
	case stderrors.Is(err, ErrInvalidIdentifier):
		return NewAppError(technicalMessage, MsgInvalidIdentifier, ErrCodeInvalidIdentifier, http.StatusBadRequest, err)
	case stderrors.Is(err, ErrValidation):
		// validation messages are written for the caller, so they are passed through
		return NewAppError(technicalMessage, technicalMessage, ErrCodeInvalidParameters, http.StatusBadRequest, err)
	case stderrors.Is(err, ErrConflict):
		return NewAppError(technicalMessage, technicalMessage, ErrCodeConflict, http.StatusConflict, err)
	case stderrors.Is(err, ErrDependencyFailure):
		return NewAppError(technicalMessage, MsgServiceUnavailable, ErrCodeServiceUnavailable, http.StatusServiceUnavailable, err)
	default:
		return NewAppError(technicalMessage, MsgInternalError, ErrCodeInternal, http.StatusInternalServerError, err)
	}
}
