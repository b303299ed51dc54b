package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "mindshelf/internal/platform/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// StatusFor maps domain sentinel errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrMergeNotEligible), errors.Is(err, apperrors.ErrQuizNotActive),
		errors.Is(err, apperrors.ErrAnalysisInFlight), errors.Is(err, apperrors.ErrActiveSessionExists):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrQuizGenerationFailed), errors.Is(err, apperrors.ErrMergeFailed):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrNoActiveSession):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError writes err with the status StatusFor picks.
func RespondDomainError(c *gin.Context, code string, err error) {
	RespondError(c, StatusFor(err), code, err)
}
