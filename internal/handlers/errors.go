package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates service errors into HTTP responses. Expected
// domain failures are logged at Warn with the sanitized message passed on;
// anything else is a 500 with a generic body.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrAlreadyCommitted):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrUnbalanced), errors.Is(err, apperrors.ErrNoExchangeRate):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}
