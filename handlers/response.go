package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"marketly-backend/service"

	"github.com/gin-gonic/gin"
)

// Error codes returned in the error envelope
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeWrongPassword      = "WRONG_PASSWORD"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeGenerationFailed   = "GENERATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps a service error to its status and code. Errors
// without a mapping are logged and reported as a generic internal error.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, CodeInvalidInput, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, CodeEmailTaken, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, CodeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		respondError(c, http.StatusUnauthorized, CodeWrongPassword, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, CodeUserNotFound, err.Error())
	case errors.Is(err, service.ErrCampaignNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error())
	case service.IsGenerationError(err):
		logger.ErrorContext(c.Request.Context(), "generation failed", "error", err)
		respondError(c, http.StatusInternalServerError, CodeGenerationFailed, "Failed to generate content")
	default:
		logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Internal server error")
	}
}
