// Package httputil maps domain errors onto JSON HTTP responses.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ugcforge/credvault/internal/errors"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorMapping pairs a sentinel with its status and public body. Order
// matters: the first sentinel found in the error chain wins.
var errorMapping = []struct {
	target   error
	status   int
	response ErrorResponse
	// exposeMessage replaces Message with err.Error().
	exposeMessage bool
}{
	{apperrors.ErrNotFound, http.StatusNotFound, ErrorResponse{
		Error: "not_found", Message: "The requested resource was not found",
	}, false},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, ErrorResponse{
		Error: "invalid_input",
	}, true},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, ErrorResponse{
		Error: "unauthorized", Message: "The master password was rejected",
	}, false},
	{apperrors.ErrConflict, http.StatusConflict, ErrorResponse{
		Error: "conflict", Message: "A conflict occurred with existing data",
	}, false},
	{apperrors.ErrForbidden, http.StatusForbidden, ErrorResponse{
		Error: "forbidden", Message: "You don't have permission to perform this operation",
	}, false},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, ErrorResponse{
		Error: "unavailable",
	}, true},
}

// HandleErrorGin writes the status and body mapped from err. Unknown errors
// become a 500 without details; the full chain is always logged.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	errorResponse := ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}

	for _, m := range errorMapping {
		if apperrors.Is(err, m.target) {
			statusCode = m.status
			errorResponse = m.response
			if m.exposeMessage {
				errorResponse.Message = err.Error()
			}
			break
		}
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 for malformed JSON.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 for request validation failures.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
