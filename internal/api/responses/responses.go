// Package responses provides standardized HTTP response helpers for the viewer.
package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-directviewer/internal/apperrors"
)

// Messages with fixed wording.
const (
	MsgFileIDRequired = "The `file_id` parameter must be specified."
	MsgFileNotFound   = "File not found"
	MsgInternal       = "Internal server error"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error responds with status and message and aborts the handler chain.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// BadRequest responds with a 400 Bad Request status and error message.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound responds with a 404 Not Found status and error message.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Unauthorized responds with a 401 Unauthorized status and error message.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalServerError responds with a 500 Internal Server Error status.
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FromError answers with the status and user-safe message of an apperrors.Error
// that maps to a client error. Everything else becomes a generic 500.
func FromError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		if status := appErr.HTTPStatus(); status >= 400 && status < 500 {
			Error(c, status, appErr.Message)
			return
		}
	}
	InternalServerError(c, MsgInternal)
}
