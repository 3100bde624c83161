package ui

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "goeda/internal/errors"
)

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	var maxBytes *http.MaxBytesError
	if stderrors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	switch apperrors.GetCode(err) {
	case apperrors.CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case apperrors.CodeParseFailure:
		return http.StatusUnprocessableEntity
	case apperrors.CodeTableNotFound, apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeColumnNotFound, apperrors.CodeEmptyRequest,
		apperrors.CodeInvalidInput, apperrors.CodeValidationError:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes {"error", "code", "details"} with the mapped status
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[Server] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	body := gin.H{"error": err.Error(), "code": apperrors.GetCode(err)}
	if details := apperrors.GetDetails(err); len(details) > 0 {
		body["details"] = details
	}
	c.JSON(status, body)
}
