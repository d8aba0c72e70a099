package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"poscan/internal/domain"
	"poscan/internal/extract"
	"poscan/internal/schema"
)

// respondMessage writes the plain {"message": ...} error body the frontend
// contract expects.
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// HandleError maps a pipeline error onto an HTTP status and sends the
// error response. Upstream and internal failures are logged with the
// request id; client faults are not.
func HandleError(c *gin.Context, err error) {
	status, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] %d error: %v", requestID, status, err)
	}
	respondMessage(c, status, msg)
}

func mapError(err error) (int, string) {
	var validationErr *schema.ValidationError
	var upstreamErr *extract.UpstreamError

	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrInvalidOrderID),
		errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, "document extraction provider failed"
	default:
		return http.StatusInternalServerError, "an internal error occurred"
	}
}
