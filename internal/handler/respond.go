package handler

import (
	"errors"
	"log"
	"net/http"

	"grimoire/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Message string `json:"message" example:"An error message"`
}

// MessageResponse represents a generic confirmation body.
type MessageResponse struct {
	Message string `json:"message" example:"OK"`
}

// respondError maps the service error taxonomy onto HTTP statuses. Conflicts
// answer 400 like validation failures, but keep their own message so the
// client can show a softer notice ("already in your list", "already rated")
// instead of a generic error banner.
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	var conflictErr *service.ConflictError
	var authErr *service.AuthError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Message})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": conflictErr.Message})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"message": authErr.Message})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
