package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/debatearchive/backend/internal/repository"
)

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// StoreError maps a repository error to its status code. Unknown rows are
// 404; anything else surfaces the store's message as a 500 rather than
// swallowing it.
func StoreError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Not found")
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, err.Error())
}
