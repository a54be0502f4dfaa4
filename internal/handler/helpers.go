package handler

import (
	"errors"
	"net/http"
	"strconv"

	"inventaris/internal/middleware"
	"inventaris/internal/model"
	"inventaris/pkg/apperror"
	"inventaris/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto HTTP statuses. Every sentinel in
// pkg/apperror has exactly one status; anything unrecognized is a 500.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, response.Error(status, err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrAlreadyProcessed), errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// authUser pulls the authenticated caller from the gin context. Routes
// behind RequireAuth always have one; the guard is for misuse.
func authUser(c *gin.Context) (model.AuthUser, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return model.AuthUser{}, false
	}
	return user, true
}

// pathID parses the :id path parameter as an unsigned integer
func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid ID parameter"))
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, key string) uint {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}
