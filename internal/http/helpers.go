package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dallaire44/liftingdiarycourse/internal/auth"
	"github.com/dallaire44/liftingdiarycourse/internal/database/exercises"
	"github.com/dallaire44/liftingdiarycourse/internal/database/workouts"
	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
// This is the only place handlers may obtain a user identifier; payloads
// and query strings are never trusted for it.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"` // offending field for validation errors
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondStoreError maps the repository error taxonomy onto HTTP statuses:
// not-found-or-unauthorized -> 404, validation -> 400 with the field named,
// uniqueness/restrict conflicts -> 409, anything else -> opaque 500.
func respondStoreError(c *gin.Context, err error, context string) {
	var validationErr *entities.ValidationError
	switch {
	case errors.Is(err, workouts.ErrWorkoutNotFound):
		respondNotFound(c, "workout")
	case errors.Is(err, exercises.ErrExerciseNotFound):
		respondNotFound(c, "exercise")
	case errors.Is(err, exercises.ErrExerciseNameTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "an exercise with this name already exists"})
	case errors.Is(err, exercises.ErrExerciseInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "exercise is referenced by a workout and cannot be deleted"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Message, Field: validationErr.Field})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 and returns false on failure.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseDateQuery parses an optional RFC 3339 date or datetime query
// parameter. A missing parameter yields nil without error.
func parseDateQuery(c *gin.Context, paramName string) (*time.Time, error) {
	value := c.Query(paramName)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
