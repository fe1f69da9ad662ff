package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dallaire44/liftingdiarycourse/internal/database"
	"github.com/dallaire44/liftingdiarycourse/internal/database/exercises"
	"github.com/dallaire44/liftingdiarycourse/internal/database/users"
	"github.com/dallaire44/liftingdiarycourse/internal/database/workouts"
	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

// Exercises the full no-auth wiring against a real database: the seeded
// default account must be able to log a workout out of the box, with the
// foreign key from workouts to users enforced.
func TestRouter_NoAuthMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dbPath := "./test_router_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer func() {
		db.Close()
		os.Remove(dbPath)
	}()

	defaultUser, err := users.NewRepository(db.DB).EnsureDefaultUser()
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database:      db.DB,
		WorkoutStore:  workouts.NewRepository(db.DB),
		ExerciseStore: exercises.NewRepository(db.DB),
		DefaultUserID: defaultUser.ID,
	})

	// The seeded global catalog is visible without any login
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/exercises", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var catalog struct {
		Exercises []entities.Exercise `json:"exercises"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	require.NotEmpty(t, catalog.Exercises)

	body := fmt.Sprintf(
		`{"name":"Morning session","exercises":[{"exercise_id":%d,"position":0,"sets":[{"set_number":1,"reps":5}]}]}`,
		catalog.Exercises[0].ID,
	)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/workouts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created entities.Workout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, defaultUser.ID, created.UserID)
	require.Len(t, created.Exercises, 1)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/workouts", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
