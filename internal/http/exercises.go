package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dallaire44/liftingdiarycourse/internal/database/exercises"
	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

// ExerciseStore is the data access layer the exercises controller depends on.
type ExerciseStore interface {
	ListExercises(userID uint) ([]entities.Exercise, error)
	GetExercise(userID, id uint) (*entities.Exercise, error)
	CreateExercise(userID uint, name, muscleGroup string, isCompound bool) (*entities.Exercise, error)
	UpdateExercise(userID, id uint, update exercises.ExerciseUpdate) (*entities.Exercise, error)
	DeleteExercise(userID, id uint) error
}

// ExercisesController serves the exercise catalog endpoints. Reads surface
// the user's own entries merged with the global catalog; writes only ever
// touch user-owned entries.
type ExercisesController struct {
	store ExerciseStore
}

func NewExercisesController(store ExerciseStore) *ExercisesController {
	return &ExercisesController{store: store}
}

func (ctrl *ExercisesController) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/exercises")
	group.GET("", ctrl.List)
	group.POST("", ctrl.Create)
	group.GET("/:id", ctrl.Get)
	group.PATCH("/:id", ctrl.Update)
	group.DELETE("/:id", ctrl.Delete)
}

type createExerciseRequest struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	IsCompound  bool   `json:"is_compound"`
}

func (ctrl *ExercisesController) List(c *gin.Context) {
	userID := GetUserID(c)

	list, err := ctrl.store.ListExercises(userID)
	if err != nil {
		respondInternalError(c, err, "listing exercises")
		return
	}
	c.JSON(200, gin.H{"exercises": list, "count": len(list)})
}

func (ctrl *ExercisesController) Get(c *gin.Context) {
	userID := GetUserID(c)
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	exercise, err := ctrl.store.GetExercise(userID, exerciseID)
	if err != nil {
		respondStoreError(c, err, "fetching exercise")
		return
	}
	c.JSON(200, exercise)
}

func (ctrl *ExercisesController) Create(c *gin.Context) {
	userID := GetUserID(c)

	var req createExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	exercise, err := ctrl.store.CreateExercise(userID, req.Name, req.MuscleGroup, req.IsCompound)
	if err != nil {
		respondStoreError(c, err, "creating exercise")
		return
	}
	respondCreated(c, exercise)
}

func (ctrl *ExercisesController) Update(c *gin.Context) {
	userID := GetUserID(c)
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var update exercises.ExerciseUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	exercise, err := ctrl.store.UpdateExercise(userID, exerciseID, update)
	if err != nil {
		respondStoreError(c, err, "updating exercise")
		return
	}
	c.JSON(200, exercise)
}

// Delete removes a user-owned catalog entry. Entries still referenced by a
// workout are protected and the delete is rejected with a conflict.
func (ctrl *ExercisesController) Delete(c *gin.Context) {
	userID := GetUserID(c)
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.store.DeleteExercise(userID, exerciseID); err != nil {
		respondStoreError(c, err, "deleting exercise")
		return
	}
	respondSuccess(c, "exercise deleted")
}
