package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dallaire44/liftingdiarycourse/internal/database/workouts"
	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

// WorkoutStore is the data access layer the workouts controller depends on.
type WorkoutStore interface {
	ListWorkouts(userID uint, opts workouts.ListOptions) ([]entities.Workout, error)
	GetWorkout(userID, id uint) (*entities.Workout, error)
	CreateWorkout(userID uint, input workouts.WorkoutInput) (*entities.Workout, error)
	UpdateWorkout(userID, id uint, update workouts.WorkoutUpdate) (*entities.Workout, error)
	DeleteWorkout(userID, id uint) (bool, error)
	CompleteWorkout(userID, id uint) (*entities.Workout, error)
}

// WorkoutsController serves the workout endpoints. Every operation is scoped
// to the authenticated user; a request for another user's workout is
// indistinguishable from a request for one that does not exist.
type WorkoutsController struct {
	store WorkoutStore
}

func NewWorkoutsController(store WorkoutStore) *WorkoutsController {
	return &WorkoutsController{store: store}
}

func (ctrl *WorkoutsController) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/workouts")
	group.GET("", ctrl.List)
	group.POST("", ctrl.Create)
	group.GET("/:id", ctrl.Get)
	group.PATCH("/:id", ctrl.Update)
	group.DELETE("/:id", ctrl.Delete)
	group.POST("/:id/complete", ctrl.Complete)
}

// List returns the user's workouts, most recent first. Optional `from` and
// `to` query parameters bound the started_at range and
// `include_templates=true` includes workout templates.
func (ctrl *WorkoutsController) List(c *gin.Context) {
	userID := GetUserID(c)

	from, err := parseDateQuery(c, "from")
	if err != nil {
		respondBadRequest(c, "invalid from date")
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		respondBadRequest(c, "invalid to date")
		return
	}

	opts := workouts.ListOptions{
		From:             from,
		To:               to,
		IncludeTemplates: c.Query("include_templates") == "true",
	}

	list, err := ctrl.store.ListWorkouts(userID, opts)
	if err != nil {
		respondInternalError(c, err, "listing workouts")
		return
	}
	c.JSON(200, gin.H{"workouts": list, "count": len(list)})
}

func (ctrl *WorkoutsController) Get(c *gin.Context) {
	userID := GetUserID(c)
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workout, err := ctrl.store.GetWorkout(userID, workoutID)
	if err != nil {
		respondStoreError(c, err, "fetching workout")
		return
	}
	c.JSON(200, workout)
}

func (ctrl *WorkoutsController) Create(c *gin.Context) {
	userID := GetUserID(c)

	var input workouts.WorkoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	workout, err := ctrl.store.CreateWorkout(userID, input)
	if err != nil {
		respondStoreError(c, err, "creating workout")
		return
	}
	respondCreated(c, workout)
}

// Update applies a partial update. Absent fields keep their stored values;
// a present exercises array (even an empty one) replaces the whole
// exercise/set tree atomically.
func (ctrl *WorkoutsController) Update(c *gin.Context) {
	userID := GetUserID(c)
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var update workouts.WorkoutUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	workout, err := ctrl.store.UpdateWorkout(userID, workoutID, update)
	if err != nil {
		respondStoreError(c, err, "updating workout")
		return
	}
	c.JSON(200, workout)
}

func (ctrl *WorkoutsController) Delete(c *gin.Context) {
	userID := GetUserID(c)
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := ctrl.store.DeleteWorkout(userID, workoutID)
	if err != nil {
		respondInternalError(c, err, "deleting workout")
		return
	}
	if !deleted {
		respondNotFound(c, "workout")
		return
	}
	respondSuccess(c, "workout deleted")
}

// Complete stamps the workout's completion time. Completing an already
// completed workout is a no-op that keeps the original timestamp.
func (ctrl *WorkoutsController) Complete(c *gin.Context) {
	userID := GetUserID(c)
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workout, err := ctrl.store.CompleteWorkout(userID, workoutID)
	if err != nil {
		respondStoreError(c, err, "completing workout")
		return
	}
	c.JSON(200, workout)
}
