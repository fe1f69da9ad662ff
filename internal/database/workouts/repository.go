// Package workouts provides database operations for the workout hierarchy:
// workouts, their ordered exercises and the sets performed in them.
//
// Every method takes the authenticated user's ID and conjoins it into the
// query predicate. A lookup that misses because the workout belongs to
// another user is indistinguishable from one that misses because the
// workout does not exist; both return ErrWorkoutNotFound.
//
// # Usage
//
//	repo := workouts.NewRepository(db)
//	workout, err := repo.GetWorkout(userID, workoutID)
package workouts

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

// ErrWorkoutNotFound is returned when no workout matches both the workout ID
// and the owning user. Absent and not-owned are deliberately conflated.
var ErrWorkoutNotFound = errors.New("workout not found")

// SetInput describes one performed set in a create or replace payload.
type SetInput struct {
	SetNumber   int        `json:"set_number"`
	Reps        int        `json:"reps"`
	Weight      *float64   `json:"weight,omitempty"`
	RIR         *int       `json:"rir,omitempty"`
	Tempo       string     `json:"tempo,omitempty"`
	IsWarmup    bool       `json:"is_warmup,omitempty"`
	IsDropSet   bool       `json:"is_drop_set,omitempty"`
	ToFailure   bool       `json:"to_failure,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ExerciseInput describes one exercise entry in a create or replace payload.
type ExerciseInput struct {
	ExerciseID   uint       `json:"exercise_id"`
	Position     int        `json:"position"`
	TargetSets   *int       `json:"target_sets,omitempty"`
	TargetReps   *int       `json:"target_reps,omitempty"`
	TargetWeight *float64   `json:"target_weight,omitempty"`
	Sets         []SetInput `json:"sets"`
}

// WorkoutInput is the payload for creating a workout with its full tree.
type WorkoutInput struct {
	Name       *string         `json:"name,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	IsTemplate bool            `json:"is_template,omitempty"`
	Exercises  []ExerciseInput `json:"exercises"`
}

// WorkoutUpdate carries partial-update fields. A nil pointer leaves the
// stored value unchanged. Name set to the empty string clears the stored
// name. Exercises nil leaves the exercise/set tree untouched; a non-nil
// slice (including an empty one) replaces the whole tree atomically.
type WorkoutUpdate struct {
	Name       *string         `json:"name,omitempty"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	IsTemplate *bool           `json:"is_template,omitempty"`
	Exercises  []ExerciseInput `json:"exercises,omitempty"`
}

// ListOptions filters ListWorkouts. Templates are excluded unless requested.
type ListOptions struct {
	From             *time.Time
	To               *time.Time
	IncludeTemplates bool
}

// Repository handles all workout database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new workouts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListWorkouts returns the user's workouts, most recent first. Returns an
// empty slice when nothing matches.
func (r *Repository) ListWorkouts(userID uint, opts ListOptions) ([]entities.Workout, error) {
	workouts := []entities.Workout{}
	query := r.db.Where("user_id = ?", userID)
	if !opts.IncludeTemplates {
		query = query.Where("is_template = ?", false)
	}
	if opts.From != nil {
		query = query.Where("started_at >= ?", *opts.From)
	}
	if opts.To != nil {
		query = query.Where("started_at < ?", *opts.To)
	}
	err := query.Order("started_at DESC").Find(&workouts).Error
	return workouts, err
}

// GetWorkout returns one workout with its exercises ordered by position,
// each with its sets ordered by set number and the catalog exercise
// resolved. The (id, user_id) conjunction is the authorization check.
func (r *Repository) GetWorkout(userID, id uint) (*entities.Workout, error) {
	var workout entities.Workout
	err := r.db.
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("set_number ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&workout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// CreateWorkout creates a workout with its exercise and set tree in one
// transaction. Parent rows are inserted before children because the child
// rows reference generated identifiers. Any failure rolls back the whole
// call; no partial workout remains.
func (r *Repository) CreateWorkout(userID uint, input WorkoutInput) (*entities.Workout, error) {
	if err := validateExerciseInputs(input.Exercises); err != nil {
		return nil, err
	}

	workout := entities.Workout{
		UserID:     userID,
		Name:       input.Name,
		StartedAt:  input.StartedAt,
		IsTemplate: input.IsTemplate,
	}
	if workout.StartedAt.IsZero() {
		workout.StartedAt = time.Now().UTC()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkExerciseRefs(tx, userID, input.Exercises); err != nil {
			return err
		}
		if err := tx.Create(&workout).Error; err != nil {
			return err
		}
		return insertExerciseTree(tx, workout.ID, input.Exercises)
	})
	if err != nil {
		return nil, err
	}

	return r.GetWorkout(userID, workout.ID)
}

// UpdateWorkout applies a partial update to a workout owned by the user.
// Supplied fields overwrite, absent fields are left alone, and a supplied
// exercise list replaces the previous tree atomically: either the new tree
// is fully written or the old state is preserved.
func (r *Repository) UpdateWorkout(userID, id uint, update WorkoutUpdate) (*entities.Workout, error) {
	if update.Exercises != nil {
		if err := validateExerciseInputs(update.Exercises); err != nil {
			return nil, err
		}
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var workout entities.Workout
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&workout).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkoutNotFound
			}
			return err
		}

		fields := map[string]any{}
		if update.Name != nil {
			if *update.Name == "" {
				fields["name"] = nil
			} else {
				fields["name"] = *update.Name
			}
		}
		if update.StartedAt != nil {
			fields["started_at"] = *update.StartedAt
		}
		if update.IsTemplate != nil {
			fields["is_template"] = *update.IsTemplate
		}
		if len(fields) > 0 {
			if err := tx.Model(&workout).Updates(fields).Error; err != nil {
				return err
			}
		}

		if update.Exercises != nil {
			if err := checkExerciseRefs(tx, userID, update.Exercises); err != nil {
				return err
			}
			// Dropping the workout_exercises rows cascades to their sets.
			if err := tx.Where("workout_id = ?", id).Delete(&entities.WorkoutExercise{}).Error; err != nil {
				return err
			}
			if err := insertExerciseTree(tx, id, update.Exercises); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetWorkout(userID, id)
}

// DeleteWorkout removes a workout owned by the user. The schema cascades the
// delete to workout_exercises and sets. Reports whether a row was deleted;
// false covers both "does not exist" and "not owned".
func (r *Repository) DeleteWorkout(userID, id uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Workout{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CompleteWorkout stamps the completion time on an in-progress workout.
// Completing an already-completed workout is a no-op: the original timestamp
// is kept and the stored state is returned unchanged.
func (r *Repository) CompleteWorkout(userID, id uint) (*entities.Workout, error) {
	result := r.db.Model(&entities.Workout{}).
		Where("id = ? AND user_id = ? AND completed_at IS NULL", id, userID).
		Update("completed_at", time.Now().UTC())
	if result.Error != nil {
		return nil, result.Error
	}
	// Zero rows affected means either already completed (no-op) or no such
	// workout for this user; the reload below reports the latter as not found.
	return r.GetWorkout(userID, id)
}

// DeleteAbandoned removes in-progress, non-template workouts across all users
// whose started_at is older than the retention window. Sessions someone
// started and never finished nor deleted. The schema cascades to the exercise
// and set rows. Returns the number of workouts removed.
func (r *Repository) DeleteAbandoned(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result := r.db.
		Where("completed_at IS NULL AND is_template = ? AND started_at < ?", false, cutoff).
		Delete(&entities.Workout{})
	return result.RowsAffected, result.Error
}

// CountAbandoned reports how many workouts DeleteAbandoned would remove for
// the given retention window.
func (r *Repository) CountAbandoned(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	var count int64
	err := r.db.Model(&entities.Workout{}).
		Where("completed_at IS NULL AND is_template = ? AND started_at < ?", false, cutoff).
		Count(&count).Error
	return count, err
}

// CountChildren returns the number of workout_exercises and sets rows still
// attached to a workout. Used by callers verifying cascade behaviour.
func (r *Repository) CountChildren(workoutID uint) (exercises int64, sets int64, err error) {
	err = r.db.Model(&entities.WorkoutExercise{}).Where("workout_id = ?", workoutID).Count(&exercises).Error
	if err != nil {
		return
	}
	err = r.db.Model(&entities.Set{}).
		Where("workout_exercise_id IN (?)",
			r.db.Model(&entities.WorkoutExercise{}).Select("id").Where("workout_id = ?", workoutID)).
		Count(&sets).Error
	return
}

// insertExerciseTree writes workout_exercises and their sets for a workout.
// Must run inside the caller's transaction.
func insertExerciseTree(tx *gorm.DB, workoutID uint, inputs []ExerciseInput) error {
	for _, input := range inputs {
		workoutExercise := entities.WorkoutExercise{
			WorkoutID:    workoutID,
			ExerciseID:   input.ExerciseID,
			Position:     input.Position,
			TargetSets:   input.TargetSets,
			TargetReps:   input.TargetReps,
			TargetWeight: input.TargetWeight,
		}
		if err := tx.Create(&workoutExercise).Error; err != nil {
			return err
		}
		for _, setInput := range input.Sets {
			set := entities.Set{
				WorkoutExerciseID: workoutExercise.ID,
				SetNumber:         setInput.SetNumber,
				Reps:              setInput.Reps,
				Weight:            setInput.Weight,
				RIR:               setInput.RIR,
				Tempo:             setInput.Tempo,
				IsWarmup:          setInput.IsWarmup,
				IsDropSet:         setInput.IsDropSet,
				ToFailure:         setInput.ToFailure,
				CompletedAt:       setInput.CompletedAt,
			}
			if err := tx.Create(&set).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// checkExerciseRefs verifies that every referenced catalog exercise is
// visible to the user (their own or global). An unknown reference is a
// validation failure, not a not-found, so the offending entry is named.
func checkExerciseRefs(tx *gorm.DB, userID uint, inputs []ExerciseInput) error {
	if len(inputs) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(inputs))
	for _, input := range inputs {
		ids = append(ids, input.ExerciseID)
	}

	var found []uint
	err := tx.Model(&entities.Exercise{}).
		Where("id IN ?", ids).
		Where("user_id = ? OR user_id IS NULL", userID).
		Pluck("id", &found).Error
	if err != nil {
		return err
	}

	visible := make(map[uint]bool, len(found))
	for _, id := range found {
		visible[id] = true
	}
	for i, input := range inputs {
		if !visible[input.ExerciseID] {
			return entities.NewValidationError(
				fmt.Sprintf("exercises[%d].exercise_id", i),
				"unknown exercise",
			)
		}
	}
	return nil
}

// validateExerciseInputs checks the structural rules for an exercise/set
// tree before anything is written: positions unique, set numbers positive
// and unique per exercise, reps positive, weight non-negative, RIR 0-10.
func validateExerciseInputs(inputs []ExerciseInput) error {
	positions := make(map[int]bool, len(inputs))
	for i, input := range inputs {
		field := func(name string) string { return fmt.Sprintf("exercises[%d].%s", i, name) }

		if input.ExerciseID == 0 {
			return entities.NewValidationError(field("exercise_id"), "is required")
		}
		if input.Position < 0 {
			return entities.NewValidationError(field("position"), "must not be negative")
		}
		if positions[input.Position] {
			return entities.NewValidationError(field("position"), "duplicate position within workout")
		}
		positions[input.Position] = true

		if input.TargetSets != nil && *input.TargetSets <= 0 {
			return entities.NewValidationError(field("target_sets"), "must be positive")
		}
		if input.TargetReps != nil && *input.TargetReps <= 0 {
			return entities.NewValidationError(field("target_reps"), "must be positive")
		}
		if input.TargetWeight != nil && *input.TargetWeight < 0 {
			return entities.NewValidationError(field("target_weight"), "must not be negative")
		}

		setNumbers := make(map[int]bool, len(input.Sets))
		for j, setInput := range input.Sets {
			setField := func(name string) string {
				return fmt.Sprintf("exercises[%d].sets[%d].%s", i, j, name)
			}
			if setInput.SetNumber <= 0 {
				return entities.NewValidationError(setField("set_number"), "must be positive")
			}
			if setNumbers[setInput.SetNumber] {
				return entities.NewValidationError(setField("set_number"), "duplicate set number within exercise")
			}
			setNumbers[setInput.SetNumber] = true

			if setInput.Reps <= 0 {
				return entities.NewValidationError(setField("reps"), "must be positive")
			}
			if setInput.Weight != nil && *setInput.Weight < 0 {
				return entities.NewValidationError(setField("weight"), "must not be negative")
			}
			if setInput.RIR != nil && (*setInput.RIR < 0 || *setInput.RIR > 10) {
				return entities.NewValidationError(setField("rir"), "must be between 0 and 10")
			}
		}
	}
	return nil
}
