// Package exercises provides database operations for the exercise catalog.
//
// The catalog mixes global entries (user_id NULL, seeded at startup) with
// user-created entries. Reads merge both; writes only ever touch rows owned
// by the calling user.
//
// # Usage
//
//	repo := exercises.NewRepository(db)
//	exercise, err := repo.CreateExercise(userID, "Hack Squat", "legs", true)
package exercises

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

var (
	// ErrExerciseNotFound is returned when no exercise matches both the ID
	// and the owning user. Global entries are not mutable through here.
	ErrExerciseNotFound = errors.New("exercise not found")

	// ErrExerciseNameTaken is returned when the user already has an exercise
	// with the same name. Different users may reuse a name freely.
	ErrExerciseNameTaken = errors.New("exercise name already taken")

	// ErrExerciseInUse is returned when a delete is rejected because one or
	// more workout entries still reference the exercise.
	ErrExerciseInUse = errors.New("exercise is referenced by a workout")
)

// Repository handles all exercise catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new exercises repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListExercises returns the exercises visible to the user ordered by name:
// their own entries merged with the global catalog.
func (r *Repository) ListExercises(userID uint) ([]entities.Exercise, error) {
	exercises := []entities.Exercise{}
	err := r.db.
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("name ASC").
		Find(&exercises).Error
	return exercises, err
}

// GetExercise retrieves a single exercise visible to the user.
func (r *Repository) GetExercise(userID, id uint) (*entities.Exercise, error) {
	var exercise entities.Exercise
	err := r.db.
		Where("id = ?", id).
		Where("user_id = ? OR user_id IS NULL", userID).
		First(&exercise).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// CreateExercise adds a user-owned catalog entry. The name must not collide
// with another of the user's exercises (case-insensitive); colliding with a
// global entry is allowed, the user's entry shadows nothing and both surface.
func (r *Repository) CreateExercise(userID uint, name, muscleGroup string, isCompound bool) (*entities.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entities.NewValidationError("name", "is required")
	}

	var existing entities.Exercise
	err := r.db.
		Where("LOWER(name) = LOWER(?) AND user_id = ?", name, userID).
		First(&existing).Error
	if err == nil {
		return nil, ErrExerciseNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	exercise := &entities.Exercise{
		UserID:      &userID,
		Name:        name,
		MuscleGroup: muscleGroup,
		IsCompound:  isCompound,
	}
	if err := r.db.Create(exercise).Error; err != nil {
		return nil, err
	}
	return exercise, nil
}

// ExerciseUpdate carries partial-update fields for a catalog entry.
// Nil pointers leave the stored value unchanged.
type ExerciseUpdate struct {
	Name        *string `json:"name,omitempty"`
	MuscleGroup *string `json:"muscle_group,omitempty"`
	IsCompound  *bool   `json:"is_compound,omitempty"`
}

// UpdateExercise applies a partial update to a user-owned exercise.
func (r *Repository) UpdateExercise(userID, id uint, update ExerciseUpdate) (*entities.Exercise, error) {
	var exercise entities.Exercise
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&exercise).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	fields := map[string]any{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, entities.NewValidationError("name", "is required")
		}
		var clash entities.Exercise
		err := r.db.
			Where("LOWER(name) = LOWER(?) AND user_id = ? AND id <> ?", name, userID, id).
			First(&clash).Error
		if err == nil {
			return nil, ErrExerciseNameTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		fields["name"] = name
	}
	if update.MuscleGroup != nil {
		fields["muscle_group"] = *update.MuscleGroup
	}
	if update.IsCompound != nil {
		fields["is_compound"] = *update.IsCompound
	}

	if len(fields) > 0 {
		if err := r.db.Model(&exercise).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return &exercise, nil
}

// DeleteExercise removes a user-owned exercise. The delete is rejected with
// ErrExerciseInUse while any workout entry references it; the schema-level
// RESTRICT constraint backs this check up.
func (r *Repository) DeleteExercise(userID, id uint) error {
	var exercise entities.Exercise
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&exercise).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	var refs int64
	if err := r.db.Model(&entities.WorkoutExercise{}).Where("exercise_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return ErrExerciseInUse
	}

	return r.db.Delete(&exercise).Error
}

// CountReferences returns how many workout entries reference an exercise.
func (r *Repository) CountReferences(exerciseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.WorkoutExercise{}).Where("exercise_id = ?", exerciseID).Count(&count).Error
	return count, err
}
