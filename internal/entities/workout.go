package entities

import (
	"time"
)

// Workout is one logged training session owned by exactly one user.
// CompletedAt is nil while the session is still in progress.
type Workout struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index;index:idx_workouts_user_started,priority:1" json:"user_id"`
	Name        *string    `gorm:"size:256" json:"name,omitempty"`
	StartedAt   time.Time  `gorm:"index:idx_workouts_user_started,priority:2" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsTemplate  bool       `gorm:"default:false" json:"is_template"`

	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
	User      User              `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkoutExercise links a workout to a catalog exercise at a position.
// It is created and destroyed with its parent workout; the referenced
// Exercise is shared and must not be deletable while referenced.
type WorkoutExercise struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	WorkoutID  uint `gorm:"not null;index;uniqueIndex:idx_workout_exercises_position,priority:1" json:"workout_id"`
	ExerciseID uint `gorm:"not null;index" json:"exercise_id"`
	Position   int  `gorm:"uniqueIndex:idx_workout_exercises_position,priority:2" json:"position"`

	// Optional prescription for the session
	TargetSets   *int     `json:"target_sets,omitempty"`
	TargetReps   *int     `json:"target_reps,omitempty"`
	TargetWeight *float64 `json:"target_weight,omitempty"`

	Exercise Exercise `gorm:"foreignKey:ExerciseID;constraint:OnDelete:RESTRICT" json:"exercise"`
	Sets     []Set    `gorm:"foreignKey:WorkoutExerciseID;constraint:OnDelete:CASCADE" json:"sets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Set is one performed set. SetNumber starts at 1 and is unique within
// its parent workout exercise.
type Set struct {
	ID                uint `gorm:"primaryKey" json:"id"`
	WorkoutExerciseID uint `gorm:"not null;index;uniqueIndex:idx_sets_number,priority:1" json:"workout_exercise_id"`
	SetNumber         int  `gorm:"uniqueIndex:idx_sets_number,priority:2" json:"set_number"`

	Reps   int      `json:"reps"`
	Weight *float64 `json:"weight,omitempty"`
	RIR    *int     `json:"rir,omitempty"` // reps in reserve, 0-10
	Tempo  string   `gorm:"size:20" json:"tempo,omitempty"`

	IsWarmup  bool `gorm:"default:false" json:"is_warmup"`
	IsDropSet bool `gorm:"default:false" json:"is_drop_set"`
	ToFailure bool `gorm:"default:false" json:"to_failure"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Workout) TableName() string {
	return "workouts"
}

func (WorkoutExercise) TableName() string {
	return "workout_exercises"
}

func (Set) TableName() string {
	return "sets"
}
