package entities

import (
	"time"
)

// Exercise is a catalog entry referenced by workout exercises.
// UserID is nil for built-in global exercises shared by everyone;
// user-created exercises carry the owner's ID. (user_id, name) is unique,
// so two users can reuse a name but one user cannot.
type Exercise struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"uniqueIndex:idx_exercises_user_name,priority:1" json:"user_id,omitempty"`
	Name        string    `gorm:"uniqueIndex:idx_exercises_user_name,priority:2;size:100;not null" json:"name"`
	MuscleGroup string    `gorm:"size:50" json:"muscle_group,omitempty"`
	IsCompound  bool      `gorm:"default:false" json:"is_compound"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// IsGlobal reports whether the exercise belongs to the shared catalog.
func (e Exercise) IsGlobal() bool {
	return e.UserID == nil
}
