package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// AbandonedWorkoutPurger deletes stale in-progress workouts.
type AbandonedWorkoutPurger interface {
	DeleteAbandoned(retention time.Duration) (int64, error)
}

// PurgeAbandonedWorkoutsTask removes workouts that were started but never
// completed within the retention window. Templates are never touched.
type PurgeAbandonedWorkoutsTask struct {
	RetentionHours int `json:"retention_hours"`
}

// Config returns the queue configuration for workout purge tasks.
func (t PurgeAbandonedWorkoutsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_abandoned_workouts",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeAbandonedWorkoutsProcessor creates a processor function for
// PurgeAbandonedWorkoutsTask.
func PurgeAbandonedWorkoutsProcessor(purger AbandonedWorkoutPurger) backlite.QueueProcessor[PurgeAbandonedWorkoutsTask] {
	return func(ctx context.Context, task PurgeAbandonedWorkoutsTask) error {
		if purger == nil {
			return fmt.Errorf("workout purger not configured")
		}

		retentionHours := task.RetentionHours
		if retentionHours <= 0 {
			retentionHours = 720 // 30 days
		}
		retention := time.Duration(retentionHours) * time.Hour

		deleted, err := purger.DeleteAbandoned(retention)
		if err != nil {
			return fmt.Errorf("purge abandoned workouts: %w", err)
		}

		log.Printf("[TASK] Purged %d abandoned workouts older than %d hours", deleted, retentionHours)
		return nil
	}
}

// NewPurgeAbandonedWorkoutsQueue creates a backlite queue for workout purge
// tasks.
func NewPurgeAbandonedWorkoutsQueue(purger AbandonedWorkoutPurger) backlite.Queue {
	return backlite.NewQueue(PurgeAbandonedWorkoutsProcessor(purger))
}
