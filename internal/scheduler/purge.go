// Package scheduler runs periodic maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dallaire44/liftingdiarycourse/internal/config"
	"github.com/dallaire44/liftingdiarycourse/internal/tasks"
)

// PurgeScheduler enqueues the abandoned-workout purge task on a cron
// schedule. The purge itself runs on the durable task queue so a purge
// interrupted by a restart is retried.
type PurgeScheduler struct {
	taskClient *tasks.Client
	config     config.Purge

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewPurgeScheduler creates a new scheduler instance.
func NewPurgeScheduler(taskClient *tasks.Client, cfg config.Purge) *PurgeScheduler {
	return &PurgeScheduler{
		taskClient: taskClient,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if purging is enabled.
func (s *PurgeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Purge scheduler: disabled")
		return nil
	}

	if s.taskClient == nil {
		log.Printf("Purge scheduler: task queue not available, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.enqueuePurge()
	})
	if err != nil {
		return fmt.Errorf("invalid purge schedule '%s': %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Purge scheduler: started with schedule '%s', retention %s",
		s.config.Schedule, s.config.Retention)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running enqueue to
// finish.
func (s *PurgeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Purge scheduler: stopped")
}

// RunNow triggers an immediate purge enqueue.
func (s *PurgeScheduler) RunNow() {
	go s.enqueuePurge()
}

// IsRunning returns whether the scheduler is active.
func (s *PurgeScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next purge will be enqueued.
func (s *PurgeScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *PurgeScheduler) enqueuePurge() {
	retentionHours := int(s.config.Retention / time.Hour)
	_, err := s.taskClient.Add(tasks.PurgeAbandonedWorkoutsTask{
		RetentionHours: retentionHours,
	}).Save()
	if err != nil {
		log.Printf("Purge scheduler: failed to enqueue purge task: %v", err)
		return
	}
	log.Printf("Purge scheduler: purge task enqueued (retention %d hours)", retentionHours)
}
