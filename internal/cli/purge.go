package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dallaire44/liftingdiarycourse/internal/config"
	"github.com/dallaire44/liftingdiarycourse/internal/database"
	"github.com/dallaire44/liftingdiarycourse/internal/database/workouts"
)

// PurgeCommand removes abandoned in-progress workouts immediately, without
// waiting for the scheduled background purge.
type PurgeCommand struct {
	DatabasePath string
	Retention    time.Duration
	DryRun       bool
}

// NewPurgeCommand creates a new PurgeCommand.
func NewPurgeCommand() *PurgeCommand {
	return &PurgeCommand{}
}

// ParseFlags parses command line flags.
func (cmd *PurgeCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("purge", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.DurationVar(&cmd.Retention, "retention", 720*time.Hour, "Purge in-progress workouts older than this")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Report how many workouts would be purged without deleting")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s purge [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete workouts that were started but never completed within the\n")
		fmt.Fprintf(os.Stderr, "retention window. Templates and completed workouts are never touched.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run performs the purge.
func (cmd *PurgeCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := workouts.NewRepository(db.DB)

	if cmd.DryRun {
		count, err := repo.CountAbandoned(cmd.Retention)
		if err != nil {
			return fmt.Errorf("failed to count abandoned workouts: %w", err)
		}
		fmt.Printf("Would purge %d workouts older than %s\n", count, cmd.Retention)
		return nil
	}

	deleted, err := repo.DeleteAbandoned(cmd.Retention)
	if err != nil {
		return fmt.Errorf("failed to purge workouts: %w", err)
	}
	fmt.Printf("Purged %d workouts older than %s\n", deleted, cmd.Retention)
	return nil
}
