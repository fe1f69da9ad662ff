package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

// Built-in shared catalog, owned by no user (user_id NULL). Users extend it
// with their own entries through the exercises repository.
var globalExercises = []entities.Exercise{
	{Name: "Squat", MuscleGroup: "legs", IsCompound: true},
	{Name: "Deadlift", MuscleGroup: "back", IsCompound: true},
	{Name: "Bench Press", MuscleGroup: "chest", IsCompound: true},
	{Name: "Overhead Press", MuscleGroup: "shoulders", IsCompound: true},
	{Name: "Barbell Row", MuscleGroup: "back", IsCompound: true},
	{Name: "Pull-Up", MuscleGroup: "back", IsCompound: true},
	{Name: "Dip", MuscleGroup: "chest", IsCompound: true},
	{Name: "Romanian Deadlift", MuscleGroup: "hamstrings", IsCompound: true},
	{Name: "Leg Press", MuscleGroup: "legs", IsCompound: true},
	{Name: "Lat Pulldown", MuscleGroup: "back", IsCompound: false},
	{Name: "Biceps Curl", MuscleGroup: "arms", IsCompound: false},
	{Name: "Triceps Pushdown", MuscleGroup: "arms", IsCompound: false},
	{Name: "Lateral Raise", MuscleGroup: "shoulders", IsCompound: false},
	{Name: "Leg Curl", MuscleGroup: "hamstrings", IsCompound: false},
	{Name: "Leg Extension", MuscleGroup: "quads", IsCompound: false},
	{Name: "Calf Raise", MuscleGroup: "calves", IsCompound: false},
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the sqlite database, runs migrations and
// seeds the global exercise catalog. Foreign key enforcement is switched on
// in the DSN: the workout -> workout_exercise -> set cascade and the
// exercise delete restriction live in the schema, not in application code.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Exercise{},
		&entities.Workout{},
		&entities.WorkoutExercise{},
		&entities.Set{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedGlobalExercises(); err != nil {
		return nil, fmt.Errorf("failed to seed exercises: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedGlobalExercises() error {
	for _, exercise := range globalExercises {
		var existing entities.Exercise
		result := d.DB.Where("name = ? AND user_id IS NULL", exercise.Name).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&exercise).Error; err != nil {
				return fmt.Errorf("failed to create exercise %s: %w", exercise.Name, err)
			}
		} else if result.Error != nil {
			return result.Error
		}
	}
	return nil
}
