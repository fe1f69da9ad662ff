package workouts

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_workouts_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Exercise{},
		&entities.Workout{},
		&entities.WorkoutExercise{},
		&entities.Set{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	user := &entities.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	err := db.Create(user).Error
	require.NoError(t, err)
	return user
}

func createTestExercise(t *testing.T, db *gorm.DB, userID *uint, name string) *entities.Exercise {
	exercise := &entities.Exercise{
		UserID:      userID,
		Name:        name,
		MuscleGroup: "legs",
		IsCompound:  true,
	}
	err := db.Create(exercise).Error
	require.NoError(t, err)
	return exercise
}

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func TestRepository_CreateWorkout_FullTree(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	squat := createTestExercise(t, db, &user.ID, "Squat")
	curl := createTestExercise(t, db, &user.ID, "Biceps Curl")

	started := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{
		Name:      strPtr("Leg Day"),
		StartedAt: started,
		Exercises: []ExerciseInput{
			{
				ExerciseID: squat.ID,
				Position:   0,
				TargetSets: intPtr(3),
				Sets: []SetInput{
					{SetNumber: 1, Reps: 5, Weight: floatPtr(100), IsWarmup: true},
					{SetNumber: 2, Reps: 5, Weight: floatPtr(140)},
					{SetNumber: 3, Reps: 5, Weight: floatPtr(140), RIR: intPtr(2)},
				},
			},
			{
				ExerciseID: curl.ID,
				Position:   1,
				Sets: []SetInput{
					{SetNumber: 1, Reps: 12, Weight: floatPtr(15)},
				},
			},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, workout)
	assert.Equal(t, "Leg Day", *workout.Name)
	assert.True(t, started.Equal(workout.StartedAt))
	assert.Nil(t, workout.CompletedAt)
	require.Len(t, workout.Exercises, 2)

	// Exercises come back ordered by position, sets by set number
	assert.Equal(t, squat.ID, workout.Exercises[0].ExerciseID)
	assert.Equal(t, "Squat", workout.Exercises[0].Exercise.Name)
	require.Len(t, workout.Exercises[0].Sets, 3)
	assert.Equal(t, 1, workout.Exercises[0].Sets[0].SetNumber)
	assert.True(t, workout.Exercises[0].Sets[0].IsWarmup)
	assert.Equal(t, 140.0, *workout.Exercises[0].Sets[2].Weight)
	assert.Equal(t, 2, *workout.Exercises[0].Sets[2].RIR)
	assert.Equal(t, curl.ID, workout.Exercises[1].ExerciseID)
}

func TestRepository_CreateWorkout_DefaultsStartedAt(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")

	before := time.Now().UTC()
	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{})
	require.NoError(t, err)

	assert.False(t, workout.StartedAt.Before(before))
	assert.Empty(t, workout.Exercises)
}

func TestRepository_CreateWorkout_RejectsInvalidTree(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	squat := createTestExercise(t, db, &user.ID, "Squat")

	cases := []struct {
		name  string
		input []ExerciseInput
		field string
	}{
		{
			name: "duplicate position",
			input: []ExerciseInput{
				{ExerciseID: squat.ID, Position: 0},
				{ExerciseID: squat.ID, Position: 0},
			},
			field: "exercises[1].position",
		},
		{
			name: "duplicate set number",
			input: []ExerciseInput{
				{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{
					{SetNumber: 1, Reps: 5},
					{SetNumber: 1, Reps: 5},
				}},
			},
			field: "exercises[0].sets[1].set_number",
		},
		{
			name: "zero reps",
			input: []ExerciseInput{
				{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{
					{SetNumber: 1, Reps: 0},
				}},
			},
			field: "exercises[0].sets[0].reps",
		},
		{
			name: "negative weight",
			input: []ExerciseInput{
				{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{
					{SetNumber: 1, Reps: 5, Weight: floatPtr(-20)},
				}},
			},
			field: "exercises[0].sets[0].weight",
		},
		{
			name: "rir out of range",
			input: []ExerciseInput{
				{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{
					{SetNumber: 1, Reps: 5, RIR: intPtr(11)},
				}},
			},
			field: "exercises[0].sets[0].rir",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.CreateWorkout(user.ID, WorkoutInput{Exercises: tc.input})
			require.Error(t, err)

			var validationErr *entities.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}

	// Nothing should have been persisted by the failed creates
	var count int64
	db.Model(&entities.Workout{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRepository_CreateWorkout_RejectsForeignExerciseRef(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	bobsExercise := createTestExercise(t, db, &bob.ID, "Secret Curl")

	_, err := repo.CreateWorkout(alice.ID, WorkoutInput{
		Exercises: []ExerciseInput{
			{ExerciseID: bobsExercise.ID, Position: 0},
		},
	})

	var validationErr *entities.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "exercises[0].exercise_id", validationErr.Field)
}

func TestRepository_CreateWorkout_AcceptsGlobalExerciseRef(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	global := createTestExercise(t, db, nil, "Deadlift")

	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{
		Exercises: []ExerciseInput{
			{ExerciseID: global.ID, Position: 0, Sets: []SetInput{{SetNumber: 1, Reps: 3}}},
		},
	})

	require.NoError(t, err)
	require.Len(t, workout.Exercises, 1)
	assert.Equal(t, "Deadlift", workout.Exercises[0].Exercise.Name)
}

func TestRepository_GetWorkout_CrossUserIsolation(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	workout, err := repo.CreateWorkout(alice.ID, WorkoutInput{Name: strPtr("Alice's session")})
	require.NoError(t, err)

	// Bob cannot see it, and the error is the same as for a missing ID
	_, err = repo.GetWorkout(bob.ID, workout.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	_, err = repo.GetWorkout(bob.ID, 99999)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestRepository_ListWorkouts(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 18, 0, 0, 0, time.UTC)
	}

	_, err := repo.CreateWorkout(alice.ID, WorkoutInput{Name: strPtr("first"), StartedAt: day(1)})
	require.NoError(t, err)
	_, err = repo.CreateWorkout(alice.ID, WorkoutInput{Name: strPtr("second"), StartedAt: day(5)})
	require.NoError(t, err)
	_, err = repo.CreateWorkout(alice.ID, WorkoutInput{Name: strPtr("template"), StartedAt: day(3), IsTemplate: true})
	require.NoError(t, err)
	_, err = repo.CreateWorkout(bob.ID, WorkoutInput{Name: strPtr("bob's"), StartedAt: day(2)})
	require.NoError(t, err)

	// Most recent first, templates and other users excluded
	list, err := repo.ListWorkouts(alice.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", *list[0].Name)
	assert.Equal(t, "first", *list[1].Name)

	// Templates included on request
	list, err = repo.ListWorkouts(alice.ID, ListOptions{IncludeTemplates: true})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	// Date range is [from, to)
	from, to := day(1), day(5)
	list, err = repo.ListWorkouts(alice.ID, ListOptions{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", *list[0].Name)

	// Empty result is a slice, not nil
	list, err = repo.ListWorkouts(alice.ID, ListOptions{From: timePtr(day(20))})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Len(t, list, 0)
}

func TestRepository_UpdateWorkout_PartialFields(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	squat := createTestExercise(t, db, &user.ID, "Squat")

	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{
		Name: strPtr("Leg Day"),
		Exercises: []ExerciseInput{
			{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{{SetNumber: 1, Reps: 5}}},
		},
	})
	require.NoError(t, err)

	// Name-only update leaves the tree untouched
	updated, err := repo.UpdateWorkout(user.ID, workout.ID, WorkoutUpdate{
		Name: strPtr("Heavy Leg Day"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Heavy Leg Day", *updated.Name)
	require.Len(t, updated.Exercises, 1)
	assert.Len(t, updated.Exercises[0].Sets, 1)

	// Empty string clears the name
	updated, err = repo.UpdateWorkout(user.ID, workout.ID, WorkoutUpdate{
		Name: strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Name)

	// Empty update changes nothing
	updated, err = repo.UpdateWorkout(user.ID, workout.ID, WorkoutUpdate{})
	require.NoError(t, err)
	assert.Nil(t, updated.Name)
	assert.Len(t, updated.Exercises, 1)
}

func TestRepository_UpdateWorkout_ReplacesTree(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	squat := createTestExercise(t, db, &user.ID, "Squat")
	press := createTestExercise(t, db, &user.ID, "Bench Press")

	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{
		Exercises: []ExerciseInput{
			{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{
				{SetNumber: 1, Reps: 5},
				{SetNumber: 2, Reps: 5},
			}},
		},
	})
	require.NoError(t, err)

	updated, err := repo.UpdateWorkout(user.ID, workout.ID, WorkoutUpdate{
		Exercises: []ExerciseInput{
			{ExerciseID: press.ID, Position: 0, Sets: []SetInput{{SetNumber: 1, Reps: 8}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Exercises, 1)
	assert.Equal(t, press.ID, updated.Exercises[0].ExerciseID)

	// Old rows are gone, not orphaned
	exerciseCount, setCount, err := repo.CountChildren(workout.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), exerciseCount)
	assert.Equal(t, int64(1), setCount)

	// An explicit empty list clears the tree
	updated, err = repo.UpdateWorkout(user.ID, workout.ID, WorkoutUpdate{
		Exercises: []ExerciseInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Exercises)
}

func TestRepository_UpdateWorkout_InvalidTreePreservesOldState(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	squat := createTestExercise(t, db, &user.ID, "Squat")

	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{
		Exercises: []ExerciseInput{
			{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{{SetNumber: 1, Reps: 5}}},
		},
	})
	require.NoError(t, err)

	_, err = repo.UpdateWorkout(user.ID, workout.ID, WorkoutUpdate{
		Exercises: []ExerciseInput{
			{ExerciseID: 99999, Position: 0},
		},
	})
	require.Error(t, err)

	// The failed replace must not have touched the stored tree
	current, err := repo.GetWorkout(user.ID, workout.ID)
	require.NoError(t, err)
	require.Len(t, current.Exercises, 1)
	assert.Equal(t, squat.ID, current.Exercises[0].ExerciseID)
	assert.Len(t, current.Exercises[0].Sets, 1)
}

func TestRepository_UpdateWorkout_CrossUser(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	workout, err := repo.CreateWorkout(alice.ID, WorkoutInput{Name: strPtr("mine")})
	require.NoError(t, err)

	_, err = repo.UpdateWorkout(bob.ID, workout.ID, WorkoutUpdate{Name: strPtr("stolen")})
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	current, err := repo.GetWorkout(alice.ID, workout.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", *current.Name)
}

func TestRepository_UpdateWorkout_LastWriteWins(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	squat := createTestExercise(t, db, &user.ID, "Squat")
	press := createTestExercise(t, db, &user.ID, "Bench Press")

	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{Name: strPtr("original")})
	require.NoError(t, err)

	// Two writers racing on the same workout resolve to whichever commits
	// last; the stored tree always matches exactly one of the two payloads.
	_, err = repo.UpdateWorkout(user.ID, workout.ID, WorkoutUpdate{
		Name: strPtr("first writer"),
		Exercises: []ExerciseInput{
			{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{{SetNumber: 1, Reps: 5}}},
		},
	})
	require.NoError(t, err)

	_, err = repo.UpdateWorkout(user.ID, workout.ID, WorkoutUpdate{
		Name: strPtr("second writer"),
		Exercises: []ExerciseInput{
			{ExerciseID: press.ID, Position: 0, Sets: []SetInput{
				{SetNumber: 1, Reps: 8},
				{SetNumber: 2, Reps: 8},
			}},
		},
	})
	require.NoError(t, err)

	current, err := repo.GetWorkout(user.ID, workout.ID)
	require.NoError(t, err)
	assert.Equal(t, "second writer", *current.Name)
	require.Len(t, current.Exercises, 1)
	assert.Equal(t, press.ID, current.Exercises[0].ExerciseID)
	assert.Len(t, current.Exercises[0].Sets, 2)

	exerciseCount, setCount, err := repo.CountChildren(workout.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), exerciseCount)
	assert.Equal(t, int64(2), setCount)
}

func TestRepository_DeleteWorkout_CascadesToChildren(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	squat := createTestExercise(t, db, &user.ID, "Squat")

	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{
		Exercises: []ExerciseInput{
			{ExerciseID: squat.ID, Position: 0, Sets: []SetInput{
				{SetNumber: 1, Reps: 5},
				{SetNumber: 2, Reps: 5},
			}},
			{ExerciseID: squat.ID, Position: 1, Sets: []SetInput{
				{SetNumber: 1, Reps: 10},
			}},
		},
	})
	require.NoError(t, err)

	deleted, err := repo.DeleteWorkout(user.ID, workout.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	exerciseCount, setCount, err := repo.CountChildren(workout.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), exerciseCount)
	assert.Equal(t, int64(0), setCount)

	// The catalog entry survives the cascade
	var exercise entities.Exercise
	assert.NoError(t, db.First(&exercise, squat.ID).Error)
}

func TestRepository_DeleteWorkout_CrossUser(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	workout, err := repo.CreateWorkout(alice.ID, WorkoutInput{})
	require.NoError(t, err)

	deleted, err := repo.DeleteWorkout(bob.ID, workout.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetWorkout(alice.ID, workout.ID)
	assert.NoError(t, err)
}

func TestRepository_CompleteWorkout_Idempotent(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")

	workout, err := repo.CreateWorkout(user.ID, WorkoutInput{})
	require.NoError(t, err)
	require.Nil(t, workout.CompletedAt)

	completed, err := repo.CompleteWorkout(user.ID, workout.ID)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	first := *completed.CompletedAt

	time.Sleep(5 * time.Millisecond)

	// Completing again keeps the original timestamp
	completed, err = repo.CompleteWorkout(user.ID, workout.ID)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assert.True(t, first.Equal(*completed.CompletedAt))
}

func TestRepository_CompleteWorkout_NotFound(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	workout, err := repo.CreateWorkout(alice.ID, WorkoutInput{})
	require.NoError(t, err)

	_, err = repo.CompleteWorkout(bob.ID, workout.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	_, err = repo.CompleteWorkout(alice.ID, 99999)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestRepository_DeleteAbandoned(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")

	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC().Add(-1 * time.Hour)

	stale, err := repo.CreateWorkout(user.ID, WorkoutInput{StartedAt: old})
	require.NoError(t, err)
	fresh, err := repo.CreateWorkout(user.ID, WorkoutInput{StartedAt: recent})
	require.NoError(t, err)
	template, err := repo.CreateWorkout(user.ID, WorkoutInput{StartedAt: old, IsTemplate: true})
	require.NoError(t, err)
	finished, err := repo.CreateWorkout(user.ID, WorkoutInput{StartedAt: old})
	require.NoError(t, err)
	_, err = repo.CompleteWorkout(user.ID, finished.ID)
	require.NoError(t, err)

	count, err := repo.CountAbandoned(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.DeleteAbandoned(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetWorkout(user.ID, stale.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	// Recent, template and completed workouts survive
	for _, id := range []uint{fresh.ID, template.ID, finished.ID} {
		_, err = repo.GetWorkout(user.ID, id)
		assert.NoError(t, err)
	}
}
