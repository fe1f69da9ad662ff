package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_SeedsGlobalCatalog(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	var count int64
	err := db.DB.Model(&entities.Exercise{}).Where("user_id IS NULL").Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(len(globalExercises)), count)

	var squat entities.Exercise
	err = db.DB.Where("name = ? AND user_id IS NULL", "Squat").First(&squat).Error
	require.NoError(t, err)
	assert.True(t, squat.IsCompound)
	assert.True(t, squat.IsGlobal())
}

func TestNewDatabase_SeedIsIdempotent(t *testing.T) {
	dbPath := "./test_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Re-opening the same file must not duplicate the catalog
	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	err = db.DB.Model(&entities.Exercise{}).Where("user_id IS NULL").Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(len(globalExercises)), count)
}

func TestNewDatabase_EnforcesForeignKeys(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// A set pointing at a nonexistent workout exercise must be rejected
	set := &entities.Set{WorkoutExerciseID: 99999, SetNumber: 1, Reps: 5}
	err := db.DB.Create(set).Error
	assert.Error(t, err)
}

func TestNewDatabase_UniqueExerciseNamePerUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, db.DB.Create(user).Error)

	first := &entities.Exercise{UserID: &user.ID, Name: "Hack Squat"}
	require.NoError(t, db.DB.Create(first).Error)

	dup := &entities.Exercise{UserID: &user.ID, Name: "Hack Squat"}
	assert.Error(t, db.DB.Create(dup).Error)
}
