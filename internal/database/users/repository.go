// Package users provides database operations for account lookup.
//
// Password and token lifecycle lives in internal/auth; this package only
// reads and creates account rows.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByID(userID)
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dallaire44/liftingdiarycourse/internal/entities"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// DefaultUsername is the reserved account all requests run as when
// authentication is disabled.
const DefaultUsername = "default"

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureDefaultUser returns the reserved no-auth account, creating it on
// first use. Workout rows carry a foreign key to users, so the shared
// account must exist as a real row before any request can write. The
// account has no password hash and can never log in.
func (r *Repository) EnsureDefaultUser() (*entities.User, error) {
	user, err := r.GetUserByUsername(DefaultUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	created := entities.User{
		Username: DefaultUsername,
		Email:    "default@localhost",
	}
	if err := r.db.Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// CountUsers returns the number of accounts.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
