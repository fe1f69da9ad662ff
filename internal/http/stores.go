package http

import (
	"gorm.io/gorm"

	"github.com/dallaire44/liftingdiarycourse/internal/auth"
)

// RouterConfig carries the dependencies the router wires into controllers.
// Optional components (auth, sessions, CSRF) may be nil and their routes and
// middleware are skipped.
type RouterConfig struct {
	Database *gorm.DB

	WorkoutStore  WorkoutStore
	ExerciseStore ExerciseStore

	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthController *auth.Controller

	// DefaultUserID is the seeded account requests run as when
	// AuthMiddleware is nil. It must reference an existing users row.
	DefaultUserID uint

	CSRFSecret    []byte
	SecureCookies bool
}
