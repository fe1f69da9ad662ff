package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dallaire44/liftingdiarycourse/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Dependencies arrive through RouterConfig so tests can assemble a router
// from fakes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session middleware so the session context set up
	// by the load/save wrapper is not clobbered by CSRF's request swap.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// Auth disabled: everything runs as the seeded shared account.
		router.Use(auth.DefaultUserMiddleware(cfg.DefaultUserID))
	}

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	health := NewHealthController(cfg.Database)
	health.RegisterRoutes(router)

	if cfg.WorkoutStore != nil {
		workoutsController := NewWorkoutsController(cfg.WorkoutStore)
		workoutsController.RegisterRoutes(router)
	}

	if cfg.ExerciseStore != nil {
		exercisesController := NewExercisesController(cfg.ExerciseStore)
		exercisesController.RegisterRoutes(router)
	}

	return router
}
