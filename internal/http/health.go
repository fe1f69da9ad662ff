package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController reports process and database liveness.
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

func (ctrl *HealthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", ctrl.Health)
	router.GET("/ping", ctrl.Ping)
}

// Health checks database connectivity and returns service status.
func (ctrl *HealthController) Health(c *gin.Context) {
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database connection unavailable",
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (ctrl *HealthController) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
