package controller

import (
	"context"
	"ggsc_backend/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	DB          Pinger
	Environment string
	startedAt   time.Time
}

func NewHealthController(db *gorm.DB, environment string) *HealthController {
	c := &HealthController{Environment: environment, startedAt: time.Now()}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			c.DB = sqlDB
		}
	}
	return c
}

// @Summary Health check
// @Description Reports service uptime and database connectivity
// @Tags system
// @Produce json
// @Success 200 {object} object
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	database := "connected"
	if c.DB == nil {
		database = "disconnected"
	} else {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()
		if err := c.DB.PingContext(pingCtx); err != nil {
			logger.Log.Warn("Health check database ping failed", zap.Error(err))
			database = "disconnected"
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(c.startedAt).Seconds(),
		"environment": c.Environment,
		"services": gin.H{
			"database": database,
		},
	})
}
