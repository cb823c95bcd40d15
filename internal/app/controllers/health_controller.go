package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnsphere/internal/app/models/dto"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

// Ping calls f
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthController reports liveness and dependency health
type HealthController struct {
	database Pinger
	cache    Pinger
	logger   zerolog.Logger
}

// NewHealthController creates a new HealthController. A nil cache is reported as disabled.
func NewHealthController(database, cache Pinger, logger zerolog.Logger) *HealthController {
	return &HealthController{
		database: database,
		cache:    cache,
		logger:   logger,
	}
}

// Ping is the liveness probe
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
}

// Health checks the database and, when configured, the cache
// @Summary Dependency health
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "ok", Cache: "disabled"}
	status := http.StatusOK

	if err := c.database.Ping(checkCtx); err != nil {
		c.logger.Error().Err(err).Msg("Database health check failed")
		resp.Database = "unavailable"
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	if c.cache != nil {
		resp.Cache = "ok"
		if err := c.cache.Ping(checkCtx); err != nil {
			c.logger.Warn().Err(err).Msg("Cache health check failed")
			resp.Cache = "unavailable"
			resp.Status = "degraded"
		}
	}

	ctx.JSON(status, dto.NewSuccessResponse(resp))
}
