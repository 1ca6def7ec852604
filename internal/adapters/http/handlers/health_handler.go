package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Root handles the API root endpoint
// @Summary API root
// @Description Basic API information
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "BookHive API",
		"version": "1.0",
		"docs":    "/swagger/index.html",
	})
}

// Check handles health check
// @Summary Health check
// @Description Check API, database and cache health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error"
	}

	cacheStatus := "ok"
	if err := h.redis.Ping(ctx).Err(); err != nil {
		cacheStatus = "degraded"
	}

	// The cache is optional: reads fall through to the database when it
	// is down, so only a dead database makes the service unhealthy.
	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "ok" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    overall,
		"database":  dbStatus,
		"cache":     cacheStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
