package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger verifies a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	store     Pinger
	cacheMode string
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, cacheMode string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		cacheMode: cacheMode,
		startedAt: time.Now(),
	}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	database := "up"

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		status = "degraded"
		database = "down"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":         status,
		"database":       database,
		"gallery_cache":  h.cacheMode,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}
