package handler

import (
	"context"
	"net/http"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler reports the liveness of the service and its dependencies.
type HealthHandler struct {
	db    *mongo.Database
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *mongo.Database, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check pings MongoDB and Redis; any failure degrades the overall status.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"mongo": "ok", "redis": "ok"}
	status := "ok"

	if err := h.db.Client().Ping(ctx, nil); err != nil {
		checks["mongo"] = err.Error()
		status = "degraded"
	}
	if err := h.cache.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		status = "degraded"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{Status: status, Checks: checks})
}
