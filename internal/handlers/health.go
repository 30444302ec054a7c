package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"lifecoach/internal/health"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	healthService *health.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthService *health.Service) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	h.healthService.RunChecks(c.Context())

	status := "healthy"
	code := fiber.StatusOK
	if !h.healthService.Healthy() {
		status = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"dependencies": h.healthService.GetStatus(),
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}
