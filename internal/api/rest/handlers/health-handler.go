package handlers

import (
	"context"
	"time"

	"github.com/SundayYogurt/application_service/internal/dto"
	"github.com/SundayYogurt/application_service/internal/interfaces"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	db interfaces.HealthChecker
}

func NewHealthHandler(db interfaces.HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) SetupRoutes(app *fiber.App) {
	app.Get("/api/health", h.Health)
}

// Health godoc
// @Summary Storage health
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{
			Success:  false,
			Status:   "degraded",
			Database: "unavailable",
		})
	}
	return ctx.JSON(dto.HealthResponse{Success: true, Status: "ok", Database: "connected"})
}
