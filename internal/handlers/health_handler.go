package handlers

import (
	"github.com/RajaSunrise/toko/pkg/db"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports whether the store is reachable.
type HealthHandler struct {
	conn *gorm.DB
	log  *logger.Logger
}

func NewHealthHandler(conn *gorm.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{conn: conn, log: log}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	if err := db.Ping(c.UserContext(), h.conn); err != nil {
		h.log.Error(c.UserContext(), "health check failed", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
