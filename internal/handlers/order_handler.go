package handlers

import (
	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/middleware"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles the order history of the signed-in user.
type OrderHandler struct {
	Responder
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, r Responder) *OrderHandler {
	return &OrderHandler{
		Responder: r,
		service:   service,
	}
}

// RegisterRoutes expects router to be mounted at /orders behind AuthRequired.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleGetOrders)
	router.Get("/:id", h.HandleGetOrderByID)
}

// HandleGetOrders lists the user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "/", err)
	}
	return h.page(c, fiber.Map{"orders": orders})
}

// HandleGetOrderByID shows one order with its lines, if it belongs to the user.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/orders", flash.Error, flash.OrderNotFound)
	}
	if _, err := h.service.GetForUser(c.UserContext(), middleware.UserID(c), id); err != nil {
		return h.fail(c, "/orders", err)
	}
	order, err := h.service.GetWithLines(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "/orders", err)
	}
	return h.page(c, fiber.Map{"order": order})
}
