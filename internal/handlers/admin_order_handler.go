package handlers

import (
	"strings"

	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminOrderHandler lets staff browse every order and move its fulfilment status.
type AdminOrderHandler struct {
	Responder
	service *services.OrderService
}

func NewAdminOrderHandler(service *services.OrderService, r Responder) *AdminOrderHandler {
	return &AdminOrderHandler{Responder: r, service: service}
}

func (h *AdminOrderHandler) RegisterRoutes(router fiber.Router) {
	orders := router.Group("/orders")
	orders.Get("/", h.HandleList)
	orders.Get("/:id", h.HandleDetail)
	orders.Post("/:id/status", h.HandleUpdateStatus)
}

func (h *AdminOrderHandler) HandleList(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return h.fail(c, "/admin/dashboard", err)
	}
	return h.page(c, fiber.Map{"orders": orders})
}

func (h *AdminOrderHandler) HandleDetail(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/orders", flash.Error, flash.OrderNotFound)
	}
	order, err := h.service.GetWithLines(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "/admin/orders", err)
	}
	return h.page(c, fiber.Map{"order": order})
}

// HandleUpdateStatus changes the fulfilment status only; payment status is left alone.
func (h *AdminOrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/orders", flash.Error, flash.OrderNotFound)
	}
	back := "/admin/orders/" + uintString(id)
	status := strings.ToLower(strings.TrimSpace(c.FormValue("status")))
	if err := h.service.UpdateFulfilmentStatus(c.UserContext(), id, status); err != nil {
		return h.fail(c, back, err)
	}
	return h.redirect(c, back, flash.Success, flash.OrderStatusUpdated)
}
