package handlers

import (
	"errors"
	"strconv"

	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/middleware"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/pkg/pagadito"
	"github.com/gofiber/fiber/v2"
)

const paymentsPrefix = "/payments/pagadito"

// PaymentHandler receives the gateway callbacks.
type PaymentHandler struct {
	Responder
	reconciler *services.ReconcilerService
}

func NewPaymentHandler(reconciler *services.ReconcilerService, r Responder) *PaymentHandler {
	return &PaymentHandler{Responder: r, reconciler: reconciler}
}

// RegisterRoutes mounts the browser returns behind authRequired and the notification
// endpoint in the open.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	g := router.Group(paymentsPrefix)
	g.Get("/return-ok", authRequired, h.HandleReturnOK)
	g.Get("/return-error", authRequired, h.HandleReturnError)
	g.Post("/ipn", h.HandleNotification)
}

// HandleReturnOK only confirms the order belongs to the user. The notification is what
// marks it paid.
func (h *PaymentHandler) HandleReturnOK(c *fiber.Ctx) error {
	orderID, err := pagadito.ParseReturn(c.Query("order_id"))
	if err != nil {
		return h.redirect(c, "/orders", flash.Error, flash.OrderNotFound)
	}
	if _, err := h.reconciler.ConfirmReturn(c.UserContext(), middleware.UserID(c), orderID); err != nil {
		return h.fail(c, "/orders", err)
	}
	return h.redirect(c, "/orders", flash.Info, flash.PaymentConfirming)
}

func (h *PaymentHandler) HandleReturnError(c *fiber.Ctx) error {
	orderID, err := pagadito.ParseReturn(c.Query("order_id"))
	if err != nil {
		return h.redirect(c, "/orders", flash.Error, flash.OrderNotFound)
	}
	if _, err := h.reconciler.FailReturn(c.UserContext(), middleware.UserID(c), orderID); err != nil {
		return h.fail(c, "/orders", err)
	}
	return h.redirect(c, "/cart", flash.Error, flash.PaymentFailed)
}

// HandleNotification applies the server-to-server notification. It answers in plain
// text and never redirects; any non-2xx makes the gateway retry.
func (h *PaymentHandler) HandleNotification(c *fiber.Ctx) error {
	n, err := pagadito.ParseNotification(func(key string) string {
		if v := c.FormValue(key); v != "" {
			return v
		}
		return c.Query(key)
	})
	if err != nil {
		h.log.Warn(c.UserContext(), "rejected payment notification", err)
		if errors.Is(err, pagadito.ErrMissingParams) {
			return c.Status(fiber.StatusBadRequest).SendString("missing params")
		}
		return c.Status(fiber.StatusBadRequest).SendString("bad reference")
	}

	if _, err := h.reconciler.ApplyNotification(c.UserContext(), n); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			h.log.Warn(h.log.WithField(c.UserContext(), "order_id", n.OrderID), "payment notification for unknown order", err)
			return c.Status(fiber.StatusNotFound).SendString("order not found")
		}
		h.log.Error(h.log.WithField(c.UserContext(), "order_id", n.OrderID), "failed to apply payment notification", err)
		return c.Status(fiber.StatusInternalServerError).SendString("error")
	}
	return c.SendString("OK")
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
