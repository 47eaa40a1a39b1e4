package handlers

import (
	"strconv"

	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/middleware"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CartHandler serves the cart pages of the signed-in user.
type CartHandler struct {
	Responder
	carts *services.CartService
}

func NewCartHandler(carts *services.CartService, r Responder) *CartHandler {
	return &CartHandler{Responder: r, carts: carts}
}

// RegisterRoutes expects router to be mounted at /cart behind AuthRequired.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleCart)
	router.Post("/add", h.HandleAdd)
	router.Post("/update", h.HandleUpdate)
	router.Post("/remove", h.HandleRemove)
}

func (h *CartHandler) HandleCart(c *fiber.Ctx) error {
	cartID, err := h.carts.GetOrCreateCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "/", err)
	}
	summary, err := h.carts.LoadWithTotals(c.UserContext(), cartID)
	if err != nil {
		return h.fail(c, "/", err)
	}
	return h.page(c, fiber.Map{"cart": summary})
}

// HandleAdd adds product_id to the cart. qty defaults to 1.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	productID, ok := formID(c, "product_id")
	if !ok {
		return h.redirect(c, "/", flash.Error, flash.ProductNotFound)
	}
	cartID, err := h.carts.GetOrCreateCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "/", err)
	}
	if err := h.carts.AddLine(c.UserContext(), cartID, productID, services.ParseQty(c.FormValue("qty"))); err != nil {
		return h.fail(c, "/", err)
	}
	return h.redirect(c, "/cart", flash.Success, flash.CartAdded)
}

func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	lineID, ok := formID(c, "line_id")
	if !ok {
		return h.redirect(c, "/cart", flash.Error, flash.InvalidForm)
	}
	cartID, err := h.carts.GetOrCreateCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "/cart", err)
	}
	if err := h.carts.UpdateLineQty(c.UserContext(), cartID, lineID, services.ParseQty(c.FormValue("qty"))); err != nil {
		return h.fail(c, "/cart", err)
	}
	return h.redirect(c, "/cart", flash.Success, flash.CartUpdated)
}

func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	lineID, ok := formID(c, "line_id")
	if !ok {
		return h.redirect(c, "/cart", flash.Error, flash.InvalidForm)
	}
	cartID, err := h.carts.GetOrCreateCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "/cart", err)
	}
	if err := h.carts.RemoveLine(c.UserContext(), cartID, lineID); err != nil {
		return h.fail(c, "/cart", err)
	}
	return h.redirect(c, "/cart", flash.Success, flash.CartRemoved)
}

// formID reads a positive integer form field.
func formID(c *fiber.Ctx, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.FormValue(key), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
