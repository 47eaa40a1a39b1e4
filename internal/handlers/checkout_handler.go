package handlers

import (
	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/middleware"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/pkg/pagadito"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler turns the cart into an order and hands the browser to the gateway.
type CheckoutHandler struct {
	Responder
	carts     *services.CartService
	addresses *services.AddressService
	orders    *services.OrderService
	gateway   *pagadito.Client
	baseURL   string
}

// NewCheckoutHandler creates a CheckoutHandler. A nil gateway disables payment.
func NewCheckoutHandler(
	carts *services.CartService,
	addresses *services.AddressService,
	orders *services.OrderService,
	gateway *pagadito.Client,
	baseURL string,
	r Responder,
) *CheckoutHandler {
	return &CheckoutHandler{
		Responder: r,
		carts:     carts,
		addresses: addresses,
		orders:    orders,
		gateway:   gateway,
		baseURL:   baseURL,
	}
}

// RegisterRoutes expects router to be mounted at /checkout behind AuthRequired.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleCheckout)
	router.Post("/pay", h.HandlePay)
}

func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	cartID, err := h.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return h.fail(c, "/cart", err)
	}
	summary, err := h.carts.LoadWithTotals(ctx, cartID)
	if err != nil {
		return h.fail(c, "/cart", err)
	}
	if len(summary.Lines) == 0 {
		return h.redirect(c, "/cart", flash.Info, flash.CartEmpty)
	}
	addresses, err := h.addresses.ListForCheckout(ctx, userID)
	if err != nil {
		return h.fail(c, "/cart", err)
	}
	return h.page(c, fiber.Map{
		"cart":             summary,
		"addresses":        addresses,
		"payments_enabled": h.gateway != nil,
	})
}

// HandlePay creates the order for the chosen address and redirects to the hosted checkout.
func (h *CheckoutHandler) HandlePay(c *fiber.Ctx) error {
	if h.gateway == nil {
		return h.redirect(c, "/checkout", flash.Error, flash.PaymentsDisabled)
	}
	addressID, ok := formID(c, "address_id")
	if !ok {
		return h.redirect(c, "/checkout", flash.Error, flash.AddressRequired)
	}

	order, err := h.orders.CreateOrder(c.UserContext(), middleware.UserID(c), addressID)
	if err != nil {
		return h.fail(c, "/checkout", err)
	}

	orderParam := "?order_id=" + uintString(order.ID)
	target, err := h.gateway.BuildRedirect(
		pagadito.Checkout{OrderID: order.ID, Amount: order.Total, Currency: order.Currency},
		pagadito.Callbacks{
			ReturnOK:    h.baseURL + paymentsPrefix + "/return-ok" + orderParam,
			ReturnError: h.baseURL + paymentsPrefix + "/return-error" + orderParam,
			Notify:      h.baseURL + paymentsPrefix + "/ipn",
		},
	)
	if err != nil {
		h.log.Error(h.log.WithField(c.UserContext(), "order_id", order.ID), "failed to build gateway redirect", err)
		return h.redirect(c, "/orders", flash.Error, flash.Unavailable)
	}
	return c.Redirect(target.String(), fiber.StatusSeeOther)
}
