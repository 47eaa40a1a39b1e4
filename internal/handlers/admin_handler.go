package handlers

import (
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the back-office landing page.
type DashboardHandler struct {
	Responder
	products   *services.ProductService
	categories *services.CategoryService
	orders     *services.OrderService
}

func NewDashboardHandler(products *services.ProductService, categories *services.CategoryService, orders *services.OrderService, r Responder) *DashboardHandler {
	return &DashboardHandler{Responder: r, products: products, categories: categories, orders: orders}
}

// RegisterRoutes expects router to be mounted at /admin behind AdminRequired.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/admin/dashboard", fiber.StatusSeeOther)
	})
	router.Get("/dashboard", h.HandleDashboard)
}

// HandleDashboard shows exact counts of products, categories and orders.
func (h *DashboardHandler) HandleDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	products, err := h.products.Count(ctx)
	if err != nil {
		return h.fail(c, "/", err)
	}
	categories, err := h.categories.Count(ctx)
	if err != nil {
		return h.fail(c, "/", err)
	}
	orders, err := h.orders.Count(ctx)
	if err != nil {
		return h.fail(c, "/", err)
	}
	return h.page(c, fiber.Map{
		"products":   products,
		"categories": categories,
		"orders":     orders,
	})
}
