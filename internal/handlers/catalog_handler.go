package handlers

import (
	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the public storefront.
type CatalogHandler struct {
	Responder
	products *services.ProductService
}

func NewCatalogHandler(products *services.ProductService, r Responder) *CatalogHandler {
	return &CatalogHandler{Responder: r, products: products}
}

func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleCatalog)
	router.Get("/products/:id", h.HandleProduct)
}

// HandleCatalog lists active products, filtered by ?q= and ?category=<slug>.
func (h *CatalogHandler) HandleCatalog(c *fiber.Ctx) error {
	catalog, err := h.products.Catalog(c.UserContext(), c.Query("q"), c.Query("category"))
	if err != nil {
		h.log.Error(c.UserContext(), "failed to load catalog", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, h.flasher.T(flash.Unavailable))
	}
	return h.page(c, fiber.Map{"catalog": catalog})
}

func (h *CatalogHandler) HandleProduct(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/", flash.Error, flash.ProductNotFound)
	}
	product, err := h.products.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "/", err)
	}
	if !product.Active {
		return h.redirect(c, "/", flash.Error, flash.ProductNotFound)
	}
	return h.page(c, fiber.Map{"product": product})
}
