package handlers

import (
	"strings"

	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/pkg/money"
	"github.com/gofiber/fiber/v2"
)

// AdminProductHandler is the back-office CRUD for products.
type AdminProductHandler struct {
	Responder
	service *services.ProductService
}

func NewAdminProductHandler(service *services.ProductService, r Responder) *AdminProductHandler {
	return &AdminProductHandler{Responder: r, service: service}
}

// RegisterRoutes expects router to be mounted at /admin behind AdminRequired.
func (h *AdminProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleList)
	products.Post("/", h.HandleCreate)
	products.Get("/:id/edit", h.HandleEdit)
	products.Post("/:id", h.HandleUpdate)
	products.Post("/:id/delete", h.HandleDelete)
	products.Post("/:id/image", h.HandleUploadImage)
}

// ProductRequest is the product create/edit form. category_ids may repeat.
type ProductRequest struct {
	Name        string `form:"name" validate:"required,max=200"`
	Slug        string `form:"slug" validate:"omitempty,max=200"`
	Description string `form:"description"`
	Price       string `form:"price" validate:"required"`
	Stock       int    `form:"stock" validate:"gte=0"`
	Active      string `form:"active"`
	CategoryIDs []uint `form:"category_ids"`
}

func (r ProductRequest) input() (services.ProductInput, error) {
	price, err := money.Parse(r.Price)
	if err != nil {
		return services.ProductInput{}, err
	}
	return services.ProductInput{
		Name:        r.Name,
		Slug:        strings.TrimSpace(r.Slug),
		Description: r.Description,
		Price:       price,
		Stock:       r.Stock,
		Active:      checkbox(r.Active),
		CategoryIDs: r.CategoryIDs,
	}, nil
}

func (h *AdminProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, "/admin/dashboard", err)
	}
	return h.page(c, fiber.Map{"products": products})
}

func (h *AdminProductHandler) HandleCreate(c *fiber.Ctx) error {
	in, ok := h.parseProduct(c)
	if !ok {
		return h.redirect(c, "/admin/products", flash.Error, flash.InvalidForm)
	}
	if _, err := h.service.Create(c.UserContext(), in); err != nil {
		return h.fail(c, "/admin/products", err)
	}
	return h.redirect(c, "/admin/products", flash.Success, flash.ProductSaved)
}

// HandleEdit returns the product with every category and the ids assigned to it.
func (h *AdminProductHandler) HandleEdit(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/products", flash.Error, flash.ProductNotFound)
	}
	edit, err := h.service.Edit(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "/admin/products", err)
	}
	return h.page(c, fiber.Map{"edit": edit})
}

func (h *AdminProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/products", flash.Error, flash.ProductNotFound)
	}
	back := "/admin/products/" + uintString(id) + "/edit"
	in, ok := h.parseProduct(c)
	if !ok {
		return h.redirect(c, back, flash.Error, flash.InvalidForm)
	}
	if _, err := h.service.Update(c.UserContext(), id, in); err != nil {
		return h.fail(c, back, err)
	}
	return h.redirect(c, back, flash.Success, flash.ProductSaved)
}

func (h *AdminProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/products", flash.Error, flash.ProductNotFound)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, "/admin/products", err)
	}
	return h.redirect(c, "/admin/products", flash.Success, flash.ProductDeleted)
}

// HandleUploadImage stores the multipart "file" as the product image.
func (h *AdminProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/products", flash.Error, flash.ProductNotFound)
	}
	back := "/admin/products/" + uintString(id) + "/edit"

	header, err := c.FormFile("file")
	if err != nil {
		return h.redirect(c, back, flash.Error, flash.ImageInvalid)
	}
	file, err := header.Open()
	if err != nil {
		return h.redirect(c, back, flash.Error, flash.ImageInvalid)
	}
	defer file.Close()

	url, err := h.service.UploadImage(c.UserContext(), id, file)
	if err != nil {
		return h.fail(c, back, err)
	}
	h.log.Info(h.log.WithField(c.UserContext(), "product_id", id), "product image uploaded: "+url)
	return h.redirect(c, back, flash.Success, flash.ImageUploaded)
}

func (h *AdminProductHandler) parseProduct(c *fiber.Ctx) (services.ProductInput, bool) {
	var req ProductRequest
	if err := parseForm(c, &req); err != nil {
		h.log.Debug(c.UserContext(), err.Error())
		return services.ProductInput{}, false
	}
	in, err := req.input()
	if err != nil {
		h.log.Debug(c.UserContext(), "invalid price: "+err.Error())
		return services.ProductInput{}, false
	}
	return in, true
}
