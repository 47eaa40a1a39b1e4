package handlers

import (
	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminCategoryHandler is the back-office CRUD for categories.
type AdminCategoryHandler struct {
	Responder
	service *services.CategoryService
}

func NewAdminCategoryHandler(service *services.CategoryService, r Responder) *AdminCategoryHandler {
	return &AdminCategoryHandler{Responder: r, service: service}
}

func (h *AdminCategoryHandler) RegisterRoutes(router fiber.Router) {
	categories := router.Group("/categories")
	categories.Get("/", h.HandleList)
	categories.Post("/", h.HandleCreate)
	categories.Get("/:id/edit", h.HandleEdit)
	categories.Post("/:id", h.HandleUpdate)
	categories.Post("/:id/delete", h.HandleDelete)
}

// CategoryRequest is the category form. An empty slug is derived from the name.
type CategoryRequest struct {
	Name string `form:"name" validate:"required,max=120"`
	Slug string `form:"slug" validate:"omitempty,max=120"`
}

func (h *AdminCategoryHandler) HandleList(c *fiber.Ctx) error {
	categories, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, "/admin/dashboard", err)
	}
	return h.page(c, fiber.Map{"categories": categories})
}

func (h *AdminCategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := parseForm(c, &req); err != nil {
		h.log.Debug(c.UserContext(), err.Error())
		return h.redirect(c, "/admin/categories", flash.Error, flash.InvalidForm)
	}
	if _, err := h.service.Create(c.UserContext(), req.Name, req.Slug); err != nil {
		return h.fail(c, "/admin/categories", err)
	}
	return h.redirect(c, "/admin/categories", flash.Success, flash.CategorySaved)
}

func (h *AdminCategoryHandler) HandleEdit(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/categories", flash.Error, flash.CategoryNotFound)
	}
	category, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "/admin/categories", err)
	}
	return h.page(c, fiber.Map{"category": category})
}

func (h *AdminCategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/categories", flash.Error, flash.CategoryNotFound)
	}
	var req CategoryRequest
	if err := parseForm(c, &req); err != nil {
		h.log.Debug(c.UserContext(), err.Error())
		return h.redirect(c, "/admin/categories", flash.Error, flash.InvalidForm)
	}
	if _, err := h.service.Update(c.UserContext(), id, req.Name, req.Slug); err != nil {
		return h.fail(c, "/admin/categories", err)
	}
	return h.redirect(c, "/admin/categories", flash.Success, flash.CategorySaved)
}

func (h *AdminCategoryHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/admin/categories", flash.Error, flash.CategoryNotFound)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, "/admin/categories", err)
	}
	return h.redirect(c, "/admin/categories", flash.Success, flash.CategoryDeleted)
}
