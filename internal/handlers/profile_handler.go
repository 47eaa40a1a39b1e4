package handlers

import (
	"strings"

	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/middleware"
	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ProfileHandler manages the shipping addresses of the signed-in user.
type ProfileHandler struct {
	Responder
	addresses *services.AddressService
}

func NewProfileHandler(addresses *services.AddressService, r Responder) *ProfileHandler {
	return &ProfileHandler{Responder: r, addresses: addresses}
}

// RegisterRoutes expects router to be mounted at /profile behind AuthRequired.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleProfile)
	router.Post("/address", h.HandleAddAddress)
	router.Post("/address/:id/delete", h.HandleDeleteAddress)
}

// AddressRequest is the new address form.
type AddressRequest struct {
	FullName   string `form:"full_name" validate:"required,max=200"`
	Phone      string `form:"phone" validate:"omitempty,max=50"`
	Line1      string `form:"line1" validate:"required,max=255"`
	Line2      string `form:"line2" validate:"omitempty,max=255"`
	City       string `form:"city" validate:"required,max=120"`
	Region     string `form:"region" validate:"omitempty,max=120"`
	PostalCode string `form:"postal_code" validate:"omitempty,max=20"`
	Country    string `form:"country" validate:"omitempty,len=2"`
	Default    string `form:"is_default"`
}

func (r AddressRequest) address() models.Address {
	return models.Address{
		FullName:   strings.TrimSpace(r.FullName),
		Phone:      strings.TrimSpace(r.Phone),
		Line1:      strings.TrimSpace(r.Line1),
		Line2:      strings.TrimSpace(r.Line2),
		City:       strings.TrimSpace(r.City),
		Region:     strings.TrimSpace(r.Region),
		PostalCode: strings.TrimSpace(r.PostalCode),
		Country:    r.Country,
		IsDefault:  checkbox(r.Default),
	}
}

func (h *ProfileHandler) HandleProfile(c *fiber.Ctx) error {
	addresses, err := h.addresses.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "/", err)
	}
	return h.page(c, fiber.Map{"email": middleware.Email(c), "addresses": addresses})
}

func (h *ProfileHandler) HandleAddAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if err := parseForm(c, &req); err != nil {
		h.log.Debug(c.UserContext(), err.Error())
		return h.redirect(c, "/profile", flash.Error, flash.AddressInvalid)
	}

	address := req.address()
	if err := h.addresses.Add(c.UserContext(), middleware.UserID(c), &address); err != nil {
		return h.fail(c, "/profile", err)
	}
	return h.redirect(c, "/profile", flash.Success, flash.AddressSaved)
}

func (h *ProfileHandler) HandleDeleteAddress(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.redirect(c, "/profile", flash.Error, flash.AddressNotFound)
	}
	if err := h.addresses.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return h.fail(c, "/profile", err)
	}
	return h.redirect(c, "/profile", flash.Success, flash.AddressDeleted)
}
