package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/middleware"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Responder holds what every page handler needs to answer a request.
type Responder struct {
	flasher *flash.Flasher
	log     *logger.Logger
}

func NewResponder(flasher *flash.Flasher, log *logger.Logger) Responder {
	return Responder{flasher: flasher, log: log}
}

// page renders data as the view model of a page, together with pending flash messages
// and the signed-in user.
func (r Responder) page(c *fiber.Ctx, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["flash"] = r.flasher.Pop(c)
	data["user"] = fiber.Map{"id": middleware.UserID(c), "email": middleware.Email(c)}
	return c.JSON(data)
}

// redirect queues a flash message and sends the browser to location.
func (r Responder) redirect(c *fiber.Ctx, location string, kind flash.Kind, key flash.Key) error {
	if err := r.flasher.Add(c, kind, key); err != nil {
		r.log.Warn(c.UserContext(), "failed to store flash message", err)
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

// fail converts err into an error flash and sends the browser back to location.
func (r Responder) fail(c *fiber.Ctx, location string, err error) error {
	key := flashKeyFor(err)
	if key == flash.Unavailable {
		r.log.Error(c.UserContext(), "request failed", err)
	}
	return r.redirect(c, location, flash.Error, key)
}

// flashKeyFor maps domain errors to the message shown to the user.
func flashKeyFor(err error) flash.Key {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return flash.CartEmpty
	case errors.Is(err, services.ErrAddressNotFound):
		return flash.AddressNotFound
	case errors.Is(err, services.ErrOrderNotFound):
		return flash.OrderNotFound
	case errors.Is(err, services.ErrProductNotFound):
		return flash.ProductNotFound
	case errors.Is(err, services.ErrCategoryNotFound):
		return flash.CategoryNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return flash.AuthInvalidCredentials
	case errors.Is(err, services.ErrEmailTaken):
		return flash.AuthEmailTaken
	case errors.Is(err, services.ErrSlugTaken):
		return flash.SlugTaken
	case errors.Is(err, services.ErrInvalidOrderStatus):
		return flash.OrderStatusInvalid
	case errors.Is(err, services.ErrUnauthenticated):
		return flash.AuthRequired
	case errors.Is(err, storage.ErrUnsupportedImage):
		return flash.ImageInvalid
	}
	return flash.Unavailable
}

// parseForm binds the request body into out and validates it.
func parseForm(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s failed on '%s'", e.Field(), e.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// idParam reads a positive integer route parameter.
func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// checkbox reads an HTML checkbox value.
func checkbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
