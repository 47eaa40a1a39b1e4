package middleware

import (
	"net/url"
	"strings"

	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// SessionCookie holds the signed session token.
const SessionCookie = "toko_session"

const (
	localUserID = "user_id"
	localEmail  = "email"
)

// Authenticate resolves the session token from the cookie or a Bearer header. Requests
// without a valid token continue anonymously.
func Authenticate(authService *services.AuthService, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			// Expected format: "Bearer <token>"
			parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return c.Next()
		}

		identity, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Debug(c.UserContext(), "ignoring invalid session token: "+err.Error())
			c.ClearCookie(SessionCookie)
			return c.Next()
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals(localUserID, identity.UserID)
		c.Locals(localEmail, identity.Email)
		c.SetUserContext(log.WithUserID(c.UserContext(), identity.UserID))
		return c.Next()
	}
}

// AuthRequired sends anonymous visitors to the login page, remembering where they were going.
func AuthRequired(flasher *flash.Flasher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) != "" {
			return c.Next()
		}
		_ = flasher.Add(c, flash.Info, flash.AuthRequired)
		next := c.OriginalURL()
		if c.Method() != fiber.MethodGet {
			next = c.Get(fiber.HeaderReferer, "/")
		}
		return c.Redirect("/login?next="+url.QueryEscape(next), fiber.StatusSeeOther)
	}
}

// AdminRequired lets through only users listed as admins.
func AdminRequired(authService *services.AuthService, flasher *flash.Flasher, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := authService.IsAdmin(c.UserContext(), UserID(c))
		if err != nil {
			log.Error(c.UserContext(), "admin check failed", err)
			return fiber.NewError(fiber.StatusServiceUnavailable, "admin check failed")
		}
		if !ok {
			_ = flasher.Add(c, flash.Error, flash.AdminForbidden)
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// UserID returns the authenticated user of the request, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// Email returns the email of the authenticated user, or "".
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(localEmail).(string)
	return email
}
