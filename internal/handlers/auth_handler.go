package handlers

import (
	"strings"
	"time"

	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/middleware"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	Responder
	authService  *services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session cookie HTTPS only.
func NewAuthHandler(authService *services.AuthService, r Responder, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		Responder:    r,
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/login", h.HandleLoginPage)
	router.Post("/login", h.HandleLogin)
	router.Get("/register", h.HandleRegisterPage)
	router.Post("/register", h.HandleRegister)
	router.Post("/logout", h.HandleLogout)
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// RegisterRequest represents the registration form.
type RegisterRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

func (h *AuthHandler) HandleLoginPage(c *fiber.Ctx) error {
	return h.page(c, fiber.Map{"next": safeNext(c.Query("next"))})
}

// HandleLogin checks the credentials and stores the signed token in the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseForm(c, &req); err != nil {
		h.log.Debug(c.UserContext(), err.Error())
		return h.redirect(c, "/login", flash.Error, flash.AuthInvalidForm)
	}

	token, user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, "/login", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.TokenTTL()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	h.log.Info(h.log.WithUserID(c.UserContext(), user.ID), "user logged in")
	return h.redirect(c, safeNext(req.Next), flash.Success, flash.AuthLoggedIn)
}

func (h *AuthHandler) HandleRegisterPage(c *fiber.Ctx) error {
	return h.page(c, nil)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseForm(c, &req); err != nil {
		h.log.Debug(c.UserContext(), err.Error())
		return h.redirect(c, "/register", flash.Error, flash.AuthInvalidForm)
	}

	user, err := h.authService.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, "/register", err)
	}
	h.log.Info(h.log.WithUserID(c.UserContext(), user.ID), "user registered")
	return h.redirect(c, "/login", flash.Success, flash.AuthRegistered)
}

func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.SessionCookie)
	return h.redirect(c, "/", flash.Success, flash.AuthLoggedOut)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
