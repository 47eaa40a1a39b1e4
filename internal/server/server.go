// Package server assembles repositories, services and handlers into the fiber app.
package server

import (
	"errors"
	"time"

	"github.com/RajaSunrise/toko/internal/config"
	"github.com/RajaSunrise/toko/internal/flash"
	"github.com/RajaSunrise/toko/internal/handlers"
	"github.com/RajaSunrise/toko/internal/middleware"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/metrics"
	"github.com/RajaSunrise/toko/pkg/pagadito"
	"github.com/RajaSunrise/toko/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the long lived resources the app is built from. Publisher and Guard may be nil.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Log       *logger.Logger
	Publisher services.EventPublisher
	Guard     services.IdempotencyStore
	Bucket    storage.Bucket
	Registry  *prometheus.Registry
}

// New wires every layer and returns the ready to listen fiber app.
func New(d Deps) *fiber.App {
	cfg := d.Config
	log := d.Log

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(d.DB)
	productRepo := repositories.NewGORMProductRepository(d.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(d.DB)
	cartRepo := repositories.NewGORMCartRepository(d.DB)
	addressRepo := repositories.NewGORMAddressRepository(d.DB)
	orderRepo := repositories.NewGORMOrderRepository(d.DB)

	// --- Services ---
	var registerer prometheus.Registerer
	if d.Registry != nil {
		registerer = d.Registry
	}
	checkoutMetrics := metrics.NewCheckout(registerer)
	authService := services.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	productService := services.NewProductService(productRepo, categoryRepo, d.Bucket, log)
	categoryService := services.NewCategoryService(categoryRepo)
	cartService := services.NewCartService(cartRepo, productRepo, d.Bucket)
	addressService := services.NewAddressService(addressRepo)
	orderService := services.NewOrderService(orderRepo, cartService, addressRepo, d.Publisher, checkoutMetrics, log, cfg.Payment.Currency)
	reconciler := services.NewReconcilerService(orderRepo, d.Guard, cfg.Redis.IdempotencyTTL, d.Publisher, checkoutMetrics, log)

	var gateway *pagadito.Client
	if cfg.Payment.Enabled() {
		gateway = pagadito.NewClient(pagadito.Config{
			UID:         cfg.Payment.UID,
			WKey:        cfg.Payment.WKey,
			CheckoutURL: cfg.Payment.CheckoutURL,
		})
	}

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "toko",
		BodyLimit:    storage.MaxImageBytes + 1<<20,
		ErrorHandler: errorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.App.IsProd()}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: log.Zerolog(),
	}))
	app.Use(middleware.RequestContext(cfg.App.RequestTimeout, log))
	app.Use(middleware.Authenticate(authService, log))

	sessions := session.New(session.Config{
		CookieHTTPOnly: true,
		CookieSecure:   cfg.App.IsProd(),
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Expiration:     time.Hour,
	})
	flasher := flash.New(sessions, cfg.App.Locale)
	r := handlers.NewResponder(flasher, log)
	authRequired := middleware.AuthRequired(flasher)
	adminRequired := middleware.AdminRequired(authService, flasher, log)

	// --- Routes ---
	handlers.NewHealthHandler(d.DB, log).RegisterRoutes(app)
	if d.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	handlers.NewCatalogHandler(productService, r).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, r, cfg.App.IsProd()).RegisterRoutes(app)
	handlers.NewPaymentHandler(reconciler, r).RegisterRoutes(app, authRequired)

	handlers.NewProfileHandler(addressService, r).RegisterRoutes(app.Group("/profile", authRequired))
	handlers.NewCartHandler(cartService, r).RegisterRoutes(app.Group("/cart", authRequired))
	handlers.NewCheckoutHandler(cartService, addressService, orderService, gateway, cfg.App.BaseURL, r).
		RegisterRoutes(app.Group("/checkout", authRequired))
	handlers.NewOrderHandler(orderService, r).RegisterRoutes(app.Group("/orders", authRequired))

	admin := app.Group("/admin", authRequired, adminRequired)
	handlers.NewDashboardHandler(productService, categoryService, orderService, r).RegisterRoutes(admin)
	handlers.NewAdminProductHandler(productService, r).RegisterRoutes(admin)
	handlers.NewAdminCategoryHandler(categoryService, r).RegisterRoutes(admin)
	handlers.NewAdminOrderHandler(orderService, r).RegisterRoutes(admin)

	return app
}

// errorHandler answers unhandled errors with a JSON body and logs server side failures.
func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error(c.UserContext(), "unhandled request error", err)
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
