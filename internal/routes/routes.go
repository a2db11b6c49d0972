package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Product  *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Webhook  *handlers.WebhookHandler
	Order    *handlers.OrderHandler
	Admin    *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, users middleware.UserResolver, h Handlers) {
	api := app.Group("/api")

	// Webhooks are registered ahead of the per-IP limiter; provider deliveries
	// arrive from a handful of addresses.
	api.Post("/webhook/stripe", h.Webhook.HandleStripe)

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/", h.Health.Root)
	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	authLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	auth.Post("/register", authLimit, h.Auth.Register)
	auth.Post("/login", authLimit, h.Auth.Login)

	// Catalog (public)
	api.Get("/products", h.Product.List)
	api.Get("/products/:id", h.Product.Get)

	if cfg.SeedEnabled {
		api.Post("/seed", h.Admin.Seed)
	}

	// Protected routes (JWT required) - apply middleware to individual groups
	// so public routes stay untouched
	authed := []fiber.Handler{middleware.JWTProtected(cfg), middleware.CurrentUser(users)}

	api.Get("/auth/me", append(authed, h.Auth.Me)...)

	cart := api.Group("/cart", authed...)
	cart.Get("/", h.Cart.Get)
	cart.Post("/add", h.Cart.Add)
	cart.Put("/update", h.Cart.Update)
	cart.Delete("/clear", h.Cart.Clear)

	checkout := api.Group("/checkout", authed...)
	checkout.Post("/create-session", h.Checkout.CreateSession)
	checkout.Get("/status/:session_id", h.Checkout.Status)

	api.Get("/orders", append(authed, h.Order.ListMine)...)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", append(authed, middleware.AdminRequired())...)
	admin.Post("/products", h.Product.Create)
	admin.Put("/products/:id", h.Product.Update)
	admin.Delete("/products/:id", h.Product.Delete)
	admin.Get("/orders", h.Order.ListAll)
	admin.Get("/orders/export", h.Order.Export)
	admin.Get("/stats", h.Admin.Stats)
}
