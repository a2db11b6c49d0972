package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/payment"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	stdout := logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.StripeSecretKey == "" {
		slog.Error("STRIPE_SECRET_KEY environment variable is required")
		os.Exit(1)
	}
	if cfg.StripeWebhookSecret == "" {
		slog.Warn("STRIPE_WEBHOOK_SECRET is not set; webhook deliveries will be rejected")
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Catalog cache (optional)
	var (
		rdb       *redis.Client
		listCache services.ProductListCache
	)
	if cfg.RedisAddr != "" {
		rdb = cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		catalogCache := cache.NewCatalogCache(rdb, cfg.CatalogCacheTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := catalogCache.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, catalog cache will miss until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		listCache = catalogCache
		slog.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL.String())
	}

	// Order listeners (optional)
	var (
		listeners []events.OrderListener
		publisher *events.KafkaPublisher
	)
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(events.NewKafkaWriter(brokers, cfg.KafkaOrderTopic))
		listeners = append(listeners, publisher)
		slog.Info("order events enabled", "brokers", brokers, "topic", cfg.KafkaOrderTopic)
	}
	if cfg.SendGridAPIKey != "" {
		listeners = append(listeners, notify.NewReceiptMailer(cfg.SendGridAPIKey, cfg.MailFrom))
		slog.Info("receipt emails enabled", "from", cfg.MailFrom)
	}

	// Services
	provider := payment.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.PaymentTimeout)
	authService := services.NewAuthService(db, cfg)
	catalogService := services.NewCatalogService(db, listCache)
	cartService := services.NewCartService(db)
	checkoutService := services.NewCheckoutService(db, cfg, provider, listeners...)
	orderService := services.NewOrderService(db)
	adminService := services.NewAdminService(db)
	seedService := services.NewSeedService(db, cfg)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authService, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Health:   handlers.NewHealthHandler(db),
		Product:  handlers.NewProductHandler(catalogService),
		Cart:     handlers.NewCartHandler(cartService),
		Checkout: handlers.NewCheckoutHandler(checkoutService),
		Webhook:  handlers.NewWebhookHandler(checkoutService),
		Order:    handlers.NewOrderHandler(orderService),
		Admin:    handlers.NewAdminHandler(adminService, seedService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Let in-flight order notifications finish before closing their clients.
	checkoutService.Wait()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			slog.Error("kafka writer close error", "error", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
