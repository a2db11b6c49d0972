package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the storefront frontend plus CORS_ORIGINS. Content-Disposition
// is exposed so the admin order export keeps its filename.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg),
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Disposition",
		AllowCredentials: false,
		MaxAge:           600,
	})
}

func allowedOrigins(cfg *config.Config) string {
	origins := []string{}
	for _, o := range strings.Split(cfg.CORSOrigins, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return "*"
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}
	return strings.Join(origins, ",")
}
