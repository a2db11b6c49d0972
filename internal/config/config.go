package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Payments (Stripe)
	StripeSecretKey     string
	StripeWebhookSecret string
	PaymentCurrency     string
	PaymentTimeout      time.Duration

	// Catalog cache (optional)
	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	// Order events (optional)
	KafkaBrokers    string
	KafkaOrderTopic string

	// Receipts (optional)
	SendGridAPIKey string
	MailFrom       string

	// Seeding
	SeedEnabled       bool
	SeedAdminEmail    string
	SeedAdminPassword string

	// Logging
	LogRetentionDays int

	// Server
	Port        string
	CORSOrigins string
	FrontendURL string
	AppEnv      string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "storefront"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h"), 7*24*time.Hour),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PaymentCurrency:     strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		PaymentTimeout:      parseDuration(getEnv("PAYMENT_TIMEOUT", "15s"), 15*time.Second),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogCacheTTL: parseDuration(getEnv("CATALOG_CACHE_TTL", "5m"), 5*time.Minute),

		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order.confirmed"),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", "orders@shoehaven.com"),

		SeedEnabled:       parseBool(getEnv("SEED_ENABLED", "true")),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@shoehaven.com"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AppEnv:      getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// KafkaBrokerList splits KAFKA_BROKERS; empty means order events are disabled.
func (c *Config) KafkaBrokerList() []string {
	return splitCSV(c.KafkaBrokers)
}

// AllowedOrigin reports whether a client-supplied origin may be used for
// payment redirect URLs.
func (c *Config) AllowedOrigin(origin string) bool {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return false
	}
	if origin == c.FrontendURL {
		return true
	}
	for _, o := range splitCSV(c.CORSOrigins) {
		if o == "*" || strings.TrimRight(o, "/") == origin {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
