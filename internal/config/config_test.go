package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("PAYMENT_CURRENCY", "USD")
	t.Setenv("SEED_ENABLED", "false")
	t.Setenv("FRONTEND_URL", "https://shop.example.com/")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "usd", cfg.PaymentCurrency)
	assert.False(t, cfg.SeedEnabled)
	assert.Equal(t, "https://shop.example.com", cfg.FrontendURL)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseDuration("nope", 3*time.Second))
	assert.Equal(t, time.Minute, parseDuration("1m", 3*time.Second))
}

func TestAllowedOrigin(t *testing.T) {
	cfg := &Config{FrontendURL: "https://shop.example.com", CORSOrigins: "https://admin.example.com, https://beta.example.com"}

	assert.True(t, cfg.AllowedOrigin("https://shop.example.com/"))
	assert.True(t, cfg.AllowedOrigin("https://beta.example.com"))
	assert.False(t, cfg.AllowedOrigin("https://evil.example.com"))
	assert.False(t, cfg.AllowedOrigin(""))

	cfg.CORSOrigins = "*"
	assert.True(t, cfg.AllowedOrigin("https://anything.example.com"))
}

func TestKafkaBrokerList(t *testing.T) {
	cfg := &Config{KafkaBrokers: "k1:9092, ,k2:9092"}
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokerList())

	cfg.KafkaBrokers = ""
	assert.Nil(t, cfg.KafkaBrokerList())
}
