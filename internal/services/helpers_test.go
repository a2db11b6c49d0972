package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		PaymentCurrency:   "usd",
		PaymentTimeout:    5 * time.Second,
		FrontendURL:       "https://shop.example.com",
		CORSOrigins:       "https://beta.example.com",
		SeedAdminEmail:    "admin@shoehaven.com",
		SeedAdminPassword: "admin123",
	}
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "not-a-real-hash",
		Name:     "Test User",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, name, category, price string, featured bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Sizes:    datatypes.JSONSlice[string]{"8", "9"},
		Colors:   datatypes.JSONSlice[string]{"Black"},
		Stock:    10,
		Featured: featured,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
