package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/payment"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/payment/paymenttest"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	app      *fiber.App
	db       *gorm.DB
	auth     *services.AuthService
	checkout *services.CheckoutService
	provider *paymenttest.Provider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		PaymentCurrency:   "usd",
		PaymentTimeout:    5 * time.Second,
		FrontendURL:       "https://shop.example.com",
		CORSOrigins:       "*",
		SeedEnabled:       true,
		SeedAdminEmail:    "admin@shoehaven.com",
		SeedAdminPassword: "admin123",
	}

	provider := paymenttest.New()
	auth := services.NewAuthService(db, cfg)
	checkout := services.NewCheckoutService(db, cfg, provider)

	app := fiber.New()
	Setup(app, cfg, auth, Handlers{
		Auth:     handlers.NewAuthHandler(auth),
		Health:   handlers.NewHealthHandler(db),
		Product:  handlers.NewProductHandler(services.NewCatalogService(db, nil)),
		Cart:     handlers.NewCartHandler(services.NewCartService(db)),
		Checkout: handlers.NewCheckoutHandler(checkout),
		Webhook:  handlers.NewWebhookHandler(checkout),
		Order:    handlers.NewOrderHandler(services.NewOrderService(db)),
		Admin:    handlers.NewAdminHandler(services.NewAdminService(db), services.NewSeedService(db, cfg)),
	})

	return &testServer{app: app, db: db, auth: auth, checkout: checkout, provider: provider}
}

func (s *testServer) token(t *testing.T, email, role string) string {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: email, Password: "x", Name: "Test", Role: role}
	require.NoError(t, s.db.Create(user).Error)
	token, err := s.auth.IssueToken(user)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/seed", "", nil)
	var msg dto.MessageResponse
	decode(t, resp, &msg)
	assert.Equal(t, "Data seeded successfully", msg.Message)

	resp = s.do(t, http.MethodGet, "/api/products?category=women", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	decode(t, resp, &products)
	assert.Len(t, products, 3)

	resp = s.do(t, http.MethodGet, "/api/products/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/products?featured=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterConflict(t *testing.T) {
	s := newTestServer(t)
	body := dto.RegisterRequest{Email: "jane@example.com", Password: "s3cretpass", Name: "Jane"}

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var auth dto.AuthResponse
	decode(t, resp, &auth)

	resp = s.do(t, http.MethodGet, "/api/auth/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	decode(t, resp, &me)
	assert.Equal(t, "jane@example.com", me.Email)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "jane@example.com", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/cart", "/api/orders", "/api/auth/me", "/api/admin/stats"} {
		resp := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp := s.do(t, http.MethodGet, "/api/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	userToken := s.token(t, "jane@example.com", models.RoleUser)
	adminToken := s.token(t, "admin@example.com", models.RoleAdmin)

	create := dto.CreateProductRequest{Name: "Chelsea Boot", Category: "men"}

	resp := s.do(t, http.MethodPost, "/api/admin/products", userToken, create)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/admin/products", adminToken, create)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decode(t, resp, &product)

	resp = s.do(t, http.MethodPut, "/api/admin/products/"+product.ID.String(), adminToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/admin/products/"+uuid.NewString(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats dto.StatsResponse
	decode(t, resp, &stats)
	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.TotalUsers)

	resp = s.do(t, http.MethodGet, "/api/admin/orders/export", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.token(t, "admin@example.com", models.RoleAdmin)
	userToken := s.token(t, "jane@example.com", models.RoleUser)

	resp := s.do(t, http.MethodPost, "/api/admin/products", adminToken, map[string]interface{}{
		"name": "Velocity Pro", "category": "sports", "price": 275,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decode(t, resp, &product)

	resp = s.do(t, http.MethodPost, "/api/checkout/create-session", userToken, dto.CreateSessionRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/cart/add", userToken, dto.CartItemRequest{
		ProductID: product.ID.String(), Quantity: 2, Size: "10", Color: "Black/Gold",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/checkout/create-session", userToken, dto.CreateSessionRequest{OriginURL: "https://shop.example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session dto.CheckoutSessionResponse
	decode(t, resp, &session)
	assert.NotEmpty(t, session.URL)

	// bad signature is acknowledged but changes nothing
	payload := paymenttest.WebhookPayload(session.SessionID, payment.PaymentStatusPaid, 55000)
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "forged")
	whResp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, whResp.StatusCode)
	var ack dto.WebhookAck
	decode(t, whResp, &ack)
	assert.True(t, ack.Received)

	s.provider.MarkPaid(session.SessionID)
	resp = s.do(t, http.MethodGet, "/api/checkout/status/"+session.SessionID, userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status dto.CheckoutStatusResponse
	decode(t, resp, &status)
	assert.Equal(t, payment.PaymentStatusPaid, status.PaymentStatus)
	assert.EqualValues(t, 55000, status.AmountTotal)

	resp = s.do(t, http.MethodGet, "/api/checkout/status/"+session.SessionID, userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/orders", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	decode(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "550.00", orders[0].Total.StringFixed(2))

	resp = s.do(t, http.MethodGet, "/api/cart", userToken, nil)
	var cart dto.CartResponse
	decode(t, resp, &cart)
	assert.Empty(t, cart.Items)

	resp = s.do(t, http.MethodGet, "/api/checkout/status/cs_unknown", userToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	s.provider.FailStatus = true
	resp = s.do(t, http.MethodGet, "/api/checkout/status/"+session.SessionID, userToken, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
