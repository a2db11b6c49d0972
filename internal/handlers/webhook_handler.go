package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/payment"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	checkout *services.CheckoutService
}

func NewWebhookHandler(checkout *services.CheckoutService) *WebhookHandler {
	return &WebhookHandler{checkout: checkout}
}

// HandleStripe always acknowledges so the provider does not retry forever;
// failures are only logged and reported.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	err := h.checkout.HandleWebhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))
	switch {
	case err == nil:
	case errors.Is(err, payment.ErrInvalidSignature):
		slog.Warn("webhook rejected", "action", "webhook.stripe", "error", err.Error(), "request_id", requestID(c))
	default:
		slog.Error("webhook processing failed", "action", "webhook.stripe", "error", err.Error(), "request_id", requestID(c))
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	return c.JSON(dto.WebhookAck{Received: true})
}
