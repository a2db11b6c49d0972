package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkout *services.CheckoutService
}

func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	user, _ := middleware.GetUser(c)
	var req dto.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	resp, err := h.checkout.CreateSession(c.UserContext(), user, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *CheckoutHandler) Status(c *fiber.Ctx) error {
	user, _ := middleware.GetUser(c)
	resp, err := h.checkout.CheckStatus(c.UserContext(), user, c.Params("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
