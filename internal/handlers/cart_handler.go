package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	carts *services.CartService
}

func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	user, _ := middleware.GetUser(c)
	cart, err := h.carts.Get(c.UserContext(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	user, _ := middleware.GetUser(c)
	var req dto.CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.carts.Add(c.UserContext(), user, &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Item added to cart"})
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	user, _ := middleware.GetUser(c)
	var req dto.CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.carts.Update(c.UserContext(), user, &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Cart updated"})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	user, _ := middleware.GetUser(c)
	if err := h.carts.Clear(c.UserContext(), user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Cart cleared"})
}
