package handlers

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	admin *services.AdminService
	seed  *services.SeedService
}

func NewAdminHandler(admin *services.AdminService, seed *services.SeedService) *AdminHandler {
	return &AdminHandler{admin: admin, seed: seed}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) Seed(c *fiber.Ctx) error {
	seeded, err := h.seed.Seed(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if !seeded {
		return c.JSON(dto.MessageResponse{Message: "Data already seeded"})
	}
	return c.JSON(dto.MessageResponse{Message: "Data seeded successfully"})
}
