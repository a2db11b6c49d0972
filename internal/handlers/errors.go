package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors to HTTP status codes. Anything unknown is a
// 500 whose details stay in the log.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrNoFieldsToUpdate),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrInvalidTotal):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrPaymentProvider):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	message := err.Error()

	switch {
	case code == fiber.StatusBadGateway:
		slog.Error("payment provider call failed", "method", c.Method(), "path", c.Path(), "error", err.Error(), "request_id", requestID(c))
		message = services.ErrPaymentProvider.Error()
	case code >= 500:
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error(), "request_id", requestID(c))
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
