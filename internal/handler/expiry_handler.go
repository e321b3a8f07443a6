package handler

import (
	"mouna-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExpiryHandler struct {
	service service.ExpiryService
}

func NewExpiryHandler(s service.ExpiryService) *ExpiryHandler {
	return &ExpiryHandler{service: s}
}

// CheckExpiry scans for soon-to-expire stock and broadcasts one push
// notification when any is found.
// GET /api/check-expiry
func (h *ExpiryHandler) CheckExpiry(c *fiber.Ctx) error {
	report, err := h.service.CheckExpiry(c.Context())
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "Notification dispatch failed", "details": err.Error()})
	}
	return c.JSON(report)
}
