package handler

import (
	"mouna-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

const auditLogPageSize = 50

type AuditHandler struct {
	repo repository.AuditLogRepository
}

func NewAuditHandler(repo repository.AuditLogRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// GetAuditLogs returns the latest 50 trail entries, newest first, joined
// with the acting user's name and role.
// GET /api/audit-logs
func (h *AuditHandler) GetAuditLogs(c *fiber.Ctx) error {
	logs, err := h.repo.FindLatest(auditLogPageSize)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch audit logs"})
	}
	return c.JSON(logs)
}
