package handler

import (
	"errors"

	"mouna-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BackupHandler struct {
	service service.BackupService
}

func NewBackupHandler(s service.BackupService) *BackupHandler {
	return &BackupHandler{service: s}
}

// Backup snapshots users, products, categories, and audit logs into one
// JSON document. The barcode memory table is excluded on purpose.
// GET /api/backup
func (h *BackupHandler) Backup(c *fiber.Ctx) error {
	doc, err := h.service.Backup()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate backup"})
	}
	return c.JSON(doc)
}

// Restore replaces all data with a backup document, all-or-nothing.
// POST /api/restore
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	var doc service.BackupDocument
	if err := c.BodyParser(&doc); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Restore(&doc); err != nil {
		if errors.Is(err, service.ErrInvalidBackup) {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid backup file format"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Restore failed: " + err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Restore successful"})
}
