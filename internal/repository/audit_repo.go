package repository

import (
	"mouna-backend/internal/model"

	"gorm.io/gorm"
)

// AuditLogRepository is append-only: rows can be created and listed, never
// changed or removed (restore clears the table through its own transaction).
type AuditLogRepository interface {
	Create(log *model.AuditLog) error
	FindLatest(limit int) ([]model.AuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db}
}

func (r *auditLogRepo) Create(log *model.AuditLog) error {
	return r.db.Create(log).Error
}

func (r *auditLogRepo) FindLatest(limit int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
