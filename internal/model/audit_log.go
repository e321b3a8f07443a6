package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
	AuditLogin  AuditAction = "LOGIN"
)

// AuditLog is an append-only trail row. No update or delete path exists.
type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Action    AuditAction `gorm:"type:varchar(10);not null" json:"action"`
	Target    string      `gorm:"type:varchar(255)" json:"target"` // product name
	Details   string      `gorm:"type:text" json:"details"`
	UserID    *uuid.UUID  `gorm:"type:uuid" json:"userId,omitempty"`
	User      *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
