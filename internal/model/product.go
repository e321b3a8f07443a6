package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is one stock batch: a barcode + expiry-day combination with its
// quantity. Two rows may share a barcode when their expiry days differ.
// The unique index on (barcode, expiry_day) makes the merge key race-safe:
// concurrent creates for the same batch collide instead of duplicating.
type Product struct {
	BaseModel
	Barcode    *string    `gorm:"type:varchar(50);uniqueIndex:idx_product_batch" json:"barcode"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category   string     `gorm:"type:varchar(100)" json:"category"`
	Expiry     *time.Time `json:"expiry"`
	ExpiryDay  *time.Time `gorm:"type:date;uniqueIndex:idx_product_batch" json:"-"` // day-truncated merge key
	Department string     `gorm:"type:varchar(100)" json:"department"`
	Quantity   int        `gorm:"default:1" json:"quantity"`
	Image      string     `gorm:"type:text" json:"image"` // data-URI or URL

	AddedByUserID *uuid.UUID `gorm:"type:uuid" json:"addedByUserId,omitempty"`
	AddedBy       *User      `gorm:"foreignKey:AddedByUserID" json:"addedBy,omitempty"`
}

// TruncateToDay strips the time-of-day, keeping only the calendar date.
// Merge comparisons use the day; the stored expiry keeps its full precision.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
