package model

import "time"

// SavedProduct is the barcode memory table: metadata learned from past
// entries, independent of current stock. Rows persist across product
// deletions and are deliberately left untouched by restore.
type SavedProduct struct {
	Barcode   string    `gorm:"type:varchar(50);primaryKey" json:"barcode"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Category  string    `gorm:"type:varchar(100)" json:"category"`
	Image     string    `gorm:"type:text" json:"image"`
	UpdatedAt time.Time `json:"updatedAt"`
}
