package repository

import (
	"mouna-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SavedProductRepository interface {
	Upsert(saved *model.SavedProduct) error
	FindByBarcode(barcode string) (*model.SavedProduct, error)
}

type savedProductRepo struct {
	db *gorm.DB
}

func NewSavedProductRepo(db *gorm.DB) SavedProductRepository {
	return &savedProductRepo{db}
}

// Upsert refreshes the memory row for a barcode, creating it when missing.
// An empty incoming image keeps whatever image the row already has.
func (r *savedProductRepo) Upsert(saved *model.SavedProduct) error {
	assignments := map[string]interface{}{
		"name":       saved.Name,
		"category":   saved.Category,
		"updated_at": saved.UpdatedAt,
	}
	if saved.Image != "" {
		assignments["image"] = saved.Image
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "barcode"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(saved).Error
}

func (r *savedProductRepo) FindByBarcode(barcode string) (*model.SavedProduct, error) {
	var saved model.SavedProduct
	if err := r.db.First(&saved, "barcode = ?", barcode).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}
