package repository

import (
	"errors"
	"time"

	"mouna-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	// CreateOrMerge inserts the batch, or, when a row with the same
	// (barcode, expiry day) exists, atomically increments that row's
	// quantity and refreshes name/category (image only when the incoming
	// one is non-empty). Returns the resulting row and whether it merged.
	CreateOrMerge(product *model.Product) (*model.Product, bool, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByBarcode(barcode string) ([]model.Product, error)
	Search(search string, offset, limit int) ([]model.Product, int64, error)
	Save(product *model.Product) error
	Delete(id uuid.UUID) error
	CountAll() (int64, error)
	CountExpiredBefore(t time.Time) (int64, error)
	CountExpiringBetween(start, end time.Time) (int64, error)
	FindExpiringBetween(start, end time.Time) ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// The lookup-then-write runs inside one transaction with a row lock, and
// the unique batch index backs it up: two concurrent creates for the same
// key cannot both insert.
func (r *productRepo) CreateOrMerge(product *model.Product) (*model.Product, bool, error) {
	var result *model.Product
	var merged bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if product.Barcode != nil && product.ExpiryDay != nil {
			var existing model.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("barcode = ? AND expiry_day = ?", *product.Barcode, *product.ExpiryDay).
				First(&existing).Error
			if err == nil {
				existing.Quantity += product.Quantity
				existing.Name = product.Name
				existing.Category = product.Category
				if product.Image != "" {
					existing.Image = product.Image
				}
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				result = &existing
				merged = true
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if err := tx.Create(product).Error; err != nil {
			return err
		}
		result = product
		return nil
	})

	return result, merged, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("AddedBy").First(&product, "id = ?", id).Error
	return &product, err
}

// FindByBarcode returns every batch carrying the barcode, newest first.
func (r *productRepo) FindByBarcode(barcode string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("AddedBy").
		Where("barcode = ?", barcode).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// Search lists products with an optional case-insensitive substring match
// against name or barcode. Returns the page plus the total matching count.
func (r *productRepo) Search(search string, offset, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.Model(&model.Product{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR barcode ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("AddedBy").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Save(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepo) CountExpiredBefore(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("expiry < ?", t).Count(&count).Error
	return count, err
}

func (r *productRepo) CountExpiringBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("expiry BETWEEN ? AND ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *productRepo) FindExpiringBetween(start, end time.Time) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("expiry BETWEEN ? AND ?", start, end).
		Order("expiry ASC").
		Find(&products).Error
	return products, err
}
