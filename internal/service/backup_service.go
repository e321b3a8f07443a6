package service

import (
	"fmt"
	"time"

	"mouna-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BackupService interface {
	Backup() (*BackupDocument, error)
	Restore(doc *BackupDocument) error
}

// BackupDocument is the portable snapshot: the four relational tables plus
// a timestamp and format version. The barcode memory (SavedProduct) is
// deliberately excluded — it is long-lived institutional knowledge,
// independent of whatever stock snapshot gets restored.
type BackupDocument struct {
	Timestamp time.Time  `json:"timestamp"`
	Version   string     `json:"version"`
	Data      BackupData `json:"data"`
}

type BackupData struct {
	Users      []BackupUser     `json:"users"`
	Products   []model.Product  `json:"products"`
	Categories []model.Category `json:"categories"`
	AuditLogs  []model.AuditLog `json:"auditLogs"`
}

// BackupUser carries the password hash that the API user shape hides.
// Without it a restore would wipe every credential.
type BackupUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const backupVersion = "1.0"

type backupService struct {
	db *gorm.DB
}

func NewBackupService(db *gorm.DB) BackupService {
	return &backupService{db: db}
}

func (s *backupService) Backup() (*BackupDocument, error) {
	var users []model.User
	var products []model.Product
	var categories []model.Category
	var auditLogs []model.AuditLog

	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&products).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, err
	}
	if err := s.db.Find(&auditLogs).Error; err != nil {
		return nil, err
	}

	backupUsers := make([]BackupUser, len(users))
	for i, u := range users {
		backupUsers[i] = BackupUser{
			ID:        u.ID,
			Username:  u.Username,
			Password:  u.Password,
			Name:      u.Name,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		}
	}

	return &BackupDocument{
		Timestamp: time.Now().UTC(),
		Version:   backupVersion,
		Data: BackupData{
			Users:      backupUsers,
			Products:   products,
			Categories: categories,
			AuditLogs:  auditLogs,
		},
	}, nil
}

// validateBackup performs the only structural check the format defines:
// the users and products arrays must be present.
func validateBackup(doc *BackupDocument) error {
	if doc == nil || doc.Data.Users == nil || doc.Data.Products == nil {
		return ErrInvalidBackup
	}
	return nil
}

// Restore replaces the four tables with the backup's contents inside one
// all-or-nothing transaction. Deletion runs child-first, insertion
// parent-first, to satisfy the foreign keys. SavedProduct is untouched.
func (s *backupService) Restore(doc *BackupDocument) error {
	if err := validateBackup(doc); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := wipe.Delete(&model.AuditLog{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&model.Category{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&model.User{}).Error; err != nil {
			return err
		}

		for i, bu := range doc.Data.Users {
			user := model.User{
				Username: bu.Username,
				Password: bu.Password,
				Name:     bu.Name,
				Role:     bu.Role,
			}
			user.ID = bu.ID
			user.CreatedAt = bu.CreatedAt
			user.UpdatedAt = bu.UpdatedAt
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("restoring user %d (%s): %w", i, bu.Username, err)
			}
		}

		for i := range doc.Data.Categories {
			category := doc.Data.Categories[i]
			if err := tx.Create(&category).Error; err != nil {
				return fmt.Errorf("restoring category %d (%s): %w", i, category.Name, err)
			}
		}

		for i := range doc.Data.Products {
			product := doc.Data.Products[i]
			product.AddedBy = nil
			// The merge key is not serialized, rebuild it from the expiry.
			if product.Expiry != nil {
				day := model.TruncateToDay(*product.Expiry)
				product.ExpiryDay = &day
			}
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("restoring product %d (%s): %w", i, product.Name, err)
			}
		}

		for i := range doc.Data.AuditLogs {
			entry := doc.Data.AuditLogs[i]
			entry.User = nil
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("restoring audit log %d: %w", i, err)
			}
		}

		return nil
	})
}
