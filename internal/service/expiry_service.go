package service

import (
	"context"
	"fmt"
	"time"

	"mouna-backend/internal/notify"
	"mouna-backend/internal/repository"
)

type ExpiryService interface {
	CheckExpiry(ctx context.Context) (*ExpiryReport, error)
}

type ExpiryReport struct {
	Message          string `json:"message"`
	ProductsFound    int    `json:"productsFound"`
	NotificationSent bool   `json:"notificationSent"`
	NotificationID   string `json:"notificationId,omitempty"`
}

type expiryService struct {
	productRepo repository.ProductRepository
	sender      notify.Sender
}

func NewExpiryService(productRepo repository.ProductRepository, sender notify.Sender) ExpiryService {
	return &expiryService{productRepo: productRepo, sender: sender}
}

// CheckExpiry scans for products expiring within the next seven days and
// broadcasts a single count notification. Zero matches is a no-op success;
// a missing provider credential downgrades to a count-only report.
func (s *expiryService) CheckExpiry(ctx context.Context) (*ExpiryReport, error) {
	start, end := expiryWindow(time.Now())

	products, err := s.productRepo.FindExpiringBetween(start, end)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return &ExpiryReport{Message: "No expiring products found."}, nil
	}

	count := len(products)
	message := fmt.Sprintf("⚠️ تنبيه: لديكم %d منتجات ستنتهي صلاحيتها قريباً! تفقد المخزون الآن.", count)

	if !s.sender.Enabled() {
		return &ExpiryReport{
			Message:       "Found products but missing API key",
			ProductsFound: count,
		}, nil
	}

	id, err := s.sender.Broadcast(ctx, "تنبيه انتهاء الصلاحية", message)
	if err != nil {
		return nil, err
	}

	return &ExpiryReport{
		Message:          message,
		ProductsFound:    count,
		NotificationSent: true,
		NotificationID:   id,
	}, nil
}
