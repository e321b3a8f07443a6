package service

import (
	"time"

	"mouna-backend/internal/model"
	"mouna-backend/internal/repository"
)

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
}

type DashboardStats struct {
	TotalProducts     int64 `json:"totalProducts"`
	ExpiredCount      int64 `json:"expiredCount"`
	ExpiringSoonCount int64 `json:"expiringSoonCount"`
}

type dashboardService struct {
	productRepo repository.ProductRepository
}

func NewDashboardService(productRepo repository.ProductRepository) DashboardService {
	return &dashboardService{productRepo: productRepo}
}

// expiryWindow returns the "expiring soon" bounds: start of today through
// the end of the seventh day out, both inclusive. Anything before the start
// counts as expired.
func expiryWindow(now time.Time) (start, end time.Time) {
	start = model.TruncateToDay(now)
	end = start.AddDate(0, 0, 8).Add(-time.Nanosecond)
	return start, end
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	start, end := expiryWindow(time.Now())

	total, err := s.productRepo.CountAll()
	if err != nil {
		return nil, err
	}
	expired, err := s.productRepo.CountExpiredBefore(start)
	if err != nil {
		return nil, err
	}
	expiring, err := s.productRepo.CountExpiringBetween(start, end)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts:     total,
		ExpiredCount:      expired,
		ExpiringSoonCount: expiring,
	}, nil
}
