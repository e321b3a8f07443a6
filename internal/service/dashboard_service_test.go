package service

import (
	"testing"
	"time"

	"mouna-backend/internal/model"
)

func TestExpiryWindowBounds(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 45, 12, 0, time.UTC)
	start, end := expiryWindow(now)

	if !start.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start should be the beginning of today, got %v", start)
	}
	// End of the seventh day out, inclusive.
	lastIncluded := time.Date(2026, 9, 7, 23, 59, 59, 0, time.UTC)
	firstExcluded := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	if end.Before(lastIncluded) {
		t.Fatalf("end %v excludes day+7", end)
	}
	if !end.Before(firstExcluded) {
		t.Fatalf("end %v includes day+8", end)
	}
}

func TestDashboardStatsCounts(t *testing.T) {
	repo := &fakeProductRepo{products: []*model.Product{
		productExpiringIn(-1), // expired
		productExpiringIn(0),  // expiring soon
		productExpiringIn(3),  // expiring soon
		productExpiringIn(10), // neither
	}}
	svc := NewDashboardService(repo)

	stats, err := svc.GetDashboardStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalProducts != 4 {
		t.Fatalf("expected 4 products, got %d", stats.TotalProducts)
	}
	if stats.ExpiredCount != 1 {
		t.Fatalf("expected 1 expired, got %d", stats.ExpiredCount)
	}
	if stats.ExpiringSoonCount != 2 {
		t.Fatalf("expected 2 expiring soon, got %d", stats.ExpiringSoonCount)
	}
}
