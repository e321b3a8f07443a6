package service

import (
	"context"
	"testing"
	"time"

	"mouna-backend/internal/lookup"
	"mouna-backend/internal/model"
	"mouna-backend/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeProductRepo is an in-memory ProductRepository honoring the
// merge-on-duplicate-batch contract.
type fakeProductRepo struct {
	products []*model.Product
}

func (f *fakeProductRepo) CreateOrMerge(product *model.Product) (*model.Product, bool, error) {
	if product.Barcode != nil && product.ExpiryDay != nil {
		for _, p := range f.products {
			if p.Barcode != nil && *p.Barcode == *product.Barcode &&
				p.ExpiryDay != nil && p.ExpiryDay.Equal(*product.ExpiryDay) {
				p.Quantity += product.Quantity
				p.Name = product.Name
				p.Category = product.Category
				if product.Image != "" {
					p.Image = product.Image
				}
				return p, true, nil
			}
		}
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	f.products = append(f.products, product)
	return product, false, nil
}

func (f *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) FindByBarcode(barcode string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Search(search string, offset, limit int) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeProductRepo) Save(product *model.Product) error {
	for i, p := range f.products {
		if p.ID == product.ID {
			f.products[i] = product
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) Delete(id uuid.UUID) error {
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeProductRepo) CountAll() (int64, error) {
	return int64(len(f.products)), nil
}

func (f *fakeProductRepo) CountExpiredBefore(t time.Time) (int64, error) {
	var count int64
	for _, p := range f.products {
		if p.Expiry != nil && p.Expiry.Before(t) {
			count++
		}
	}
	return count, nil
}

func (f *fakeProductRepo) CountExpiringBetween(start, end time.Time) (int64, error) {
	var count int64
	for _, p := range f.products {
		if p.Expiry != nil && !p.Expiry.Before(start) && !p.Expiry.After(end) {
			count++
		}
	}
	return count, nil
}

func (f *fakeProductRepo) FindExpiringBetween(start, end time.Time) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.Expiry != nil && !p.Expiry.Before(start) && !p.Expiry.After(end) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeSavedRepo struct {
	saved map[string]*model.SavedProduct
}

func newFakeSavedRepo() *fakeSavedRepo {
	return &fakeSavedRepo{saved: make(map[string]*model.SavedProduct)}
}

func (f *fakeSavedRepo) Upsert(saved *model.SavedProduct) error {
	if existing, ok := f.saved[saved.Barcode]; ok {
		existing.Name = saved.Name
		existing.Category = saved.Category
		if saved.Image != "" {
			existing.Image = saved.Image
		}
		existing.UpdatedAt = saved.UpdatedAt
		return nil
	}
	copied := *saved
	f.saved[saved.Barcode] = &copied
	return nil
}

func (f *fakeSavedRepo) FindByBarcode(barcode string) (*model.SavedProduct, error) {
	if saved, ok := f.saved[barcode]; ok {
		return saved, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAuditRepo struct {
	logs []*model.AuditLog
}

func (f *fakeAuditRepo) Create(log *model.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeAuditRepo) FindLatest(limit int) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for i := len(f.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.logs[i])
	}
	return out, nil
}

type fakeLookupClient struct {
	result *lookup.Result
	calls  int
}

func (f *fakeLookupClient) Lookup(ctx context.Context, barcode string) (*lookup.Result, error) {
	f.calls++
	if f.result == nil {
		return &lookup.Result{Found: false}, nil
	}
	return f.result, nil
}

type fakePublisher struct {
	events []ws.Event
}

func (f *fakePublisher) Publish(event ws.Event) {
	f.events = append(f.events, event)
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func newTestProductService() (*productService, *fakeProductRepo, *fakeSavedRepo, *fakeAuditRepo, *fakeLookupClient) {
	products := &fakeProductRepo{}
	saved := newFakeSavedRepo()
	audits := &fakeAuditRepo{}
	lookupClient := &fakeLookupClient{}
	svc := NewProductService(products, saved, audits, lookupClient, &fakePublisher{}).(*productService)
	return svc, products, saved, audits, lookupClient
}
