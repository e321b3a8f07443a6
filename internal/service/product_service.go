package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mouna-backend/internal/lookup"
	"mouna-backend/internal/model"
	"mouna-backend/internal/repository"
	"mouna-backend/internal/ws"
	"mouna-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventPublisher pushes inventory events to connected clients.
type EventPublisher interface {
	Publish(event ws.Event)
}

type ProductService interface {
	List(params ListParams) (*ProductPage, error)
	Resolve(ctx context.Context, barcode string) (*Resolution, error)
	CreateOrMerge(req *CreateProductRequest) (*ProductEntry, bool, error)
	Update(id uuid.UUID, req *UpdateProductRequest) (*ProductEntry, error)
	Delete(id uuid.UUID, req *DeleteProductRequest) error
}

// ListParams mirrors the query surface: an exact barcode short-circuits
// pagination, otherwise search is a substring match on name or barcode.
type ListParams struct {
	Barcode string
	Search  string
	Page    int
	Limit   int
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type ProductPage struct {
	Data       []ProductEntry `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// ProductEntry is the API shape of a stock row. A nil ID marks a synthetic
// row built from the barcode memory: known product, not currently in stock.
type ProductEntry struct {
	ID         *uuid.UUID `json:"id"`
	Barcode    *string    `json:"barcode"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Expiry     *time.Time `json:"expiry"`
	Department string     `json:"department"`
	Quantity   int        `json:"quantity"`
	Image      string     `json:"image"`
	AddedBy    *AddedBy   `json:"addedBy,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	FromMemory bool       `json:"fromMemory,omitempty"`
}

type AddedBy struct {
	Name string `json:"name"`
}

// Resolution is the tri-level barcode lookup result:
// stock hit (Exists), memory hit (FromMemory), external hit (neither), or
// the not-found sentinel (Found=false).
type Resolution struct {
	Found      bool          `json:"found"`
	Exists     bool          `json:"exists"`
	FromMemory bool          `json:"fromMemory"`
	Product    *ProductEntry `json:"product,omitempty"`
}

type CreateProductRequest struct {
	Barcode       string `json:"barcode"`
	Name          string `json:"name" validate:"required"`
	Category      string `json:"category"`
	Expiry        string `json:"expiry" validate:"required"`
	Department    string `json:"department"`
	Quantity      int    `json:"quantity" validate:"omitempty,gte=0"`
	Image         string `json:"image"`
	AddedByUserID string `json:"addedByUserId"`
}

type UpdateProductRequest struct {
	Name       string `json:"name" validate:"required"`
	Category   string `json:"category"`
	Expiry     string `json:"expiry" validate:"required"`
	Department string `json:"department"`
	Quantity   *int   `json:"quantity"`
	Image      string `json:"image"`
	UserID     string `json:"userId"`
}

type DeleteProductRequest struct {
	UserID        string             `json:"userId"`
	Reason        model.DeleteReason `json:"reason"`
	ReasonDetails string             `json:"reasonDetails"`
}

type productService struct {
	productRepo repository.ProductRepository
	savedRepo   repository.SavedProductRepository
	auditRepo   repository.AuditLogRepository
	lookup      lookup.Client
	events      EventPublisher
}

func NewProductService(
	pRepo repository.ProductRepository,
	sRepo repository.SavedProductRepository,
	aRepo repository.AuditLogRepository,
	lookupClient lookup.Client,
	events EventPublisher,
) ProductService {
	return &productService{
		productRepo: pRepo,
		savedRepo:   sRepo,
		auditRepo:   aRepo,
		lookup:      lookupClient,
		events:      events,
	}
}

// parseDate accepts the date formats the clients actually send: a bare
// calendar date from the entry form, or a full RFC3339 timestamp from
// backup files and API round-trips.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseUserID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}

func entryFromProduct(p *model.Product) *ProductEntry {
	id := p.ID
	createdAt := p.CreatedAt
	updatedAt := p.UpdatedAt
	entry := &ProductEntry{
		ID:         &id,
		Barcode:    p.Barcode,
		Name:       p.Name,
		Category:   p.Category,
		Expiry:     p.Expiry,
		Department: p.Department,
		Quantity:   p.Quantity,
		Image:      p.Image,
		CreatedAt:  &createdAt,
		UpdatedAt:  &updatedAt,
	}
	if p.AddedBy != nil {
		entry.AddedBy = &AddedBy{Name: p.AddedBy.Name}
	}
	return entry
}

func entryFromMemory(saved *model.SavedProduct) *ProductEntry {
	barcode := saved.Barcode
	return &ProductEntry{
		ID:         nil, // null ID = not in stock
		Barcode:    &barcode,
		Name:       saved.Name,
		Category:   saved.Category,
		Image:      saved.Image,
		Expiry:     nil,
		Quantity:   0,
		FromMemory: true,
	}
}

func (s *productService) List(params ListParams) (*ProductPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 50
	}

	// Exact barcode match returns every batch, ignoring page/limit.
	if params.Barcode != "" {
		products, err := s.productRepo.FindByBarcode(params.Barcode)
		if err != nil {
			return nil, err
		}

		data := make([]ProductEntry, 0, len(products))
		for i := range products {
			data = append(data, *entryFromProduct(&products[i]))
		}
		total := int64(len(products))

		// Nothing in stock: fall through to the barcode memory and return a
		// single synthetic row signaling "known product, zero quantity".
		if len(products) == 0 {
			if saved, err := s.savedRepo.FindByBarcode(params.Barcode); err == nil {
				data = append(data, *entryFromMemory(saved))
			}
		}

		return &ProductPage{
			Data: data,
			Pagination: Pagination{
				Total:      total,
				Page:       params.Page,
				Limit:      params.Limit,
				TotalPages: totalPages(total, params.Limit),
			},
		}, nil
	}

	offset := (params.Page - 1) * params.Limit
	products, total, err := s.productRepo.Search(params.Search, offset, params.Limit)
	if err != nil {
		return nil, err
	}

	data := make([]ProductEntry, 0, len(products))
	for i := range products {
		data = append(data, *entryFromProduct(&products[i]))
	}

	return &ProductPage{
		Data: data,
		Pagination: Pagination{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: totalPages(total, params.Limit),
		},
	}, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Resolve walks the fallback chain for a barcode: current stock, then the
// memory table, then the external product database.
func (s *productService) Resolve(ctx context.Context, barcode string) (*Resolution, error) {
	products, err := s.productRepo.FindByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return &Resolution{Found: true, Exists: true, Product: entryFromProduct(&products[0])}, nil
	}

	if saved, err := s.savedRepo.FindByBarcode(barcode); err == nil {
		return &Resolution{Found: true, FromMemory: true, Product: entryFromMemory(saved)}, nil
	}

	result, err := s.lookup.Lookup(ctx, barcode)
	if err != nil || !result.Found {
		return &Resolution{Found: false}, nil
	}

	b := barcode
	return &Resolution{
		Found: true,
		Product: &ProductEntry{
			Barcode: &b,
			Name:    result.Name,
			Image:   result.Image,
		},
	}, nil
}

// CreateOrMerge adds stock. When a batch with the same (barcode, expiry day)
// already exists its quantity is incremented instead of creating a duplicate
// row. The merge runs under a row lock plus the unique batch index, so a
// concurrent create for the same key surfaces as ErrConflict rather than a
// lost update. The returned bool reports whether a merge happened.
func (s *productService) CreateOrMerge(req *CreateProductRequest) (*ProductEntry, bool, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, false, validationError(errs)
	}

	expiry, err := parseDate(req.Expiry)
	if err != nil {
		return nil, false, fmt.Errorf("invalid expiry date: %w", err)
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	// Refresh the barcode memory first. This write is best-effort: its
	// failure never aborts the stock write.
	if req.Barcode != "" && req.Name != "" {
		saved := &model.SavedProduct{
			Barcode:   req.Barcode,
			Name:      req.Name,
			Category:  req.Category,
			Image:     req.Image,
			UpdatedAt: time.Now(),
		}
		if err := s.savedRepo.Upsert(saved); err != nil {
			log.Printf("Warning: memory save failed for barcode %s: %v", req.Barcode, err)
		}
	}

	day := model.TruncateToDay(expiry)
	userID := parseUserID(req.AddedByUserID)

	product := &model.Product{
		Name:          req.Name,
		Category:      req.Category,
		Expiry:        &expiry,
		ExpiryDay:     &day,
		Department:    req.Department,
		Quantity:      quantity,
		Image:         req.Image,
		AddedByUserID: userID,
	}
	if req.Barcode != "" {
		barcode := req.Barcode
		product.Barcode = &barcode
	}

	result, merged, err := s.productRepo.CreateOrMerge(product)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, ErrConflict
		}
		return nil, false, err
	}

	if merged {
		s.recordAudit(model.AuditUpdate, result.Name, fmt.Sprintf("Merged stock (+%d, total: %d)", quantity, result.Quantity), userID)
		s.publish("product_merged", result, fmt.Sprintf("Merged %d units into '%s'", quantity, result.Name))
	} else {
		s.recordAudit(model.AuditCreate, result.Name, fmt.Sprintf("Added new product (Qty: %d)", quantity), userID)
		s.publish("product_created", result, fmt.Sprintf("Added product '%s' (Qty: %d)", result.Name, quantity))
	}

	return entryFromProduct(result), merged, nil
}

// Update replaces the editable fields of one batch. The barcode itself is
// not editable; the memory row is refreshed when the batch carries one.
func (s *productService) Update(id uuid.UUID, req *UpdateProductRequest) (*ProductEntry, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	expiry, err := parseDate(req.Expiry)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry date: %w", err)
	}
	day := model.TruncateToDay(expiry)

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	product.Name = req.Name
	product.Category = req.Category
	product.Expiry = &expiry
	product.ExpiryDay = &day
	product.Department = req.Department
	product.Image = req.Image
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}

	if err := s.productRepo.Save(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if product.Barcode != nil {
		saved := &model.SavedProduct{
			Barcode:   *product.Barcode,
			Name:      product.Name,
			Category:  product.Category,
			Image:     product.Image,
			UpdatedAt: time.Now(),
		}
		if err := s.savedRepo.Upsert(saved); err != nil {
			log.Printf("Warning: memory refresh failed for barcode %s: %v", *product.Barcode, err)
		}
	}

	if userID := parseUserID(req.UserID); userID != nil {
		s.recordAudit(model.AuditUpdate, product.Name, "Updated product details", userID)
	}
	s.publish("product_updated", product, fmt.Sprintf("Updated product '%s'", product.Name))

	return entryFromProduct(product), nil
}

// Delete removes a batch for one of the closed reason codes. A user id is
// mandatory so every deletion leaves an audit record.
func (s *productService) Delete(id uuid.UUID, req *DeleteProductRequest) error {
	if !req.Reason.Valid() {
		return fmt.Errorf("unrecognized delete reason %q", req.Reason)
	}
	userID := parseUserID(req.UserID)
	if userID == nil {
		return errors.New("userId is required to delete a product")
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	s.recordAudit(model.AuditDelete, product.Name, req.Reason.AuditDetails(req.ReasonDetails), userID)
	s.publish("product_deleted", product, fmt.Sprintf("Removed product '%s' (%s)", product.Name, req.Reason))

	return nil
}

// recordAudit appends a trail row. Synchronous but non-fatal: a lost audit
// entry is logged, a lost product write is not tolerated.
func (s *productService) recordAudit(action model.AuditAction, target, details string, userID *uuid.UUID) {
	entry := &model.AuditLog{
		Action:  action,
		Target:  target,
		Details: details,
		UserID:  userID,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		log.Printf("Warning: audit write failed (%s %s): %v", action, target, err)
	}
}

func (s *productService) publish(action string, product *model.Product, message string) {
	if s.events == nil {
		return
	}
	barcode := ""
	if product.Barcode != nil {
		barcode = *product.Barcode
	}
	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: action,
		Product: map[string]interface{}{
			"id":       product.ID,
			"barcode":  barcode,
			"name":     product.Name,
			"quantity": product.Quantity,
		},
		Message: message,
	})
}

func validationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}
