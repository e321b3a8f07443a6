package handler

import (
	"errors"
	"strconv"

	"mouna-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts lists/searches stock with pagination.
// GET /api/products?barcode=|search=&page=&limit=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	pageData, err := h.service.List(service.ListParams{
		Barcode: c.Query("barcode"),
		Search:  c.Query("search"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch products"})
	}

	return c.JSON(pageData)
}

// LookupBarcode resolves a barcode through stock, memory, and the external
// product database, in that order.
// GET /api/lookup/:barcode
func (h *ProductHandler) LookupBarcode(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	if barcode == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Barcode is required"})
	}

	resolution, err := h.service.Resolve(c.Context(), barcode)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Lookup failed"})
	}

	return c.JSON(resolution)
}

// CreateProduct creates a new batch or merges into an existing one.
// POST /api/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, merged, err := h.service.CreateOrMerge(&req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			return c.Status(409).JSON(fiber.Map{"error": "Concurrent write on the same batch, retry"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	status := 201
	message := "Product created"
	if merged {
		status = 200
		message = "Product merged"
	}
	return c.Status(status).JSON(fiber.Map{"message": message, "data": product})
}

// UpdateProduct replaces the editable fields of a batch.
// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.Update(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		if errors.Is(err, service.ErrConflict) {
			return c.Status(409).JSON(fiber.Map{"error": "Concurrent write on the same batch, retry"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DeleteProduct removes a batch for a reason code.
// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.DeleteProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Delete(id, &req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
