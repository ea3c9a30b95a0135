package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/storage"
	"github.com/example/curemart/internal/utils"
)

// CatalogHandler bundles dependencies for product and category endpoints.
type CatalogHandler struct {
	store storage.Store
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(store storage.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// ListProducts returns active products, filterable by category and search
// term. Inactive products are visible only through the admin listing.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	products, err := h.store.Products().List(c.Context(), storage.ProductFilter{
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		ActiveOnly: true,
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
		"page":     p.Page,
	})
}

// GetProduct returns one product.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.store.Products().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// ListAllProducts is the admin listing, inactive products included.
func (h *CatalogHandler) ListAllProducts(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	products, err := h.store.Products().List(c.Context(), storage.ProductFilter{
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
		"page":     p.Page,
	})
}

type productRequest struct {
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Price                float64 `json:"price"`
	MRP                  float64 `json:"mrp"`
	Stock                int     `json:"stock"`
	CategoryID           string  `json:"category_id"`
	Brand                string  `json:"brand"`
	ImageURL             string  `json:"image_url"`
	RequiresPrescription bool    `json:"requires_prescription"`
	IsActive             bool    `json:"is_active"`
}

// CreateProduct adds a catalog product.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive price are required")
	}

	product := &models.Product{
		Name:                 req.Name,
		Description:          req.Description,
		Price:                req.Price,
		MRP:                  req.MRP,
		Stock:                req.Stock,
		CategoryID:           req.CategoryID,
		Brand:                req.Brand,
		ImageURL:             req.ImageURL,
		RequiresPrescription: req.RequiresPrescription,
		IsActive:             req.IsActive,
	}
	if err := h.store.Products().Create(c.Context(), product); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// UpdateProduct edits a catalog product.
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	product, err := h.store.Products().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive price are required")
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.MRP = req.MRP
	product.Stock = req.Stock
	product.CategoryID = req.CategoryID
	product.Brand = req.Brand
	product.ImageURL = req.ImageURL
	product.RequiresPrescription = req.RequiresPrescription
	product.IsActive = req.IsActive

	if err := h.store.Products().Update(c.Context(), product); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": product,
	})
}

// DeleteProduct removes a catalog product.
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.store.Products().Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListCategories returns all categories and subcategories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.store.Categories().List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}

// GetCategory returns one category.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.store.Categories().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"category": category,
	})
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
	ImageURL    string `json:"image_url"`
}

// CreateCategory adds a category; a parent id makes it a subcategory.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		ImageURL:    req.ImageURL,
	}
	if err := h.store.Categories().Create(c.Context(), category); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"category": category,
	})
}

// UpdateCategory edits a category.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	category, err := h.store.Categories().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	category.Name = req.Name
	category.Description = req.Description
	category.ParentID = req.ParentID
	category.ImageURL = req.ImageURL

	if err := h.store.Categories().Update(c.Context(), category); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"category": category,
	})
}

// DeleteCategory removes a category.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.store.Categories().Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
