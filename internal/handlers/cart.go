package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/storage"
)

// CartHandler bundles dependencies for cart endpoints.
type CartHandler struct {
	store storage.Store
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(store storage.Store) *CartHandler {
	return &CartHandler{store: store}
}

// Get returns the caller's cart with a computed subtotal.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	items, err := h.store.Carts().List(c.Context(), userID.String())
	if err != nil {
		return err
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"items":    items,
		"subtotal": subtotal,
	})
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Add puts a product in the cart. Adding a product already present
// accumulates its quantity; the price snapshot from the first add is kept.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req addCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "product_id and a positive quantity are required")
	}

	product, err := h.store.Products().FindByID(c.Context(), req.ProductID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return fiber.NewError(fiber.StatusBadRequest, "product is not available")
	}

	item, err := h.store.Carts().Add(c.Context(), &models.CartItem{
		UserID:    userID.String(),
		ProductID: product.ID.String(),
		Quantity:  req.Quantity,
		Price:     product.Price,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"item":    item,
	})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity sets the quantity of one cart line. Zero removes it.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
	}

	productID := c.Params("productId")
	if req.Quantity == 0 {
		if err := h.store.Carts().Remove(c.Context(), userID.String(), productID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}

	item, err := h.store.Carts().UpdateQuantity(c.Context(), userID.String(), productID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"item":    item,
	})
}

// Remove deletes one cart line.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	if err := h.store.Carts().Remove(c.Context(), userID.String(), c.Params("productId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Clear empties the caller's cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	if err := h.store.Carts().Clear(c.Context(), userID.String()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
