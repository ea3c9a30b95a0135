package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/storage"
)

// WishlistHandler bundles dependencies for wishlist endpoints.
type WishlistHandler struct {
	store storage.Store
}

// NewWishlistHandler constructs a WishlistHandler.
func NewWishlistHandler(store storage.Store) *WishlistHandler {
	return &WishlistHandler{store: store}
}

// List returns the caller's saved products.
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	items, err := h.store.Wishlists().List(c.Context(), userID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"items":   items,
	})
}

type addWishlistItemRequest struct {
	ProductID string `json:"product_id"`
}

// Add saves a product. Saving one already present returns the existing
// entry rather than an error.
func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req addWishlistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	if _, err := h.store.Products().FindByID(c.Context(), req.ProductID); err != nil {
		return err
	}

	item, err := h.store.Wishlists().Add(c.Context(), userID.String(), req.ProductID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"item":    item,
	})
}

// Remove deletes one saved product.
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	if err := h.store.Wishlists().Remove(c.Context(), userID.String(), c.Params("productId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
