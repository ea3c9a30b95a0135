package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/storage"
)

// ProfileHandler bundles dependencies for customer profile endpoints.
type ProfileHandler struct {
	store storage.Store
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(store storage.Store) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// Get returns the caller's account.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	user, err := h.store.Users().FindByID(c.Context(), userID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// Update edits the caller's profile. The canonical identifier (phone or
// email) is immutable here.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.store.Users().FindByID(c.Context(), userID.String())
	if err != nil {
		return err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.AddressLine = req.AddressLine
	user.City = req.City
	user.State = req.State
	user.Pincode = req.Pincode

	if err := h.store.Users().Update(c.Context(), user); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// ListAddresses returns the caller's saved addresses.
func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	addresses, err := h.store.Addresses().List(c.Context(), userID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"addresses": addresses,
	})
}

type addressRequest struct {
	Label       string `json:"label"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// CreateAddress saves a new shipping address.
func (h *ProfileHandler) CreateAddress(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.AddressLine == "" || req.City == "" || req.Pincode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "address_line, city and pincode are required")
	}

	address := &models.Address{
		UserID:      userID.String(),
		Label:       req.Label,
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
	}
	if err := h.store.Addresses().Create(c.Context(), address); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"address": address,
	})
}

// UpdateAddress edits one of the caller's addresses.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	address, err := h.store.Addresses().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if address.UserID != userID.String() {
		return fiber.NewError(fiber.StatusForbidden, "not your address")
	}

	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	address.Label = req.Label
	address.AddressLine = req.AddressLine
	address.City = req.City
	address.State = req.State
	address.Pincode = req.Pincode

	if err := h.store.Addresses().Update(c.Context(), address); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"address": address,
	})
}

// DeleteAddress removes one of the caller's addresses.
func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	address, err := h.store.Addresses().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if address.UserID != userID.String() {
		return fiber.NewError(fiber.StatusForbidden, "not your address")
	}

	if err := h.store.Addresses().Delete(c.Context(), address.ID.String()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
