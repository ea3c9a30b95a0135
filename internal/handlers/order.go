package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/orders"
	"github.com/example/curemart/internal/storage"
)

// OrderHandler bundles dependencies for customer order endpoints.
type OrderHandler struct {
	store    storage.Store
	checkout *orders.Checkout
	engine   *orders.Engine
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(store storage.Store, checkout *orders.Checkout, engine *orders.Engine) *OrderHandler {
	return &OrderHandler{store: store, checkout: checkout, engine: engine}
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	AddressLine   string `json:"address_line"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`

	CouponCode string                `json:"coupon_code"`
	Items      []orders.CheckoutItem `json:"items"`
}

func (r *checkoutRequest) validate() error {
	if r.CustomerName == "" || r.CustomerPhone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "customer name and phone are required")
	}
	if r.AddressLine == "" || r.City == "" || r.Pincode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "delivery address is required")
	}
	return nil
}

// Create places a cash-on-delivery order for the authenticated customer.
// With no explicit items the current cart is ordered.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	items := req.Items
	if len(items) == 0 {
		cart, err := h.store.Carts().List(c.Context(), userID.String())
		if err != nil {
			return err
		}
		for _, line := range cart {
			items = append(items, orders.CheckoutItem{ProductID: line.ProductID, Quantity: line.Quantity})
		}
	}

	order, err := h.checkout.Place(c.Context(), orders.CheckoutInput{
		UserID:        userID.String(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		AddressLine:   req.AddressLine,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		PaymentMethod: models.PaymentMethodCOD,
		CouponCode:    req.CouponCode,
		Items:         items,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// CreateGuest places a cash-on-delivery order without an account.
func (h *OrderHandler) CreateGuest(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	order, err := h.checkout.Place(c.Context(), orders.CheckoutInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		AddressLine:   req.AddressLine,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		PaymentMethod: models.PaymentMethodCOD,
		CouponCode:    req.CouponCode,
		Items:         req.Items,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// List returns the caller's orders, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	list, err := h.store.Orders().ListByUser(c.Context(), userID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  list,
	})
}

// Get returns one of the caller's orders with items and audit trail.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	order, err := h.store.Orders().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if order.UserID != userID.String() {
		return fiber.NewError(fiber.StatusForbidden, "not your order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Cancel lets the owning customer cancel an order that has not progressed
// past confirmation.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req cancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	actor := orders.Actor{Kind: orders.ActorCustomer, ID: userID.String()}
	order, err := h.engine.Cancel(c.Context(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}
