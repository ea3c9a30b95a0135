package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/orders"
	"github.com/example/curemart/internal/payments"
	"github.com/example/curemart/internal/utils"
)

// PaymentHandler bundles dependencies for online payment endpoints.
type PaymentHandler struct {
	payments *payments.Service
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(service *payments.Service) *PaymentHandler {
	return &PaymentHandler{payments: service}
}

type createPaymentOrderRequest struct {
	CouponCode string                `json:"coupon_code"`
	Items      []orders.CheckoutItem `json:"items"`
}

// CreateOrder registers the server-priced amount with the gateway and
// returns what the payment widget needs. Client-submitted amounts are
// never trusted.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req createPaymentOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	paymentOrder, err := h.payments.CreatePaymentOrder(c.Context(), req.Items, req.CouponCode)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"payment": paymentOrder,
	})
}

type verifyPaymentRequest struct {
	checkoutRequest

	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

// Verify checks the capture signature and places the paid order. A failed
// verification creates nothing.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}
	if req.GatewayOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return fiber.NewError(fiber.StatusBadRequest, "gateway order id, payment id and signature are required")
	}

	input := payments.ConfirmInput{
		Checkout: orders.CheckoutInput{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			CustomerEmail: req.CustomerEmail,
			AddressLine:   req.AddressLine,
			City:          req.City,
			State:         req.State,
			Pincode:       req.Pincode,
			CouponCode:    req.CouponCode,
			Items:         req.Items,
		},
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	}

	// Attach the account when the customer is logged in; guests pay too.
	if userID, role, ok := middleware.CurrentPrincipal(c); ok && role == utils.RoleCustomer {
		input.Checkout.UserID = userID.String()
	}

	order, err := h.payments.Confirm(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}
