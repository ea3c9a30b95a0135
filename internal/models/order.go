package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. The pipeline is linear; "assigned" is entered when a
// delivery agent is bound to the order and "cancelled" is reachable from any
// non-terminal status. "delivered" and "cancelled" are terminal.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusAssigned       = "assigned"
	OrderStatusPacked         = "packed"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Payment methods.
const (
	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
)

// Order is created once per checkout and never physically deleted;
// cancellation is a status, not a removal. Item prices are captured at order
// time and immune to later catalog changes.
type Order struct {
	BaseModel
	OrderNumber string      `gorm:"uniqueIndex" json:"order_number"`
	UserID      string      `gorm:"index" json:"user_id"`
	Items       []OrderItem `json:"items,omitempty"`
	Subtotal    float64     `json:"subtotal"`
	Total       float64     `json:"total"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	Status        string `gorm:"index" json:"status"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	AddressLine   string `json:"address_line"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`

	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `json:"-"`

	DeliveryAgentID    string `gorm:"index" json:"delivery_agent_id,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`

	Activity []OrderActivity `json:"activity,omitempty"`

	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Terminal reports whether the order has reached a terminal status.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// OrderItem is one ordered line with price captured at order time.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	LineTotal   float64   `json:"line_total"`
}

// OrderActivity is one entry of an order's audit trail.
type OrderActivity struct {
	BaseModel
	OrderID uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Status  string    `json:"status"`
	Actor   string    `json:"actor"`
	Notes   string    `json:"notes,omitempty"`
}
