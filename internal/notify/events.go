package notify

import "time"

// Event kinds emitted after state-changing operations commit.
const (
	KindOTPIssued          = "otp.issued"
	KindOrderPlaced        = "order.placed"
	KindOrderStatusChanged = "order.status_changed"
	KindPaymentCaptured    = "payment.captured"
)

// Event is a post-commit notification payload. Events are consumed on the
// bus worker; delivery is best-effort and never affects the operation that
// produced them.
type Event interface {
	Kind() string
}

// OTPIssued carries a freshly generated login code to its channel sender.
type OTPIssued struct {
	Identifier string
	Channel    string // "sms" or "email"
	Name       string
	Code       string
	ExpiresAt  time.Time
}

func (OTPIssued) Kind() string { return KindOTPIssued }

// OrderLine is one item of an order notification.
type OrderLine struct {
	Name     string
	Quantity int
	Price    float64
}

// OrderPlaced announces a new order to the customer and the admin chat.
type OrderPlaced struct {
	OrderNumber   string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	PaymentMethod string
	Total         float64
	Items         []OrderLine
}

func (OrderPlaced) Kind() string { return KindOrderPlaced }

// OrderStatusChanged announces a lifecycle transition to the customer.
type OrderStatusChanged struct {
	OrderNumber   string
	Status        string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
}

func (OrderStatusChanged) Kind() string { return KindOrderStatusChanged }

// PaymentCaptured announces a verified gateway payment.
type PaymentCaptured struct {
	OrderNumber string
	PaymentID   string
	Amount      float64
}

func (PaymentCaptured) Kind() string { return KindPaymentCaptured }
