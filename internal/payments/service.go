package payments

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/notify"
	"github.com/example/curemart/internal/orders"
)

// ErrSignatureMismatch is returned when a capture callback fails HMAC
// verification. No order is created in that case.
var ErrSignatureMismatch = errors.New("payment signature verification failed")

// PaymentOrder is what the client-side payment widget needs to open.
type PaymentOrder struct {
	GatewayOrderID string  `json:"gateway_order_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	KeyID          string  `json:"key_id"`
}

// ConfirmInput is the verified-capture callback payload.
type ConfirmInput struct {
	Checkout orders.CheckoutInput

	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// Service drives the online payment flow. Amounts are always recomputed
// server-side from the catalog; client-submitted totals are ignored.
type Service struct {
	checkout *orders.Checkout
	gateway  Gateway
	verifier *Verifier
	bus      *notify.Bus
	log      *zap.SugaredLogger
	keyID    string
}

// NewService constructs a Service.
func NewService(checkout *orders.Checkout, gateway Gateway, verifier *Verifier, bus *notify.Bus, log *zap.SugaredLogger, keyID string) *Service {
	return &Service{
		checkout: checkout,
		gateway:  gateway,
		verifier: verifier,
		bus:      bus,
		log:      log,
		keyID:    keyID,
	}
}

// CreatePaymentOrder prices the requested items, registers the amount with
// the gateway and returns the gateway order id. Nothing is persisted yet;
// the local order is created only after the capture is verified.
func (s *Service) CreatePaymentOrder(ctx context.Context, items []orders.CheckoutItem, couponCode string) (*PaymentOrder, error) {
	_, _, total, err := s.checkout.Quote(ctx, items, couponCode)
	if err != nil {
		return nil, err
	}

	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	gatewayOrderID, err := s.gateway.CreateRemoteOrder(ctx, total, receipt)
	if err != nil {
		return nil, err
	}

	s.log.Infof("payment order %s created for %.2f", gatewayOrderID, total)
	return &PaymentOrder{
		GatewayOrderID: gatewayOrderID,
		Amount:         total,
		Currency:       "INR",
		KeyID:          s.keyID,
	}, nil
}

// Confirm verifies the capture signature and, on success, places the order
// with the gateway correlation fields and marks it paid. A failed
// verification creates nothing.
func (s *Service) Confirm(ctx context.Context, input ConfirmInput) (*models.Order, error) {
	if !s.verifier.Verify(input.GatewayOrderID, input.PaymentID, input.Signature) {
		s.log.Warnf("payment %s: signature mismatch for gateway order %s", input.PaymentID, input.GatewayOrderID)
		return nil, ErrSignatureMismatch
	}

	checkout := input.Checkout
	checkout.PaymentMethod = models.PaymentMethodRazorpay
	checkout.GatewayOrderID = input.GatewayOrderID
	checkout.GatewayPaymentID = input.PaymentID
	checkout.GatewaySignature = input.Signature

	order, err := s.checkout.Place(ctx, checkout)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(notify.PaymentCaptured{
		OrderNumber: order.OrderNumber,
		PaymentID:   input.PaymentID,
		Amount:      order.Total,
	})
	return order, nil
}
