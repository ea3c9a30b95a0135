package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/notify"
	"github.com/example/curemart/internal/storage"
)

var (
	// ErrEmptyOrder is returned when a checkout carries no items.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrProductUnavailable is returned for unknown or inactive products.
	ErrProductUnavailable = errors.New("product unavailable")

	// ErrInsufficientStock is returned when the requested quantity exceeds
	// the available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCouponInvalid is returned for unknown, inactive or inapplicable
	// coupon codes.
	ErrCouponInvalid = errors.New("coupon not applicable")
)

// CheckoutItem is one requested line of a checkout. Prices always come from
// the catalog, never from the client.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutInput carries everything needed to place an order. UserID is
// empty for guest checkouts. The gateway correlation fields are set only on
// verified online payments.
type CheckoutInput struct {
	UserID string

	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	AddressLine   string
	City          string
	State         string
	Pincode       string

	PaymentMethod string
	CouponCode    string
	Items         []CheckoutItem

	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
}

// Checkout turns a priced cart into a persisted order.
type Checkout struct {
	store storage.Store
	bus   *notify.Bus
	log   *zap.SugaredLogger
}

// NewCheckout constructs a Checkout service.
func NewCheckout(store storage.Store, bus *notify.Bus, log *zap.SugaredLogger) *Checkout {
	return &Checkout{store: store, bus: bus, log: log}
}

// Quote prices the requested items against the catalog and applies the
// coupon, if any. The returned order items carry the snapshot prices that
// will be frozen into the order.
func (c *Checkout) Quote(ctx context.Context, items []CheckoutItem, couponCode string) ([]models.OrderItem, float64, float64, error) {
	if len(items) == 0 {
		return nil, 0, 0, ErrEmptyOrder
	}

	lines := make([]models.OrderItem, 0, len(items))
	var subtotal float64
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, 0, 0, fmt.Errorf("%w: quantity must be positive", ErrEmptyOrder)
		}
		product, err := c.store.Products().FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, 0, 0, fmt.Errorf("%w: %s", ErrProductUnavailable, item.ProductID)
			}
			return nil, 0, 0, err
		}
		if !product.IsActive {
			return nil, 0, 0, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}
		if product.Stock < item.Quantity {
			return nil, 0, 0, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}

		lineTotal := product.Price * float64(item.Quantity)
		lines = append(lines, models.OrderItem{
			ProductID:   product.ID.String(),
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			LineTotal:   lineTotal,
		})
		subtotal += lineTotal
	}

	total := subtotal
	if couponCode != "" {
		discount, err := c.couponDiscount(ctx, couponCode, subtotal)
		if err != nil {
			return nil, 0, 0, err
		}
		total = subtotal - discount
	}

	return lines, subtotal, total, nil
}

func (c *Checkout) couponDiscount(ctx context.Context, code string, subtotal float64) (float64, error) {
	coupon, err := c.store.Coupons().FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrCouponInvalid, code)
		}
		return 0, err
	}
	if !coupon.Active {
		return 0, fmt.Errorf("%w: %s", ErrCouponInvalid, code)
	}
	if subtotal < coupon.MinOrderAmount {
		return 0, fmt.Errorf("%w: minimum order amount %.2f", ErrCouponInvalid, coupon.MinOrderAmount)
	}

	discount := subtotal * coupon.DiscountPercent / 100
	if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
		discount = coupon.MaxDiscount
	}
	return discount, nil
}

// Place prices the checkout, persists the order, decrements stock and
// clears the user's cart. The order-placed notification is emitted
// best-effort after the order exists.
func (c *Checkout) Place(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	lines, subtotal, total, err := c.Quote(ctx, input.Items, input.CouponCode)
	if err != nil {
		return nil, err
	}

	paymentStatus := models.PaymentStatusPending
	if input.PaymentMethod == models.PaymentMethodRazorpay {
		// Online orders only reach Place after signature verification.
		paymentStatus = models.PaymentStatusPaid
	}

	order := &models.Order{
		OrderNumber: newOrderNumber(),
		UserID:      input.UserID,
		Items:       lines,
		Subtotal:    subtotal,
		Total:       total,

		PaymentMethod: input.PaymentMethod,
		PaymentStatus: paymentStatus,
		Status:        models.OrderStatusPending,

		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		CustomerEmail: input.CustomerEmail,
		AddressLine:   input.AddressLine,
		City:          input.City,
		State:         input.State,
		Pincode:       input.Pincode,

		RazorpayOrderID:   input.GatewayOrderID,
		RazorpayPaymentID: input.GatewayPaymentID,
		RazorpaySignature: input.GatewaySignature,
	}

	if err := c.store.Orders().Create(ctx, order); err != nil {
		return nil, err
	}

	c.decrementStock(ctx, order)

	if input.UserID != "" {
		if err := c.store.Carts().Clear(ctx, input.UserID); err != nil {
			c.log.Errorf("order %s: cart clear failed: %v", order.OrderNumber, err)
		}
	}

	event := notify.OrderPlaced{
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		CustomerEmail: order.CustomerEmail,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
	}
	for _, line := range order.Items {
		event.Items = append(event.Items, notify.OrderLine{
			Name:     line.ProductName,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}
	c.bus.Publish(event)

	c.log.Infof("order %s placed: %d items, total %.2f (%s)",
		order.OrderNumber, len(order.Items), order.Total, order.PaymentMethod)
	return order, nil
}

func (c *Checkout) decrementStock(ctx context.Context, order *models.Order) {
	for _, line := range order.Items {
		product, err := c.store.Products().FindByID(ctx, line.ProductID)
		if err != nil {
			c.log.Errorf("order %s: stock lookup for %s failed: %v", order.OrderNumber, line.ProductID, err)
			continue
		}
		product.Stock -= line.Quantity
		if product.Stock < 0 {
			product.Stock = 0
		}
		if err := c.store.Products().Update(ctx, product); err != nil {
			c.log.Errorf("order %s: stock update for %s failed: %v", order.OrderNumber, line.ProductID, err)
		}
	}
}

// newOrderNumber builds a human-quotable unique order number.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("CM%s%s", time.Now().Format("060102"), suffix)
}
