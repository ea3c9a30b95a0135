package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/storage"
)

func seedProduct(t *testing.T, store storage.Store, name string, price float64, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: price, Stock: stock, IsActive: active}
	require.NoError(t, store.Products().Create(context.Background(), product))
	return product
}

func guestInput(items ...CheckoutItem) CheckoutInput {
	return CheckoutInput{
		CustomerName:  "Asha",
		CustomerPhone: "9990001111",
		AddressLine:   "12 MG Road",
		City:          "Pune",
		Pincode:       "411001",
		PaymentMethod: models.PaymentMethodCOD,
		Items:         items,
	}
}

func TestQuotePricesFromCatalog(t *testing.T) {
	store, _, checkout := newTestEnv(t)
	product := seedProduct(t, store, "Sunscreen SPF50", 250, 10, true)

	lines, subtotal, total, err := checkout.Quote(context.Background(),
		[]CheckoutItem{{ProductID: product.ID.String(), Quantity: 3}}, "")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 250.0, lines[0].UnitPrice)
	assert.Equal(t, 750.0, lines[0].LineTotal)
	assert.Equal(t, 750.0, subtotal)
	assert.Equal(t, 750.0, total)
}

func TestQuoteRejectsBadItems(t *testing.T) {
	store, _, checkout := newTestEnv(t)
	ctx := context.Background()

	_, _, _, err := checkout.Quote(ctx, nil, "")
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, _, _, err = checkout.Quote(ctx, []CheckoutItem{{ProductID: "nope", Quantity: 1}}, "")
	assert.ErrorIs(t, err, ErrProductUnavailable)

	inactive := seedProduct(t, store, "Retired Balm", 80, 5, false)
	_, _, _, err = checkout.Quote(ctx, []CheckoutItem{{ProductID: inactive.ID.String(), Quantity: 1}}, "")
	assert.ErrorIs(t, err, ErrProductUnavailable)

	scarce := seedProduct(t, store, "Insulin Pen", 600, 2, true)
	_, _, _, err = checkout.Quote(ctx, []CheckoutItem{{ProductID: scarce.ID.String(), Quantity: 3}}, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestQuoteAppliesCoupon(t *testing.T) {
	store, _, checkout := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, store, "Vitamin C Serum", 500, 10, true)

	require.NoError(t, store.Coupons().Create(ctx, &models.Coupon{
		Code: "SAVE10", DiscountPercent: 10, MaxDiscount: 40, MinOrderAmount: 300, Active: true,
	}))

	// 10% of 500 is 50, capped at 40.
	_, _, total, err := checkout.Quote(ctx,
		[]CheckoutItem{{ProductID: product.ID.String(), Quantity: 1}}, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 460.0, total)

	_, _, _, err = checkout.Quote(ctx,
		[]CheckoutItem{{ProductID: product.ID.String(), Quantity: 1}}, "NOPE")
	assert.ErrorIs(t, err, ErrCouponInvalid)

	require.NoError(t, store.Coupons().Create(ctx, &models.Coupon{
		Code: "BIGONLY", DiscountPercent: 20, MinOrderAmount: 10000, Active: true,
	}))
	_, _, _, err = checkout.Quote(ctx,
		[]CheckoutItem{{ProductID: product.ID.String(), Quantity: 1}}, "BIGONLY")
	assert.ErrorIs(t, err, ErrCouponInvalid)
}

func TestPlaceGuestCODOrder(t *testing.T) {
	store, _, checkout := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, store, "Paracetamol 500mg", 50, 20, true)

	order, err := checkout.Place(ctx, guestInput(CheckoutItem{ProductID: product.ID.String(), Quantity: 4}))
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Empty(t, order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 200.0, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 50.0, order.Items[0].UnitPrice)

	reloaded, err := store.Products().FindByID(ctx, product.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 16, reloaded.Stock)

	persisted, err := store.Orders().FindByID(ctx, order.ID.String())
	require.NoError(t, err)
	require.Len(t, persisted.Items, 1)
}

func TestPlaceClearsCustomerCart(t *testing.T) {
	store, _, checkout := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, store, "Cough Syrup", 120, 10, true)

	_, err := store.Carts().Add(ctx, &models.CartItem{
		UserID: "customer-1", ProductID: product.ID.String(), Quantity: 2, Price: product.Price,
	})
	require.NoError(t, err)

	input := guestInput(CheckoutItem{ProductID: product.ID.String(), Quantity: 2})
	input.UserID = "customer-1"
	order, err := checkout.Place(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "customer-1", order.UserID)

	cart, err := store.Carts().List(ctx, "customer-1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestPlaceVerifiedOnlineOrderIsPaid(t *testing.T) {
	store, _, checkout := newTestEnv(t)
	ctx := context.Background()
	product := seedProduct(t, store, "Face Wash", 180, 10, true)

	input := guestInput(CheckoutItem{ProductID: product.ID.String(), Quantity: 1})
	input.PaymentMethod = models.PaymentMethodRazorpay
	input.GatewayOrderID = "order_abc"
	input.GatewayPaymentID = "pay_abc"

	order, err := checkout.Place(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "order_abc", order.RazorpayOrderID)

	found, err := store.Orders().FindByGatewayOrderID(ctx, "order_abc")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
}
