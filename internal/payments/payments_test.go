package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/notify"
	"github.com/example/curemart/internal/orders"
	"github.com/example/curemart/internal/storage"
)

// stubGateway records the amount it was asked to register and hands back a
// fixed gateway order id.
type stubGateway struct {
	orderID string
	amount  float64
	receipt string
}

func (g *stubGateway) CreateRemoteOrder(_ context.Context, amount float64, receipt string) (string, error) {
	g.amount = amount
	g.receipt = receipt
	return g.orderID, nil
}

func newTestService(t *testing.T) (storage.Store, *Service, *stubGateway) {
	t.Helper()
	files, err := jsondb.New(t.TempDir(), jsondb.NewFileLockManager(), zap.NewNop().Sugar())
	require.NoError(t, err)

	store := storage.NewDocStore(files)
	log := zap.NewNop().Sugar()
	bus := notify.NewBus(log)
	checkout := orders.NewCheckout(store, bus, log)
	gateway := &stubGateway{orderID: "order_stub1"}
	svc := NewService(checkout, gateway, NewVerifier("test-secret"), bus, log, "rzp_test_key")
	return store, svc, gateway
}

func seedProduct(t *testing.T, store storage.Store, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{Name: "Zinc Tablets", Price: price, Stock: stock, IsActive: true}
	require.NoError(t, store.Products().Create(context.Background(), product))
	return product
}

func TestVerifierSignatureRoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")
	sig := v.Signature("order_1", "pay_1")

	assert.True(t, v.Verify("order_1", "pay_1", sig))
	assert.False(t, v.Verify("order_2", "pay_1", sig))
	assert.False(t, v.Verify("order_1", "pay_2", sig))
	assert.False(t, v.Verify("order_1", "pay_1", sig+"00"))
	assert.False(t, v.Verify("order_1", "pay_1", ""))

	// A different secret produces a different digest for the same pair.
	assert.False(t, NewVerifier("other-secret").Verify("order_1", "pay_1", sig))
}

func TestCreatePaymentOrderUsesServerPricing(t *testing.T) {
	store, svc, gateway := newTestService(t)
	product := seedProduct(t, store, 350, 10)

	order, err := svc.CreatePaymentOrder(context.Background(),
		[]orders.CheckoutItem{{ProductID: product.ID.String(), Quantity: 2}}, "")
	require.NoError(t, err)

	assert.Equal(t, "order_stub1", order.GatewayOrderID)
	assert.Equal(t, 700.0, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.KeyID)

	assert.Equal(t, 700.0, gateway.amount)
	assert.NotEmpty(t, gateway.receipt)
}

func TestCreatePaymentOrderRejectsUnavailableItems(t *testing.T) {
	_, svc, _ := newTestService(t)

	_, err := svc.CreatePaymentOrder(context.Background(),
		[]orders.CheckoutItem{{ProductID: "nope", Quantity: 1}}, "")
	assert.ErrorIs(t, err, orders.ErrProductUnavailable)
}

func TestConfirmRejectsBadSignature(t *testing.T) {
	store, svc, _ := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, store, 350, 10)

	_, err := svc.Confirm(ctx, ConfirmInput{
		Checkout: orders.CheckoutInput{
			CustomerName:  "Asha",
			CustomerPhone: "9990001111",
			AddressLine:   "12 MG Road",
			City:          "Pune",
			Pincode:       "411001",
			Items:         []orders.CheckoutItem{{ProductID: product.ID.String(), Quantity: 1}},
		},
		GatewayOrderID: "order_stub1",
		PaymentID:      "pay_1",
		Signature:      "forged",
	})
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	// Nothing was persisted and no stock was touched.
	all, err := store.Orders().List(ctx, storage.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	reloaded, err := store.Products().FindByID(ctx, product.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Stock)
}

func TestConfirmPlacesPaidOrder(t *testing.T) {
	store, svc, _ := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, store, 350, 10)

	sig := NewVerifier("test-secret").Signature("order_stub1", "pay_1")
	order, err := svc.Confirm(ctx, ConfirmInput{
		Checkout: orders.CheckoutInput{
			CustomerName:  "Asha",
			CustomerPhone: "9990001111",
			AddressLine:   "12 MG Road",
			City:          "Pune",
			Pincode:       "411001",
			Items:         []orders.CheckoutItem{{ProductID: product.ID.String(), Quantity: 2}},
		},
		GatewayOrderID: "order_stub1",
		PaymentID:      "pay_1",
		Signature:      sig,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentMethodRazorpay, order.PaymentMethod)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 700.0, order.Total)
	assert.Equal(t, "order_stub1", order.RazorpayOrderID)
	assert.Equal(t, "pay_1", order.RazorpayPaymentID)

	persisted, err := store.Orders().FindByGatewayOrderID(ctx, "order_stub1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, persisted.ID)

	reloaded, err := store.Products().FindByID(ctx, product.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 8, reloaded.Stock)
}
