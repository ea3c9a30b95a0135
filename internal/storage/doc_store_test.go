package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/models"
)

func newTestDocStore(t *testing.T) *DocStore {
	t.Helper()
	files, err := jsondb.New(t.TempDir(), jsondb.NewFileLockManager(), zap.NewNop().Sugar())
	require.NoError(t, err)
	return NewDocStore(files)
}

func TestDocCartAddAccumulatesQuantity(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	first, err := store.Carts().Add(ctx, &models.CartItem{
		UserID: "u1", ProductID: "p1", Quantity: 2, Price: 49.50,
	})
	require.NoError(t, err)

	// Second add carries a different price; the original snapshot wins.
	second, err := store.Carts().Add(ctx, &models.CartItem{
		UserID: "u1", ProductID: "p1", Quantity: 3, Price: 99.99,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, 49.50, second.Price)

	items, err := store.Carts().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestDocCartUpdateRemoveClear(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	_, err := store.Carts().Add(ctx, &models.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1, Price: 10})
	require.NoError(t, err)
	_, err = store.Carts().Add(ctx, &models.CartItem{UserID: "u1", ProductID: "p2", Quantity: 1, Price: 20})
	require.NoError(t, err)

	item, err := store.Carts().UpdateQuantity(ctx, "u1", "p1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)

	require.NoError(t, store.Carts().Remove(ctx, "u1", "p2"))
	items, err := store.Carts().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Carts().Clear(ctx, "u1"))
	items, err = store.Carts().List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDocWishlistAddIsIdempotent(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	first, err := store.Wishlists().Add(ctx, "u1", "p1")
	require.NoError(t, err)

	second, err := store.Wishlists().Add(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	items, err := store.Wishlists().List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDocUserFindByIdentifier(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &models.User{Name: "Asha", Phone: "9990001111", Provider: models.ProviderOTP}))
	require.NoError(t, store.Users().Create(ctx, &models.User{Name: "Ravi", Email: "ravi@example.com", Provider: models.ProviderOTP}))

	byPhone, err := store.Users().FindByIdentifier(ctx, "9990001111")
	require.NoError(t, err)
	assert.Equal(t, "Asha", byPhone.Name)

	byEmail, err := store.Users().FindByIdentifier(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", byEmail.Name)

	_, err = store.Users().FindByIdentifier(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocOrderRoundTrip(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	order := &models.Order{
		OrderNumber:     "CM260828ABCDEF",
		UserID:          "u1",
		Status:          models.OrderStatusPending,
		PaymentMethod:   models.PaymentMethodRazorpay,
		PaymentStatus:   models.PaymentStatusPaid,
		RazorpayOrderID: "order_123",
		Subtotal:        150,
		Total:           150,
		Items: []models.OrderItem{
			{ProductID: "p1", ProductName: "Paracetamol 500mg", Quantity: 3, UnitPrice: 50, LineTotal: 150},
		},
	}
	require.NoError(t, store.Orders().Create(ctx, order))

	loaded, err := store.Orders().FindByID(ctx, order.ID.String())
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, order.ID, loaded.Items[0].OrderID)
	assert.Equal(t, "Paracetamol 500mg", loaded.Items[0].ProductName)

	byNumber, err := store.Orders().FindByOrderNumber(ctx, "CM260828ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	byGateway, err := store.Orders().FindByGatewayOrderID(ctx, "order_123")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byGateway.ID)

	require.NoError(t, store.Orders().AppendActivity(ctx, order.ID.String(), &models.OrderActivity{
		Status: models.OrderStatusConfirmed,
		Actor:  "admin",
	}))
	loaded, err = store.Orders().FindByID(ctx, order.ID.String())
	require.NoError(t, err)
	require.Len(t, loaded.Activity, 1)
	assert.Equal(t, models.OrderStatusConfirmed, loaded.Activity[0].Status)
}

func TestDocOrderListFilter(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	for _, status := range []string{models.OrderStatusPending, models.OrderStatusPending, models.OrderStatusDelivered} {
		require.NoError(t, store.Orders().Create(ctx, &models.Order{Status: status, UserID: "u1"}))
	}

	pending, err := store.Orders().List(ctx, OrderFilter{Status: models.OrderStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	limited, err := store.Orders().List(ctx, OrderFilter{Limit: 1, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDocProductListFilters(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, store.Products().Create(ctx, &models.Product{Name: "Vitamin C Serum", CategoryID: "c1", IsActive: true, Price: 300}))
	require.NoError(t, store.Products().Create(ctx, &models.Product{Name: "Vitamin D3 Tablets", CategoryID: "c2", IsActive: true, Price: 120}))
	require.NoError(t, store.Products().Create(ctx, &models.Product{Name: "Retired Balm", CategoryID: "c1", IsActive: false, Price: 80}))

	active, err := store.Products().List(ctx, ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	vitamins, err := store.Products().List(ctx, ProductFilter{Search: "vitamin", ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, vitamins, 2)

	c1, err := store.Products().List(ctx, ProductFilter{CategoryID: "c1"})
	require.NoError(t, err)
	assert.Len(t, c1, 2)
}

func TestDocAdminDuplicateEmailRejected(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, store.Admins().Create(ctx, &models.AdminUser{Email: "ops@curemart.example"}))
	err := store.Admins().Create(ctx, &models.AdminUser{Email: "ops@curemart.example"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestDocOTPSaveOverwritesAndSweeps(t *testing.T) {
	store := newTestDocStore(t)
	ctx := context.Background()

	require.NoError(t, store.OTPs().Save(ctx, &models.OTP{
		Identifier: "9990001111", Code: "111111", ExpiresAt: time.Now().Add(5 * time.Minute),
	}))
	require.NoError(t, store.OTPs().Save(ctx, &models.OTP{
		Identifier: "9990001111", Code: "222222", ExpiresAt: time.Now().Add(5 * time.Minute),
	}))

	record, err := store.OTPs().Find(ctx, "9990001111")
	require.NoError(t, err)
	assert.Equal(t, "222222", record.Code)

	require.NoError(t, store.OTPs().Save(ctx, &models.OTP{
		Identifier: "stale@example.com", Code: "333333", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	removed, err := store.OTPs().DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.OTPs().Find(ctx, "stale@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.OTPs().Find(ctx, "9990001111")
	assert.NoError(t, err)
}
