package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/notify"
	"github.com/example/curemart/internal/storage"
)

func newTestEnv(t *testing.T) (storage.Store, *Engine, *Checkout) {
	t.Helper()
	files, err := jsondb.New(t.TempDir(), jsondb.NewFileLockManager(), zap.NewNop().Sugar())
	require.NoError(t, err)

	store := storage.NewDocStore(files)
	log := zap.NewNop().Sugar()
	bus := notify.NewBus(log)
	return store, NewEngine(store, bus, log), NewCheckout(store, bus, log)
}

func seedOrder(t *testing.T, store storage.Store, status string, mutate ...func(*models.Order)) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:   "CM-TEST-" + status,
		UserID:        "customer-1",
		Status:        status,
		PaymentMethod: models.PaymentMethodCOD,
		PaymentStatus: models.PaymentStatusPending,
		Total:         100,
	}
	for _, fn := range mutate {
		fn(order)
	}
	require.NoError(t, store.Orders().Create(context.Background(), order))
	return order
}

func seedAgent(t *testing.T, store storage.Store, phone, status string) *models.DeliveryAgent {
	t.Helper()
	agent := &models.DeliveryAgent{Name: "Agent " + phone, Phone: phone, Status: status}
	require.NoError(t, store.Agents().Create(context.Background(), agent))
	return agent
}

func TestValidTransition(t *testing.T) {
	assert.True(t, ValidTransition(models.OrderStatusPending, models.OrderStatusConfirmed))
	assert.True(t, ValidTransition(models.OrderStatusConfirmed, models.OrderStatusShipped))
	assert.True(t, ValidTransition(models.OrderStatusPacked, models.OrderStatusCancelled))

	assert.False(t, ValidTransition(models.OrderStatusConfirmed, models.OrderStatusPending))
	assert.False(t, ValidTransition(models.OrderStatusShipped, models.OrderStatusShipped))
	assert.False(t, ValidTransition(models.OrderStatusDelivered, models.OrderStatusCancelled))
	assert.False(t, ValidTransition(models.OrderStatusCancelled, models.OrderStatusConfirmed))
	assert.False(t, ValidTransition(models.OrderStatusPending, "teleported"))
}

func TestUpdateStatusWalksPipelineAndAudits(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()
	order := seedOrder(t, store, models.OrderStatusPending)
	admin := Actor{Kind: ActorAdmin, ID: "admin-1", Name: "Ops"}

	for _, status := range []string{
		models.OrderStatusConfirmed,
		models.OrderStatusPacked,
		models.OrderStatusShipped,
		models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered,
	} {
		updated, err := engine.UpdateStatus(ctx, admin, order.ID.String(), status, "")
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	final, err := store.Orders().FindByID(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, final.Status)
	require.NotNil(t, final.DeliveredAt)
	assert.Len(t, final.Activity, 5)
}

func TestTerminalOrdersAreImmutable(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()
	admin := Actor{Kind: ActorAdmin, ID: "admin-1"}

	delivered := seedOrder(t, store, models.OrderStatusDelivered)
	_, err := engine.UpdateStatus(ctx, admin, delivered.ID.String(), models.OrderStatusCancelled, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled := seedOrder(t, store, models.OrderStatusCancelled)
	_, err = engine.UpdateStatus(ctx, admin, cancelled.ID.String(), models.OrderStatusConfirmed, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = engine.Cancel(ctx, admin, delivered.ID.String(), "too late")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusAgentAuthorization(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()

	assigned := seedAgent(t, store, "111", models.AgentStatusActive)
	other := seedAgent(t, store, "222", models.AgentStatusActive)
	order := seedOrder(t, store, models.OrderStatusAssigned, func(o *models.Order) {
		o.DeliveryAgentID = assigned.ID.String()
	})

	_, err := engine.UpdateStatus(ctx, Actor{Kind: ActorAgent, ID: other.ID.String()},
		order.ID.String(), models.OrderStatusPacked, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = engine.UpdateStatus(ctx, Actor{Kind: ActorCustomer, ID: "customer-1"},
		order.ID.String(), models.OrderStatusPacked, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	updated, err := engine.UpdateStatus(ctx, Actor{Kind: ActorAgent, ID: assigned.ID.String()},
		order.ID.String(), models.OrderStatusPacked, "picked up")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPacked, updated.Status)
}

func TestAssignAgent(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()
	admin := Actor{Kind: ActorAdmin, ID: "admin-1"}

	active := seedAgent(t, store, "111", models.AgentStatusActive)
	inactive := seedAgent(t, store, "222", models.AgentStatusInactive)
	order := seedOrder(t, store, models.OrderStatusConfirmed)

	_, err := engine.AssignAgent(ctx, admin, order.ID.String(), inactive.ID.String())
	assert.ErrorIs(t, err, ErrAgentInactive)

	updated, err := engine.AssignAgent(ctx, admin, order.ID.String(), active.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAssigned, updated.Status)
	assert.Equal(t, active.ID.String(), updated.DeliveryAgentID)

	reloaded, err := store.Agents().FindByID(ctx, active.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.TotalDeliveries)

	_, err = engine.AssignAgent(ctx, Actor{Kind: ActorAgent, ID: active.ID.String()},
		order.ID.String(), active.ID.String())
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAssignAgentReassignmentOverwrites(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()
	admin := Actor{Kind: ActorAdmin, ID: "admin-1"}

	first := seedAgent(t, store, "111", models.AgentStatusActive)
	second := seedAgent(t, store, "222", models.AgentStatusActive)
	order := seedOrder(t, store, models.OrderStatusConfirmed)

	_, err := engine.AssignAgent(ctx, admin, order.ID.String(), first.ID.String())
	require.NoError(t, err)

	updated, err := engine.AssignAgent(ctx, admin, order.ID.String(), second.ID.String())
	require.NoError(t, err)
	assert.Equal(t, second.ID.String(), updated.DeliveryAgentID)
	assert.Equal(t, models.OrderStatusAssigned, updated.Status)

	// The order counts toward one agent only: the displaced agent gives the
	// assignment back.
	firstReloaded, err := store.Agents().FindByID(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, firstReloaded.TotalDeliveries)

	secondReloaded, err := store.Agents().FindByID(ctx, second.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, secondReloaded.TotalDeliveries)
}

func TestAssignAgentSameAgentDoesNotDoubleCount(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()
	admin := Actor{Kind: ActorAdmin, ID: "admin-1"}

	agent := seedAgent(t, store, "111", models.AgentStatusActive)
	order := seedOrder(t, store, models.OrderStatusConfirmed)

	_, err := engine.AssignAgent(ctx, admin, order.ID.String(), agent.ID.String())
	require.NoError(t, err)
	_, err = engine.AssignAgent(ctx, admin, order.ID.String(), agent.ID.String())
	require.NoError(t, err)

	reloaded, err := store.Agents().FindByID(ctx, agent.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.TotalDeliveries)
}

func TestCancelRules(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()
	owner := Actor{Kind: ActorCustomer, ID: "customer-1"}
	stranger := Actor{Kind: ActorCustomer, ID: "customer-2"}
	admin := Actor{Kind: ActorAdmin, ID: "admin-1"}

	pending := seedOrder(t, store, models.OrderStatusPending)
	_, err := engine.Cancel(ctx, stranger, pending.ID.String(), "mine now")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	cancelled, err := engine.Cancel(ctx, owner, pending.ID.String(), "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "changed my mind", cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledAt)

	packed := seedOrder(t, store, models.OrderStatusPacked)
	_, err = engine.Cancel(ctx, owner, packed.ID.String(), "too slow")
	assert.ErrorIs(t, err, ErrNotCancellable)

	adminCancelled, err := engine.Cancel(ctx, admin, packed.ID.String(), "out of stock")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, adminCancelled.Status)
}

func TestDeliveryOutcomeUpdatesAgentCounters(t *testing.T) {
	store, engine, _ := newTestEnv(t)
	ctx := context.Background()
	admin := Actor{Kind: ActorAdmin, ID: "admin-1"}
	agent := seedAgent(t, store, "111", models.AgentStatusActive)

	delivered := seedOrder(t, store, models.OrderStatusOutForDelivery, func(o *models.Order) {
		o.DeliveryAgentID = agent.ID.String()
	})
	_, err := engine.UpdateStatus(ctx, admin, delivered.ID.String(), models.OrderStatusDelivered, "")
	require.NoError(t, err)

	dropped := seedOrder(t, store, models.OrderStatusAssigned, func(o *models.Order) {
		o.DeliveryAgentID = agent.ID.String()
	})
	_, err = engine.Cancel(ctx, admin, dropped.ID.String(), "customer unreachable")
	require.NoError(t, err)

	reloaded, err := store.Agents().FindByID(ctx, agent.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.CompletedDeliveries)
	assert.Equal(t, 1, reloaded.CancelledDeliveries)
}
