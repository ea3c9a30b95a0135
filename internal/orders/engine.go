// Package orders implements the order-lifecycle state machine: status
// transitions, delivery-agent assignment, cancellation and the audit trail.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/notify"
	"github.com/example/curemart/internal/storage"
)

var (
	// ErrInvalidTransition is returned when a status change violates the
	// state machine, including any transition out of a terminal status.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrNotAuthorized is returned when the acting principal may not touch
	// the order, e.g. a delivery agent updating an order not assigned to
	// them.
	ErrNotAuthorized = errors.New("not authorized for this order")

	// ErrAgentInactive is returned when assigning an inactive agent.
	ErrAgentInactive = errors.New("delivery agent is not active")

	// ErrNotCancellable is returned when a customer cancels too late in the
	// pipeline.
	ErrNotCancellable = errors.New("order can no longer be cancelled")
)

// Actor kinds.
const (
	ActorCustomer = "customer"
	ActorAdmin    = "admin"
	ActorAgent    = "agent"
)

// Actor is the authenticated principal driving a lifecycle operation.
type Actor struct {
	Kind string
	ID   string
	Name string
}

func (a Actor) String() string {
	if a.Name != "" {
		return fmt.Sprintf("%s (%s)", a.Name, a.Kind)
	}
	return a.Kind
}

// statusRank orders the pipeline. Transitions only ever move forward;
// "assigned" sits between confirmed and packed because agent binding
// happens at confirmed or later.
var statusRank = map[string]int{
	models.OrderStatusPending:        0,
	models.OrderStatusConfirmed:      1,
	models.OrderStatusAssigned:       2,
	models.OrderStatusPacked:         3,
	models.OrderStatusShipped:        4,
	models.OrderStatusOutForDelivery: 5,
	models.OrderStatusDelivered:      6,
}

// ValidTransition reports whether an order may move from one status to
// another. Terminal statuses permit nothing.
func ValidTransition(from, to string) bool {
	if from == models.OrderStatusDelivered || from == models.OrderStatusCancelled {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}

	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Engine governs order-state changes and their side effects.
type Engine struct {
	store storage.Store
	bus   *notify.Bus
	log   *zap.SugaredLogger
}

// NewEngine constructs an Engine.
func NewEngine(store storage.Store, bus *notify.Bus, log *zap.SugaredLogger) *Engine {
	return &Engine{store: store, bus: bus, log: log}
}

// UpdateStatus applies one lifecycle transition. Only admins and the
// assigned delivery agent may drive it. The audit trail gains one entry and
// a status notification is emitted best-effort.
func (e *Engine) UpdateStatus(ctx context.Context, actor Actor, orderID, newStatus, notes string) (*models.Order, error) {
	order, err := e.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch actor.Kind {
	case ActorAdmin:
	case ActorAgent:
		if order.DeliveryAgentID == "" || order.DeliveryAgentID != actor.ID {
			return nil, ErrNotAuthorized
		}
	default:
		return nil, ErrNotAuthorized
	}

	if !ValidTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	previous := order.Status
	order.Status = newStatus
	now := time.Now()
	if newStatus == models.OrderStatusDelivered {
		order.DeliveredAt = &now
	}
	if newStatus == models.OrderStatusCancelled {
		order.CancelledAt = &now
	}

	if err := e.store.Orders().Update(ctx, order); err != nil {
		return nil, err
	}

	e.appendActivity(ctx, order, actor, notes)
	e.updateAgentCounters(ctx, order, newStatus)

	e.bus.Publish(notify.OrderStatusChanged{
		OrderNumber:   order.OrderNumber,
		Status:        newStatus,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		CustomerEmail: order.CustomerEmail,
	})

	e.log.Infof("order %s: %s -> %s by %s", order.OrderNumber, previous, newStatus, actor)
	return order, nil
}

// AssignAgent binds an active delivery agent to the order and moves it to
// "assigned". Repeating with a different agent overwrites the assignment.
func (e *Engine) AssignAgent(ctx context.Context, actor Actor, orderID, agentID string) (*models.Order, error) {
	if actor.Kind != ActorAdmin {
		return nil, ErrNotAuthorized
	}

	order, err := e.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Terminal() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.OrderStatusAssigned)
	}

	agent, err := e.store.Agents().FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !agent.Active() {
		return nil, ErrAgentInactive
	}

	previousAgentID := order.DeliveryAgentID
	reassigned := previousAgentID != "" && previousAgentID != agentID
	order.DeliveryAgentID = agent.ID.String()
	order.Status = models.OrderStatusAssigned

	if err := e.store.Orders().Update(ctx, order); err != nil {
		return nil, err
	}

	notes := "assigned to " + agent.Name
	if reassigned {
		notes = "reassigned to " + agent.Name
	}
	e.appendActivity(ctx, order, actor, notes)

	// An order counts toward exactly one agent's workload: re-binding the
	// same agent changes nothing, and a reassignment moves the count from
	// the displaced agent to the new one.
	if previousAgentID != agentID {
		agent.TotalDeliveries++
		if err := e.store.Agents().Update(ctx, agent); err != nil {
			e.log.Errorf("order %s: agent counter update failed: %v", order.OrderNumber, err)
		}
	}
	if reassigned {
		previous, err := e.store.Agents().FindByID(ctx, previousAgentID)
		if err != nil {
			e.log.Errorf("order %s: displaced agent %s lookup failed: %v", order.OrderNumber, previousAgentID, err)
		} else {
			if previous.TotalDeliveries > 0 {
				previous.TotalDeliveries--
			}
			if err := e.store.Agents().Update(ctx, previous); err != nil {
				e.log.Errorf("order %s: agent counter update failed: %v", order.OrderNumber, err)
			}
		}
	}

	return order, nil
}

// Cancel moves the order to "cancelled" and records the reason. Customers
// may cancel their own order while it is still pending or confirmed; admins
// may cancel at any non-terminal status. Payment is not reversed here.
func (e *Engine) Cancel(ctx context.Context, actor Actor, orderID, reason string) (*models.Order, error) {
	order, err := e.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Terminal() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.OrderStatusCancelled)
	}

	switch actor.Kind {
	case ActorAdmin:
	case ActorCustomer:
		if order.UserID == "" || order.UserID != actor.ID {
			return nil, ErrNotAuthorized
		}
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
			return nil, ErrNotCancellable
		}
	default:
		return nil, ErrNotAuthorized
	}

	now := time.Now()
	order.Status = models.OrderStatusCancelled
	order.CancellationReason = reason
	order.CancelledAt = &now

	if err := e.store.Orders().Update(ctx, order); err != nil {
		return nil, err
	}

	e.appendActivity(ctx, order, actor, reason)
	e.updateAgentCounters(ctx, order, models.OrderStatusCancelled)

	e.bus.Publish(notify.OrderStatusChanged{
		OrderNumber:   order.OrderNumber,
		Status:        models.OrderStatusCancelled,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		CustomerEmail: order.CustomerEmail,
	})

	return order, nil
}

func (e *Engine) appendActivity(ctx context.Context, order *models.Order, actor Actor, notes string) {
	activity := &models.OrderActivity{
		Status: order.Status,
		Actor:  actor.String(),
		Notes:  notes,
	}
	if err := e.store.Orders().AppendActivity(ctx, order.ID.String(), activity); err != nil {
		e.log.Errorf("order %s: audit append failed: %v", order.OrderNumber, err)
	}
}

// updateAgentCounters keeps the assigned agent's cumulative counters in
// sync with delivery outcomes.
func (e *Engine) updateAgentCounters(ctx context.Context, order *models.Order, newStatus string) {
	if order.DeliveryAgentID == "" {
		return
	}
	if newStatus != models.OrderStatusDelivered && newStatus != models.OrderStatusCancelled {
		return
	}

	agent, err := e.store.Agents().FindByID(ctx, order.DeliveryAgentID)
	if err != nil {
		e.log.Errorf("order %s: agent %s lookup failed: %v", order.OrderNumber, order.DeliveryAgentID, err)
		return
	}

	switch newStatus {
	case models.OrderStatusDelivered:
		agent.CompletedDeliveries++
	case models.OrderStatusCancelled:
		agent.CancelledDeliveries++
	}

	if err := e.store.Agents().Update(ctx, agent); err != nil {
		e.log.Errorf("order %s: agent counter update failed: %v", order.OrderNumber, err)
	}
}
