package storage

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/curemart/internal/models"
)

type sqlOrders struct {
	db *gorm.DB
}

func (r *sqlOrders) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items").Preload("Activity")
}

func (r *sqlOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.preload(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translateSQLError(err)
	}
	return &order, nil
}

func (r *sqlOrders) FindByOrderNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	if err := r.preload(ctx).First(&order, "order_number = ?", number).Error; err != nil {
		return nil, translateSQLError(err)
	}
	return &order, nil
}

func (r *sqlOrders) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	var order models.Order
	if err := r.preload(ctx).First(&order, "razorpay_order_id = ?", gatewayOrderID).Error; err != nil {
		return nil, translateSQLError(err)
	}
	return &order, nil
}

func (r *sqlOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.preload(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (r *sqlOrders) ListByAgent(ctx context.Context, agentID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.preload(ctx).
		Where("delivery_agent_id = ?", agentID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (r *sqlOrders) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.preload(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var orders []models.Order
	err := q.Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *sqlOrders) Create(ctx context.Context, order *models.Order) error {
	return translateSQLError(r.db.WithContext(ctx).Create(order).Error)
}

// Update persists the order's own columns. Items and activity rows are
// immutable once written; the audit trail grows through AppendActivity.
func (r *sqlOrders) Update(ctx context.Context, order *models.Order) error {
	return translateSQLError(r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(order).Error)
}

func (r *sqlOrders) AppendActivity(ctx context.Context, orderID string, activity *models.OrderActivity) error {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return ErrNotFound
	}
	activity.OrderID = id
	return translateSQLError(r.db.WithContext(ctx).Create(activity).Error)
}
