package storage

import (
	"context"
	"sort"

	"github.com/example/curemart/internal/models"
)

// docOrders keeps orders in orders.json (with the audit trail embedded) and
// order lines in orderItems.json, mirroring the relational layout. The two
// files are locked independently: order-create and item-writes are not one
// atomic unit, which is an accepted limitation of the flat-file mode.
type docOrders struct {
	orders collection[models.Order]
	items  collection[models.OrderItem]
}

func (r *docOrders) attachItems(orders []models.Order) ([]models.Order, error) {
	all, err := r.items.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	byOrder := make(map[string][]models.OrderItem, len(orders))
	for _, item := range all {
		key := item.OrderID.String()
		byOrder[key] = append(byOrder[key], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID.String()]
	}
	return orders, nil
}

func (r *docOrders) loadOne(order *models.Order, err error) (*models.Order, error) {
	if err != nil {
		return nil, err
	}
	loaded, err := r.attachItems([]models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &loaded[0], nil
}

func (r *docOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := r.orders.get(id)
	return r.loadOne(order, err)
}

func (r *docOrders) FindByOrderNumber(ctx context.Context, number string) (*models.Order, error) {
	order, err := r.orders.first(func(o *models.Order) bool { return o.OrderNumber == number })
	return r.loadOne(order, err)
}

func (r *docOrders) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	order, err := r.orders.first(func(o *models.Order) bool {
		return gatewayOrderID != "" && o.RazorpayOrderID == gatewayOrderID
	})
	return r.loadOne(order, err)
}

func (r *docOrders) sortDesc(orders []models.Order) []models.Order {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (r *docOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := r.orders.where(func(o *models.Order) bool { return o.UserID == userID })
	if err != nil {
		return nil, err
	}
	return r.attachItems(r.sortDesc(orders))
}

func (r *docOrders) ListByAgent(ctx context.Context, agentID string) ([]models.Order, error) {
	orders, err := r.orders.where(func(o *models.Order) bool {
		return agentID != "" && o.DeliveryAgentID == agentID
	})
	if err != nil {
		return nil, err
	}
	return r.attachItems(r.sortDesc(orders))
}

func (r *docOrders) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	orders, err := r.orders.where(func(o *models.Order) bool {
		if filter.Status != "" && o.Status != filter.Status {
			return false
		}
		if !filter.Since.IsZero() && o.CreatedAt.Before(filter.Since) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	orders = r.sortDesc(orders)

	if filter.Limit > 0 {
		if filter.Offset >= len(orders) {
			orders = nil
		} else {
			end := filter.Offset + filter.Limit
			if end > len(orders) {
				end = len(orders)
			}
			orders = orders[filter.Offset:end]
		}
	}
	return r.attachItems(orders)
}

func (r *docOrders) Create(ctx context.Context, order *models.Order) error {
	stamp(&order.BaseModel)

	items := order.Items
	for i := range items {
		items[i].OrderID = order.ID
		stamp(&items[i].BaseModel)
	}

	// The order record itself carries the audit trail but not the items.
	stored := *order
	stored.Items = nil
	if err := r.orders.put(ctx, stored.ID.String(), &stored); err != nil {
		return err
	}

	for i := range items {
		if err := r.items.put(ctx, items[i].ID.String(), &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *docOrders) Update(ctx context.Context, order *models.Order) error {
	stamp(&order.BaseModel)
	stored := *order
	stored.Items = nil
	return r.orders.put(ctx, stored.ID.String(), &stored)
}

func (r *docOrders) AppendActivity(ctx context.Context, orderID string, activity *models.OrderActivity) error {
	_, err := r.orders.mutate(ctx, orderID, func(o *models.Order) error {
		activity.OrderID = o.ID
		stamp(&activity.BaseModel)
		o.Activity = append(o.Activity, *activity)
		return nil
	})
	return err
}
